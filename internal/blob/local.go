package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore 把文件写入本地目录，由 /static 路由对外提供。
type LocalStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStore returns a store rooted at dir whose URLs start with urlPrefix.
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	if strings.TrimSpace(dir) == "" {
		dir = "./web/static/uploads"
	}
	prefix := strings.TrimRight(strings.TrimSpace(urlPrefix), "/")
	if prefix == "" {
		prefix = "/static/uploads"
	}
	return &LocalStore{dir: dir, urlPrefix: prefix, now: time.Now}
}

// Put 以 日期-uuid 的形式生成文件名并保存。
func (s *LocalStore) Put(ctx context.Context, name string, body io.Reader) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(name))
	key := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.New().String(), ext)
	path := filepath.Join(s.dir, key)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(path)
		return Object{}, fmt.Errorf("write upload file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return Object{}, err
	}

	return Object{URL: s.urlPrefix + "/" + key, Key: key}, nil
}

// Delete 删除文件；文件不存在时视为成功。
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
