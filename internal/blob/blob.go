package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes 单张上传图片的大小上限。
const MaxImageBytes = 10 << 20

var (
	ErrEmptyFile   = errors.New("uploaded file is empty")
	ErrNotImage    = errors.New("uploaded file is not a supported image")
	ErrFileTooBig  = errors.New("uploaded file is too large")
	ErrInvalidKey  = errors.New("invalid blob key")
	ErrUnavailable = errors.New("blob store unavailable")
)

// Object describes a stored blob.
type Object struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Store persists uploaded files and returns a public URL for them.
type Store interface {
	Put(ctx context.Context, name string, body io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a Store.
type Options struct {
	CloudinaryURL string
	Dir           string
	URLPrefix     string
}

// New 在配置了 Cloudinary 时返回 CloudinaryStore，否则写入本地目录。
func New(opts Options, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cloudURL := strings.TrimSpace(opts.CloudinaryURL); cloudURL != "" {
		store, err := NewCloudinaryStore(cloudURL, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("blob store configured", zap.String("backend", "cloudinary"))
		return store, nil
	}
	logger.Info("blob store configured", zap.String("backend", "local"), zap.String("dir", opts.Dir))
	return NewLocalStore(opts.Dir, opts.URLPrefix), nil
}

// Probe 读取图片头部并返回格式与尺寸。
func Probe(data []byte) (string, int, int, error) {
	if len(data) == 0 {
		return "", 0, 0, ErrEmptyFile
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return format, cfg.Width, cfg.Height, nil
}

// PutImage 校验图片后写入 store，返回的 Object 带有探测到的尺寸。
func PutImage(ctx context.Context, store Store, name string, body io.Reader) (Object, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxImageBytes+1))
	if err != nil {
		return Object{}, err
	}
	if len(data) > MaxImageBytes {
		return Object{}, ErrFileTooBig
	}

	format, width, height, err := Probe(data)
	if err != nil {
		return Object{}, err
	}

	obj, err := store.Put(ctx, nameWithFormat(name, format), bytes.NewReader(data))
	if err != nil {
		return Object{}, err
	}
	obj.Width = width
	obj.Height = height
	obj.Format = format
	return obj, nil
}

var formatExt = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
	"bmp":  ".bmp",
}

// 扩展名以探测到的格式为准，不信任客户端文件名
func nameWithFormat(name, format string) string {
	base := strings.TrimSpace(name)
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[:idx]
	}
	if base == "" {
		base = "image"
	}
	return base + formatExt[format]
}
