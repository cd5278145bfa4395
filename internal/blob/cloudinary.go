package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStore uploads blobs to Cloudinary and returns their secure URLs.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryStore 通过 CLOUDINARY_URL 初始化客户端。
func NewCloudinaryStore(cloudURL string, logger *zap.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloudinaryStore{cld: cld, folder: "sitecraft", logger: logger}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, name string, body io.Reader) (Object, error) {
	result, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return Object{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return Object{}, fmt.Errorf("%w: %s", ErrUnavailable, result.Error.Message)
	}
	if strings.TrimSpace(result.SecureURL) == "" {
		return Object{}, ErrUnavailable
	}

	s.logger.Debug("cloudinary upload",
		zap.String("name", name),
		zap.String("public_id", result.PublicID),
	)
	return Object{URL: result.SecureURL, Key: result.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key}); err != nil {
		s.logger.Warn("cloudinary destroy failed", zap.String("public_id", key), zap.Error(err))
		return err
	}
	return nil
}
