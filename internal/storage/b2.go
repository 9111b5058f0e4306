package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Angel-crypt/backend-we/internal/config"
	"github.com/kurin/blazer/b2"
	"github.com/rs/zerolog"
)

// B2Storage keeps lesson plans in a Backblaze B2 bucket.
type B2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
	logger zerolog.Logger
}

func NewB2Storage(ctx context.Context, cfg config.B2Config, bucketName string, logger zerolog.Logger) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, cfg.AccountID, cfg.AppKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	logger.Info().Str("bucket", bucketName).Msg("Connected to Backblaze B2")

	return &B2Storage{client: client, bucket: bucket, logger: logger}, nil
}

func (s *B2Storage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	obj := s.bucket.Object(key)
	w := obj.NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	s.logger.Debug().Str("key", key).Int64("size", size).Msg("Object uploaded to B2")

	return s.PublicURL(key), nil
}

func (s *B2Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		if b2.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	s.logger.Debug().Str("key", key).Msg("Object deleted from B2")
	return nil
}

func (s *B2Storage) PublicURL(key string) string {
	return s.bucket.Object(strings.TrimLeft(key, "/")).URL()
}
