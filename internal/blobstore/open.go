package blobstore

import (
	"context"
	"fmt"

	"github.com/princekumarofficial/tourism-media-service/internal/config"
)

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case "local":
		l, err := NewLocal(cfg.UploadsDir, cfg.PublicPrefix)
		if err != nil {
			return nil, err
		}
		return l, nil
	case "minio":
		m, err := NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
