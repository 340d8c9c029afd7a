package storage

import (
	"context"
	"errors"

	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

var (
	// ErrNotFound is returned when a scoped lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("already exists")
)

type Storage interface {
	// ParentExists reports whether the parent row exists in its entity table.
	ParentExists(ctx context.Context, parent media.ParentType, parentID int64) (bool, error)

	// CreateMediaAssets inserts all rows in one transaction and returns them
	// with ID and CreatedAt filled in.
	CreateMediaAssets(ctx context.Context, assets []media.MediaAsset) ([]media.MediaAsset, error)

	// ListMediaAssets returns active assets ordered by sort_order, created_at, id.
	ListMediaAssets(ctx context.Context, parentType string, parentID int64, kind media.Kind) ([]media.MediaAsset, error)
	GetMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) (media.MediaAsset, error)
	DeleteMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) error
	UpdateMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64, upd media.AssetUpdate) error
	MediaSummary(ctx context.Context, parentType string, parentID int64) (media.Summary, error)

	// MediaFileReferenced reports whether any row points at filePath.
	MediaFileReferenced(ctx context.Context, filePath string) (bool, error)

	CreateUser(ctx context.Context, email, password string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (string, string, error)
}
