package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/princekumarofficial/tourism-media-service/internal/blobstore"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/events"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrParentNotFound  = errors.New("parent not found")
	ErrUnsupportedKind = errors.New("media kind not supported for parent")
)

// sniffLen is the number of leading bytes mimetype needs for detection.
const sniffLen = 3072

// Service manages media collections for every registered parent type.
type Service struct {
	store     storage.Storage
	blobs     blobstore.Store
	publisher events.Publisher
	policies  map[media.Kind]Policy
	validate  *validator.Validate
	now       func() time.Time
}

// NewService creates a media service. A nil publisher drops events.
func NewService(store storage.Storage, blobs blobstore.Store, publisher events.Publisher, limits config.Media) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		store:     store,
		blobs:     blobs,
		publisher: publisher,
		policies: map[media.Kind]Policy{
			media.KindImage: NewPolicy(media.KindImage, limits.Image),
			media.KindVideo: NewPolicy(media.KindVideo, limits.Video),
		},
		validate: validator.New(),
		now:      time.Now,
	}
}

// Policy returns the upload limits for kind.
func (s *Service) Policy(kind media.Kind) Policy {
	return s.policies[kind]
}

type UploadRequest struct {
	Parent   media.ParentType
	ParentID int64
	Kind     media.Kind
	Files    []File
	Meta     media.UploadMetadata
}

// Upload stores every file of the request and records one row per file.
// Either all files are kept and recorded, or none are.
func (s *Service) Upload(ctx context.Context, req UploadRequest) ([]media.MediaAsset, error) {
	if !req.Parent.Supports(req.Kind) {
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedKind, req.Parent.Name, req.Kind)
	}

	policy := s.policies[req.Kind]
	if err := policy.Check(req.Files); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req.Meta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	exists, err := s.store.ParentExists(ctx, req.Parent, req.ParentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s %d", ErrParentNotFound, req.Parent.Name, req.ParentID)
	}

	var undo compensator
	assets := make([]media.MediaAsset, 0, len(req.Files))

	for _, f := range req.Files {
		asset, err := s.saveFile(ctx, policy, f)
		if err != nil {
			undo.run(ctx)
			return nil, err
		}

		name := asset.FilePath
		undo.push(func(ctx context.Context) error {
			return s.blobs.Delete(ctx, name)
		})

		asset.ParentType = req.Parent.Name
		asset.ParentID = req.ParentID
		asset.Kind = req.Kind
		asset.Title = req.Meta.Title
		asset.AltText = req.Meta.AltText
		asset.SortOrder = req.Meta.SortOrder
		asset.IsActive = true
		assets = append(assets, asset)
	}

	created, err := s.store.CreateMediaAssets(ctx, assets)
	if err != nil {
		undo.run(ctx)
		return nil, fmt.Errorf("save media metadata: %w", err)
	}

	s.decorate(ctx, created)

	slog.Info("media uploaded",
		slog.String("parent_type", req.Parent.Name),
		slog.Int64("parent_id", req.ParentID),
		slog.String("kind", string(req.Kind)),
		slog.Int("count", len(created)))

	s.publisher.PublishMediaEvent(types.EventMediaUploaded, mediaEvent(req.Parent.Name, req.ParentID, req.Kind, created...))

	return created, nil
}

// saveFile writes one part to the blob store under a fresh name.
func (s *Service) saveFile(ctx context.Context, policy Policy, f File) (media.MediaAsset, error) {
	src, err := f.Open()
	if err != nil {
		return media.MediaAsset{}, fmt.Errorf("open upload %s: %w", f.Name, err)
	}
	defer src.Close()

	br := bufio.NewReaderSize(src, sniffLen)
	head, _ := br.Peek(sniffLen)

	// The sniffed type is recorded only when it is one the policy accepts;
	// otherwise the declared type that passed Check is kept.
	contentType := normalizeType(f.ContentType)
	detected := mimetype.Detect(head)
	for _, t := range policy.AllowedTypes {
		if detected.Is(t) {
			contentType = t
			break
		}
	}

	name := s.generateName(policy.Field, f.Name)
	n, err := s.blobs.Save(ctx, name, br, f.Size)
	if err != nil {
		return media.MediaAsset{}, fmt.Errorf("store %s: %w", f.Name, err)
	}

	return media.MediaAsset{
		FilePath:         name,
		OriginalFilename: filepath.Base(f.Name),
		ContentType:      contentType,
		Size:             n,
	}, nil
}

// generateName builds "<field>-<unix millis>-<random><ext>".
func (s *Service) generateName(field, original string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%d-%s%s", field, s.now().UnixMilli(), suffix, ext)
}

// List returns the active assets of one collection, ordered for display.
func (s *Service) List(ctx context.Context, parent media.ParentType, parentID int64, kind media.Kind) ([]media.MediaAsset, error) {
	assets, err := s.store.ListMediaAssets(ctx, parent.Name, parentID, kind)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []media.MediaAsset{}
	}
	s.decorate(ctx, assets)
	return assets, nil
}

func (s *Service) Get(ctx context.Context, parent media.ParentType, parentID int64, kind media.Kind, id int64) (media.MediaAsset, error) {
	asset, err := s.store.GetMediaAsset(ctx, parent.Name, parentID, kind, id)
	if err != nil {
		return asset, err
	}
	one := []media.MediaAsset{asset}
	s.decorate(ctx, one)
	return one[0], nil
}

// Delete removes the row, then the file. A file that is already gone is not an error.
func (s *Service) Delete(ctx context.Context, parent media.ParentType, parentID int64, kind media.Kind, id int64) error {
	asset, err := s.store.GetMediaAsset(ctx, parent.Name, parentID, kind, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteMediaAsset(ctx, parent.Name, parentID, kind, id); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, asset.FilePath); err != nil {
		slog.Warn("failed to delete media file",
			slog.String("file", asset.FilePath),
			slog.String("error", err.Error()))
	}

	s.publisher.PublishMediaEvent(types.EventMediaDeleted, mediaEvent(parent.Name, parentID, kind, asset))

	return nil
}

// Update changes an asset's display metadata and returns the updated row.
func (s *Service) Update(ctx context.Context, parent media.ParentType, parentID int64, kind media.Kind, id int64, upd media.AssetUpdate) (media.MediaAsset, error) {
	if upd.Empty() {
		return media.MediaAsset{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := s.validate.Struct(upd); err != nil {
		return media.MediaAsset{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	if err := s.store.UpdateMediaAsset(ctx, parent.Name, parentID, kind, id, upd); err != nil {
		return media.MediaAsset{}, err
	}

	asset, err := s.Get(ctx, parent, parentID, kind, id)
	if err != nil {
		return asset, err
	}

	s.publisher.PublishMediaEvent(types.EventMediaUpdated, mediaEvent(parent.Name, parentID, kind, asset))

	return asset, nil
}

// Summary aggregates both collections of a parent.
func (s *Service) Summary(ctx context.Context, parent media.ParentType, parentID int64) (media.Summary, error) {
	exists, err := s.store.ParentExists(ctx, parent, parentID)
	if err != nil {
		return media.Summary{}, err
	}
	if !exists {
		return media.Summary{}, fmt.Errorf("%w: %s %d", ErrParentNotFound, parent.Name, parentID)
	}
	return s.store.MediaSummary(ctx, parent.Name, parentID)
}

// decorate fills the public URL of each asset.
func (s *Service) decorate(ctx context.Context, assets []media.MediaAsset) {
	for i := range assets {
		u, err := s.blobs.URL(ctx, assets[i].FilePath)
		if err != nil {
			slog.Warn("failed to build media URL",
				slog.String("file", assets[i].FilePath),
				slog.String("error", err.Error()))
			continue
		}
		assets[i].URL = u
	}
}

func mediaEvent(parentType string, parentID int64, kind media.Kind, assets ...media.MediaAsset) types.MediaEvent {
	ids := make([]int64, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}
	return types.MediaEvent{
		ParentType: parentType,
		ParentID:   parentID,
		Kind:       string(kind),
		AssetIDs:   ids,
	}
}
