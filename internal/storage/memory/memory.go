package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

type parentKey struct {
	name string
	id   int64
}

type user struct {
	id, email, password string
}

// Memory keeps everything in process memory.
type Memory struct {
	mu      sync.RWMutex
	parents map[parentKey]bool
	assets  []media.MediaAsset
	users   []user
	nextID  int64
	now     func() time.Time
}

var _ storage.Storage = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		parents: make(map[parentKey]bool),
		now:     time.Now,
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Ping(context.Context) error { return nil }

// AddParent registers a parent row so uploads to it are accepted.
func (m *Memory) AddParent(parent media.ParentType, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parents[parentKey{parent.Name, id}] = true
}

func (m *Memory) ParentExists(_ context.Context, parent media.ParentType, parentID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parents[parentKey{parent.Name, parentID}], nil
}

func (m *Memory) CreateMediaAssets(_ context.Context, assets []media.MediaAsset) ([]media.MediaAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := make([]media.MediaAsset, len(assets))
	now := m.now().UTC()
	for i, a := range assets {
		m.nextID++
		a.ID = m.nextID
		a.CreatedAt = now
		a.URL = ""
		created[i] = a
	}
	m.assets = append(m.assets, created...)
	return created, nil
}

func (m *Memory) ListMediaAssets(_ context.Context, parentType string, parentID int64, kind media.Kind) ([]media.MediaAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []media.MediaAsset{}
	for _, a := range m.assets {
		if a.ParentType == parentType && a.ParentID == parentID && a.Kind == kind && a.IsActive {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) index(parentType string, parentID int64, kind media.Kind, id int64) int {
	for i, a := range m.assets {
		if a.ID == id && a.ParentType == parentType && a.ParentID == parentID && a.Kind == kind {
			return i
		}
	}
	return -1
}

func (m *Memory) GetMediaAsset(_ context.Context, parentType string, parentID int64, kind media.Kind, id int64) (media.MediaAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.index(parentType, parentID, kind, id)
	if i < 0 {
		return media.MediaAsset{}, storage.ErrNotFound
	}
	return m.assets[i], nil
}

func (m *Memory) DeleteMediaAsset(_ context.Context, parentType string, parentID int64, kind media.Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(parentType, parentID, kind, id)
	if i < 0 {
		return storage.ErrNotFound
	}
	m.assets = append(m.assets[:i], m.assets[i+1:]...)
	return nil
}

func (m *Memory) UpdateMediaAsset(_ context.Context, parentType string, parentID int64, kind media.Kind, id int64, upd media.AssetUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(parentType, parentID, kind, id)
	if i < 0 {
		return storage.ErrNotFound
	}
	a := &m.assets[i]
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.AltText != nil {
		a.AltText = *upd.AltText
	}
	if upd.SortOrder != nil {
		a.SortOrder = *upd.SortOrder
	}
	if upd.IsActive != nil {
		a.IsActive = *upd.IsActive
	}
	return nil
}

func (m *Memory) MediaSummary(_ context.Context, parentType string, parentID int64) (media.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := media.Summary{ParentType: parentType, ParentID: parentID}
	for _, a := range m.assets {
		if a.ParentType != parentType || a.ParentID != parentID || !a.IsActive {
			continue
		}
		k := &s.Images
		if a.Kind == media.KindVideo {
			k = &s.Videos
		}
		k.Count++
		k.TotalBytes += a.Size
	}
	return s, nil
}

func (m *Memory) MediaFileReferenced(_ context.Context, filePath string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.assets {
		if a.FilePath == filePath {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) CreateUser(_ context.Context, email, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.email == email {
			return "", storage.ErrDuplicate
		}
	}
	id := strconv.Itoa(len(m.users) + 1)
	m.users = append(m.users, user{id: id, email: email, password: password})
	return id, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.email == email {
			return u.id, u.password, nil
		}
	}
	return "", "", storage.ErrNotFound
}
