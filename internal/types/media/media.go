package media

import (
	"fmt"
	"time"
)

// Kind is the class of file a media collection holds.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ParentType describes an entity that owns media collections.
type ParentType struct {
	Name  string // value stored in media_assets.parent_type
	Route string // URL segment, e.g. "sanctuaries"
	Table string // table holding the parent rows
	Kinds []Kind
}

// Supports reports whether the parent type accepts media of kind k.
func (p ParentType) Supports(k Kind) bool {
	for _, kind := range p.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

var (
	Sanctuary     = ParentType{Name: "sanctuary", Route: "sanctuaries", Table: "wildlife_sanctuaries", Kinds: []Kind{KindImage, KindVideo}}
	District      = ParentType{Name: "district", Route: "districts", Table: "districts", Kinds: []Kind{KindImage}}
	Subdistrict   = ParentType{Name: "subdistrict", Route: "subdistricts", Table: "subdistricts", Kinds: []Kind{KindImage}}
	Territory     = ParentType{Name: "territory", Route: "territories", Table: "territories", Kinds: []Kind{KindImage}}
	SeasonalGuide = ParentType{Name: "seasonal_guide", Route: "seasonal-guides", Table: "seasonal_guides", Kinds: []Kind{KindImage}}
)

// ParentTypes lists every entity that can own media.
var ParentTypes = []ParentType{Sanctuary, District, Subdistrict, Territory, SeasonalGuide}

// LookupParentType finds a registered parent type by its name.
func LookupParentType(name string) (ParentType, bool) {
	for _, p := range ParentTypes {
		if p.Name == name {
			return p, true
		}
	}
	return ParentType{}, false
}

// Room identifies the realtime channel for one parent's media.
func Room(parent string, parentID int64) string {
	return fmt.Sprintf("%s:%d", parent, parentID)
}

// MediaAsset is the metadata row of one uploaded file.
type MediaAsset struct {
	ID               int64     `json:"id" db:"id"`
	ParentType       string    `json:"parentType" db:"parent_type"`
	ParentID         int64     `json:"parentId" db:"parent_id"`
	Kind             Kind      `json:"kind" db:"kind"`
	FilePath         string    `json:"filePath" db:"file_path"`
	OriginalFilename string    `json:"originalName" db:"original_filename"`
	ContentType      string    `json:"contentType" db:"content_type"`
	Size             int64     `json:"size" db:"size"`
	Title            string    `json:"title" db:"title"`
	AltText          string    `json:"altText" db:"alt_text"`
	SortOrder        int       `json:"sortOrder" db:"sort_order"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	URL              string    `json:"url,omitempty" db:"-"`
}

// AssetUpdate carries a partial metadata change; nil fields are left untouched.
type AssetUpdate struct {
	Title     *string `json:"title" validate:"omitempty,max=255"`
	AltText   *string `json:"altText" validate:"omitempty,max=255"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,min=0"`
	IsActive  *bool   `json:"isActive"`
}

// Empty reports whether the update changes nothing.
func (u AssetUpdate) Empty() bool {
	return u.Title == nil && u.AltText == nil && u.SortOrder == nil && u.IsActive == nil
}

// UploadMetadata is the optional form metadata sent along with files.
type UploadMetadata struct {
	Title     string `validate:"max=255"`
	AltText   string `validate:"max=255"`
	SortOrder int    `validate:"min=0"`
}

// KindSummary aggregates the active assets of one kind.
type KindSummary struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"totalBytes"`
}

// Summary aggregates a parent's media collections.
type Summary struct {
	ParentType string      `json:"parentType"`
	ParentID   int64       `json:"parentId"`
	Images     KindSummary `json:"images"`
	Videos     KindSummary `json:"videos"`
}

// UploadedFile is the per-file entry of an upload response.
type UploadedFile struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	URL          string `json:"url,omitempty"`
}

// GalleryUploadResponse is returned after a multi-file upload.
type GalleryUploadResponse struct {
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	UploadedCount int            `json:"uploadedCount"`
	Files         []UploadedFile `json:"files"`
}

// VideoUploadResponse is returned after a single-file upload.
type VideoUploadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UploadedFile
}

// ListResponse wraps a parent's media listing.
type ListResponse struct {
	Status string       `json:"status"`
	Data   []MediaAsset `json:"data"`
	Count  int          `json:"count"`
}
