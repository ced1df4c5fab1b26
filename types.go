package mediavault

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Record is the metadata sidecar kept for every stored object.
// Name is the primary key and, together with Extension, addresses the
// payload blob. Name, Owner and CreatedAt are immutable after creation.
type Record struct {
	Name        string    `json:"name"`
	Extension   string    `json:"extension"`
	Owner       string    `json:"owner"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// BlobKey returns the storage key of the payload paired with this record.
func (r Record) BlobKey() string {
	return r.Name + "." + r.Extension
}

// Kind returns the content kind matching the record's extension.
func (r Record) Kind() ContentKind {
	if r.Extension == ExtVideo {
		return KindVideo
	}
	return KindImage
}

// ContentKind identifies the media type of a payload. Exactly two kinds
// are accepted; anything else is rejected at create time.
type ContentKind string

const (
	KindImage ContentKind = "image/jpeg"
	KindVideo ContentKind = "video/mp4"

	ExtImage = "jpg"
	ExtVideo = "mp4"
)

func (k ContentKind) IsValid() bool {
	switch k {
	case KindImage, KindVideo:
		return true
	default:
		return false
	}
}

// Extension returns the file extension mapped to the kind.
func (k ContentKind) Extension() string {
	if k == KindVideo {
		return ExtVideo
	}
	return ExtImage
}

// ParseContentKind parses a MIME type string into a ContentKind,
// ignoring any parameters such as charset.
func ParseContentKind(s string) (ContentKind, error) {
	base := strings.TrimSpace(strings.Split(s, ";")[0])
	kind := ContentKind(strings.ToLower(base))
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: unsupported content kind %q (allowed: %s, %s)", ErrInvalidInput, s, KindImage, KindVideo)
	}
	return kind, nil
}

// SortOrder controls the direction of query results.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder parses a sort order string. An empty string defaults
// to Ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: invalid sort order %q", ErrInvalidInput, s)
	}
}

// CreateInput carries the fields of a create operation.
type CreateInput struct {
	Name        string
	Owner       string
	Description string
	Kind        ContentKind
	Payload     io.Reader
}

// UpdateInput carries the fields of an update operation. Payload is
// optional; when set, Kind must identify the new payload's content kind.
// A blank Description is treated as not supplied.
type UpdateInput struct {
	Name        string
	Owner       string
	Description string
	Kind        ContentKind
	Payload     io.Reader
}

// DateQuery filters the index by a single owner and a creation date range.
// Both bounds are required and strictly exclusive.
type DateQuery struct {
	Owner string
	Start time.Time
	End   time.Time
	Sort  SortOrder
}

// OwnerQuery filters the index by a set of owners and a creation date range.
type OwnerQuery struct {
	Owners []string
	Start  time.Time
	End    time.Time
	Sort   SortOrder
}

// QueryItem is the projection returned by the filter queries.
type QueryItem struct {
	Name       string    `json:"name"`
	Owner      string    `json:"owner"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// SaveResult reports the outcome of a blob write.
type SaveResult struct {
	BytesWritten int64
	Etag         string
}

// BlobEntry describes a payload found in blob storage.
type BlobEntry struct {
	Key  string
	Size int64
	ETag string
}
