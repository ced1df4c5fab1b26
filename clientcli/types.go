package clientcli

import "time"

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath   string
	Name        string // optional, derived from the local file name if empty
	Owner       string
	Description string
	ContentType string // optional, auto-detect if empty
}

// UploadResult represents the stored record after an upload or update.
type UploadResult struct {
	LocalPath   string    `json:"local_path,omitempty"`
	Name        string    `json:"name"`
	Extension   string    `json:"extension"`
	Owner       string    `json:"owner"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// UpdateOptions configures an update operation. LocalPath and Description
// are both optional, but at least one must be set.
type UpdateOptions struct {
	Name        string
	Owner       string
	Description string
	LocalPath   string
	ContentType string
}

// FetchOptions configures a fetch operation.
type FetchOptions struct {
	Name      string
	Owner     string
	LocalPath string // empty = derive from server file name, "-" = stdout
}

// FetchResult represents the result of fetching an object's payload.
type FetchResult struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	LocalPath   string `json:"local_path"`
	Size        int64  `json:"size_bytes"`
}

// RemoveOptions configures a remove operation.
type RemoveOptions struct {
	Names []string
	Owner string
}

// RemoveResult represents the result of removing a single object.
type RemoveResult struct {
	Name    string `json:"name"`
	Removed bool   `json:"removed"`
	Err     error  `json:"-"` // nil on success
}

// DateQueryOptions configures a creation-window query for one owner.
type DateQueryOptions struct {
	Owner string
	Start string
	End   string
	Sort  string
}

// OwnerQueryOptions configures a creation-window query over an owner set.
type OwnerQueryOptions struct {
	Owners []string
	Start  string
	End    string
	Sort   string
}

// QueryItem is a single row of a query result.
type QueryItem struct {
	Name       string    `json:"name"`
	Owner      string    `json:"owner"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
