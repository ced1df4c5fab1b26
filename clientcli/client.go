package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a mediavault server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	// Normalize endpoint URL (remove trailing slash)
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config: &Config{
			Endpoint: endpoint,
			Owner:    cfg.Owner,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// resolveOwner returns the explicit owner, falling back to the configured
// default owner.
func (c *Client) resolveOwner(owner string) (string, error) {
	if owner != "" {
		return owner, nil
	}
	if c.config.Owner != "" {
		return c.config.Owner, nil
	}
	return "", ErrOwnerRequired
}

// Upload stores a local file as a new object on the server.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	owner, err := c.resolveOwner(opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	name := opts.Name
	if name == "" {
		base := filepath.Base(opts.LocalPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	fields := map[string]string{
		"name":        name,
		"owner":       owner,
		"description": opts.Description,
	}

	body, contentType, err := multipartBody(fields, opts.LocalPath, opts.ContentType)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+"/api/objects", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var result UploadResult
	if err := c.doJSON(req, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	result.LocalPath = opts.LocalPath
	return &result, nil
}

// Update replaces the payload and/or description of an existing object.
func (c *Client) Update(ctx context.Context, opts UpdateOptions) (*UploadResult, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("update: %w", ErrEmptyName)
	}
	owner, err := c.resolveOwner(opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	fields := map[string]string{
		"owner":       owner,
		"description": opts.Description,
	}

	body, contentType, err := multipartBody(fields, opts.LocalPath, opts.ContentType)
	if err != nil {
		return nil, err
	}

	target := c.config.Endpoint + "/api/objects/" + url.PathEscape(opts.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var result UploadResult
	if err := c.doJSON(req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	result.LocalPath = opts.LocalPath
	return &result, nil
}

// Remove deletes one or more objects from the server.
// Continues on error, collecting results for all names.
func (c *Client) Remove(ctx context.Context, opts RemoveOptions) ([]RemoveResult, error) {
	if len(opts.Names) == 0 {
		return nil, ErrNoNames
	}
	owner, err := c.resolveOwner(opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("remove: %w", err)
	}

	results := make([]RemoveResult, 0, len(opts.Names))

	for _, name := range opts.Names {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		results = append(results, c.removeSingle(ctx, name, owner))
	}

	return results, nil
}

func (c *Client) removeSingle(ctx context.Context, name, owner string) RemoveResult {
	target := c.config.Endpoint + "/api/objects/" + url.PathEscape(name) + "?owner=" + url.QueryEscape(owner)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, http.NoBody)
	if err != nil {
		return RemoveResult{Name: name, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RemoveResult{Name: name, Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return RemoveResult{Name: name, Removed: true}
	}

	body, _ := io.ReadAll(resp.Body)
	return RemoveResult{Name: name, Err: parseServerError(resp.StatusCode, body)}
}

// HasRemoveErrors returns true if any remove operation failed.
func HasRemoveErrors(results []RemoveResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Fetch downloads an object's payload from the server.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, io.ReadCloser, error) {
	if opts.Name == "" {
		return nil, nil, fmt.Errorf("fetch: %w", ErrEmptyName)
	}
	owner, err := c.resolveOwner(opts.Owner)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch: %w", err)
	}

	target := c.config.Endpoint + "/api/objects/" + url.PathEscape(opts.Name) + "?owner=" + url.QueryEscape(owner)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &FetchResult{
		Name:        opts.Name,
		Owner:       resp.Header.Get("File-Owner"),
		FileName:    resp.Header.Get("File-Name"),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	// If stdout requested, return the body for the caller to handle
	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = result.FileName
	}
	if localPath == "" {
		localPath = opts.Name
	}
	result.LocalPath = localPath

	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// QueryByDate lists one owner's objects created inside a window.
func (c *Client) QueryByDate(ctx context.Context, opts DateQueryOptions) ([]QueryItem, error) {
	owner, err := c.resolveOwner(opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	query := url.Values{}
	query.Set("owner", owner)
	query.Set("start", opts.Start)
	query.Set("end", opts.End)
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	return c.query(ctx, "/api/query/by-date", query)
}

// QueryByOwners lists objects of a set of owners created inside a window.
func (c *Client) QueryByOwners(ctx context.Context, opts OwnerQueryOptions) ([]QueryItem, error) {
	if len(opts.Owners) == 0 {
		return nil, fmt.Errorf("query: %w", ErrOwnerRequired)
	}

	query := url.Values{}
	for _, owner := range opts.Owners {
		query.Add("owner", owner)
	}
	query.Set("start", opts.Start)
	query.Set("end", opts.End)
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	return c.query(ctx, "/api/query/by-owners", query)
}

func (c *Client) query(ctx context.Context, path string, query url.Values) ([]QueryItem, error) {
	target := c.config.Endpoint + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var items []QueryItem
	if err := c.doJSON(req, http.StatusOK, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// doJSON executes the request and decodes a JSON body into out when the
// status matches wantStatus.
func (c *Client) doJSON(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return parseServerError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// multipartBody builds a multipart form with the given fields plus, when
// localPath is non-empty, the file as the "file" part. Returns the body
// and its Content-Type header value.
func multipartBody(fields map[string]string, localPath, contentType string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write form field: %w", err)
		}
	}

	if localPath != "" {
		if err := writeFilePart(mw, localPath, contentType); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

func writeFilePart(mw *multipart.Writer, localPath, contentType string) error {
	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if contentType == "" {
		contentType = detectContentType(localPath)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(localPath)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create form part: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return nil
}

// detectContentType returns MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	return mimeType
}

// parseServerError extracts an error message from a server response body.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var wire struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Message != "" {
		apiErr.Code = wire.Error
		apiErr.Message = wire.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := "server error: " + strconv.Itoa(e.StatusCode)
	if e.Message != "" {
		msg += " - " + e.Message
	}
	return msg
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested object does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the caller does not own the object (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrConflict is returned when an object with the same name already exists (409).
	ErrConflict = &APIError{StatusCode: http.StatusConflict}
)
