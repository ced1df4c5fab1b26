package mediavault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// MetaRepo defines the interface for metadata record persistence.
// Records are keyed by object name; implementations must return the
// package sentinel errors for the conditions noted on each method.
type MetaRepo interface {
	// Get retrieves the record for name. Returns ErrNotFound if no
	// record exists.
	Get(ctx context.Context, name string) (Record, error)

	// Create persists a new record. Returns ErrConflict if a record
	// with the same name already exists.
	Create(ctx context.Context, rec Record) error

	// Update replaces the stored record for rec.Name. Returns
	// ErrNotFound if no record exists.
	Update(ctx context.Context, rec Record) error

	// Delete removes the record for name. Returns ErrNotFound if no
	// record exists.
	Delete(ctx context.Context, name string) error

	// List returns every record in the index. The query engine filters
	// and sorts on top of this full scan; no secondary index exists.
	List(ctx context.Context) ([]Record, error)
}

// BlobStorage defines the interface for payload persistence.
//
// Write must be atomic (temp file and rename, or equivalent) so a
// concurrent reader never observes a half-written payload.
type BlobStorage interface {
	// Get opens the payload stored under key for reading. Returns
	// ErrNotFound if no payload exists. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadSeekCloser, error)

	// Write stores content under key, overwriting any existing payload.
	Write(ctx context.Context, key string, content io.Reader) (SaveResult, error)

	// Delete removes the payload under key. Returns ErrNotFound if no
	// payload exists.
	Delete(ctx context.Context, key string) error

	// List returns every payload currently in storage. Used by orphan
	// cleanup; can be expensive on large volumes.
	List(ctx context.Context) ([]BlobEntry, error)
}

// Service implements the paired-record store: every object is a payload
// blob plus a metadata record sharing one key, kept consistent under
// create/update/delete. Mutations are serialized per key and authorized
// by exact owner string equality.
type Service struct {
	repo           MetaRepo
	blobs          BlobStorage
	locks          *keyLock
	now            func() time.Time
	cleanupTimeout time.Duration
}

// ServiceConfig holds configuration options for Service.
type ServiceConfig struct {
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
	// CleanupTimeout bounds the background cleanup of a blob written
	// before a failed metadata commit (default: 30s).
	CleanupTimeout time.Duration
}

func NewService(repo MetaRepo, blobs BlobStorage, cfg ServiceConfig) (*Service, error) {
	if repo == nil {
		return nil, errors.New("new service: repo cannot be nil")
	}
	if blobs == nil {
		return nil, errors.New("new service: blob storage cannot be nil")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	cleanupTimeout := cfg.CleanupTimeout
	if cleanupTimeout <= 0 {
		cleanupTimeout = 30 * time.Second
	}

	return &Service{
		repo:           repo,
		blobs:          blobs,
		locks:          newKeyLock(),
		now:            now,
		cleanupTimeout: cleanupTimeout,
	}, nil
}

// Create stores a new paired entry: payload first, then metadata.
// If the metadata commit fails the blob is removed again so no orphan
// record can be queried into existence.
//
// Error types returned:
//   - ErrInvalidInput: blank name or owner, missing payload, disallowed
//     content kind, or a name that is not filesystem-safe
//   - ErrConflict: a record with the same name already exists
func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, fmt.Errorf("create object: %w", err)
	}

	if strings.TrimSpace(in.Name) == "" {
		return Record{}, fmt.Errorf("create object: %w: name cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Owner) == "" {
		return Record{}, fmt.Errorf("create object: %w: owner cannot be empty", ErrInvalidInput)
	}
	if in.Payload == nil {
		return Record{}, fmt.Errorf("create object %s: %w: payload is required", in.Name, ErrInvalidInput)
	}
	if !in.Kind.IsValid() {
		return Record{}, fmt.Errorf("create object %s: %w: unsupported content kind %q", in.Name, ErrInvalidInput, string(in.Kind))
	}
	if !IsValidName(in.Name) {
		return Record{}, fmt.Errorf("create object %s: %w: invalid name", in.Name, ErrInvalidInput)
	}

	unlock := s.locks.acquire(in.Name)
	defer unlock()

	_, err := s.repo.Get(ctx, in.Name)
	if err == nil {
		return Record{}, fmt.Errorf("create object %s: %w", in.Name, ErrConflict)
	}
	if !errors.Is(err, ErrNotFound) {
		return Record{}, fmt.Errorf("create object %s: %w", in.Name, err)
	}

	now := s.timestamp()
	rec := Record{
		Name:        in.Name,
		Extension:   in.Kind.Extension(),
		Owner:       in.Owner,
		Description: in.Description,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	if _, err := s.blobs.Write(ctx, rec.BlobKey(), in.Payload); err != nil {
		return Record{}, fmt.Errorf("create object %s: write payload: %w", in.Name, err)
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.cleanupBlob(rec.BlobKey())
		return Record{}, fmt.Errorf("create object %s: write record: %w", in.Name, err)
	}

	return rec, nil
}

// Update mutates an existing paired entry in place. The description
// and payload may be replaced independently; the name, owner and
// creation timestamp never change. A blank description counts as not
// supplied, and an update carrying neither description nor payload is
// rejected rather than silently accepted.
//
// Existence is checked strictly before ownership, so a missing object
// always yields ErrNotFound even for a wrong owner.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, fmt.Errorf("update object: %w", err)
	}

	if strings.TrimSpace(in.Name) == "" {
		return Record{}, fmt.Errorf("update object: %w: name cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Owner) == "" {
		return Record{}, fmt.Errorf("update object: %w: owner cannot be empty", ErrInvalidInput)
	}

	desc := strings.TrimSpace(in.Description)
	if in.Payload == nil && desc == "" {
		return Record{}, fmt.Errorf("update object %s: %w: either description or payload must be provided", in.Name, ErrInvalidInput)
	}
	if in.Payload != nil && !in.Kind.IsValid() {
		return Record{}, fmt.Errorf("update object %s: %w: unsupported content kind %q", in.Name, ErrInvalidInput, string(in.Kind))
	}

	unlock := s.locks.acquire(in.Name)
	defer unlock()

	cur, err := s.repo.Get(ctx, in.Name)
	if err != nil {
		return Record{}, fmt.Errorf("update object %s: %w", in.Name, err)
	}

	if cur.Owner != in.Owner {
		return Record{}, fmt.Errorf("update object %s: %w", in.Name, ErrUnauthorized)
	}

	updated := cur
	if desc != "" {
		updated.Description = in.Description
	}
	if in.Payload != nil {
		updated.Extension = in.Kind.Extension()
	}
	updated.ModifiedAt = s.timestamp()

	oldKey := cur.BlobKey()
	newKey := updated.BlobKey()

	if in.Payload != nil {
		if _, err := s.blobs.Write(ctx, newKey, in.Payload); err != nil {
			return Record{}, fmt.Errorf("update object %s: write payload: %w", in.Name, err)
		}
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		if in.Payload != nil && newKey != oldKey {
			s.cleanupBlob(newKey)
		}
		return Record{}, fmt.Errorf("update object %s: write record: %w", in.Name, err)
	}

	// The record now points at the new blob; the old one is an orphan.
	if in.Payload != nil && newKey != oldKey {
		s.cleanupBlob(oldKey)
	}

	return updated, nil
}

// Delete removes both halves of a paired entry. The record goes first
// so a failure in between leaves an orphan blob, never an orphan record.
func (s *Service) Delete(ctx context.Context, name, owner string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("delete object: %w: name cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("delete object: %w: owner cannot be empty", ErrInvalidInput)
	}

	unlock := s.locks.acquire(name)
	defer unlock()

	rec, err := s.repo.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}

	if rec.Owner != owner {
		return fmt.Errorf("delete object %s: %w", name, ErrUnauthorized)
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}

	if err := s.blobs.Delete(ctx, rec.BlobKey()); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete object %s: remove payload: %w", name, err)
	}

	return nil
}

// Retrieve returns the record and an open reader over the payload
// bytes. Ownership is checked before the payload is touched; the
// caller closes the reader.
func (s *Service) Retrieve(ctx context.Context, name, owner string) (Record, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, nil, fmt.Errorf("retrieve object: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		return Record{}, nil, fmt.Errorf("retrieve object: %w: name cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(owner) == "" {
		return Record{}, nil, fmt.Errorf("retrieve object: %w: owner cannot be empty", ErrInvalidInput)
	}

	unlock := s.locks.acquire(name)
	defer unlock()

	rec, err := s.repo.Get(ctx, name)
	if err != nil {
		return Record{}, nil, fmt.Errorf("retrieve object %s: %w", name, err)
	}

	if rec.Owner != owner {
		return Record{}, nil, fmt.Errorf("retrieve object %s: %w", name, ErrUnauthorized)
	}

	content, err := s.blobs.Get(ctx, rec.BlobKey())
	if err != nil {
		return Record{}, nil, fmt.Errorf("retrieve object %s: open payload: %w", name, err)
	}

	return rec, content, nil
}

// Scrub removes payload blobs that have no metadata record. Orphan
// blobs are the accepted residue of a crash between the payload write
// and the metadata commit; this reclaims them. Returns the keys of the
// removed blobs.
func (s *Service) Scrub(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scrub: %w", err)
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrub: list records: %w", err)
	}

	known := make(map[string]struct{}, len(records))
	for _, rec := range records {
		known[rec.BlobKey()] = struct{}{}
	}

	blobs, err := s.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrub: list blobs: %w", err)
	}

	var removed []string
	for _, b := range blobs {
		if _, ok := known[b.Key]; ok {
			continue
		}

		// Lock the object name so an in-flight create of the same key
		// cannot lose its freshly written payload.
		name := nameForBlobKey(b.Key)
		unlock := s.locks.acquire(name)

		_, getErr := s.repo.Get(ctx, name)
		if getErr == nil {
			unlock()
			continue
		}

		err := s.blobs.Delete(ctx, b.Key)
		unlock()

		if err != nil && !errors.Is(err, ErrNotFound) {
			return removed, fmt.Errorf("scrub %s: %w", b.Key, err)
		}
		removed = append(removed, b.Key)
	}

	return removed, nil
}

// nameForBlobKey strips the extension suffix from a blob storage key.
func nameForBlobKey(key string) string {
	for _, ext := range []string{"." + ExtImage, "." + ExtVideo} {
		if strings.HasSuffix(key, ext) {
			return strings.TrimSuffix(key, ext)
		}
	}
	return key
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// cleanupBlob removes a blob using a background context since the
// request context may already be cancelled.
func (s *Service) cleanupBlob(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
	defer cancel()

	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Warn("failed to clean up blob", "key", key, "err", err)
	}
}
