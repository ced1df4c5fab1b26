// Package filesystem provides the filesystem payload backend.
// Payloads live as flat files in a sandboxed root directory; writes are
// atomic using temp files, and each write computes a SHA256-based etag.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mediavault/mediavault"
)

// Store provides payload storage on the local filesystem.
type Store struct {
	root *os.Root
}

// NewBlobStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewBlobStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Get opens a payload for reading. Returns mediavault.ErrNotFound if no
// payload exists under key.
func (s *Store) Get(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, mediavault.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}

	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically writes content to key using a temp file and rename,
// overwriting any existing payload. Returns the number of bytes written
// and a SHA256-based etag. The operation respects context cancellation.
func (s *Store) Write(ctx context.Context, key string, content io.Reader) (mediavault.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return mediavault.SaveResult{}, ctxErr
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return mediavault.SaveResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(t.Name()); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	bytesWritten, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return mediavault.SaveResult{}, fmt.Errorf("could not copy payload contents: %w", err)
	}

	err = t.Sync()
	if err != nil {
		return mediavault.SaveResult{}, fmt.Errorf("could not sync written payload: %w", err)
	}

	if renameErr := s.root.Rename(tmpFile, key); renameErr != nil {
		return mediavault.SaveResult{}, fmt.Errorf("failed to rename payload: %w", renameErr)
	}

	etag := hex.EncodeToString(h.Sum(nil))
	success = true

	return mediavault.SaveResult{BytesWritten: bytesWritten, Etag: etag}, nil
}

// Delete removes a payload. Returns mediavault.ErrNotFound if no
// payload exists under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return mediavault.ErrNotFound
		}
		return fmt.Errorf("could not delete payload: %w", err)
	}
	return nil
}

// List returns all payloads in the root directory with their size and
// SHA256-based etag. Temp files left over from interrupted writes are
// skipped. Intended for orphan cleanup, not for the hot path.
func (s *Store) List(ctx context.Context) ([]mediavault.BlobEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list payloads: %w", err)
	}

	entries := []mediavault.BlobEntry{}
	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("list payloads: %w", err)
		}

		etag, err := s.hashFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("list payloads: %w", err)
		}

		entries = append(entries, mediavault.BlobEntry{
			Key:  entry.Name(),
			Size: info.Size(),
			ETag: etag,
		})
	}

	return entries, nil
}

func (s *Store) hashFile(key string) (string, error) {
	f, err := s.root.Open(key)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	_, copyErr := io.Copy(h, f)

	if closeErr := f.Close(); closeErr != nil {
		slog.Warn("failed to close payload", "key", key, "err", closeErr)
	}

	if copyErr != nil {
		return "", copyErr
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
