// Package sidecar implements the metadata index as one JSON sidecar
// file per object, written through the canonical record codec. This is
// the default backend; the index is exactly the set of sidecar files
// and queries scan the whole directory.
package sidecar

import (
	"context"
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

const sidecarExt = ".json"

// Repo stores metadata records as sidecar files in a sandboxed root
// directory. Writes are atomic (temp file and rename); callers are
// expected to serialize mutations per object name, which the service
// layer does with its per-key lock.
type Repo struct {
	root *os.Root
}

// NewRepo creates a sidecar repo rooted at the given directory.
func NewRepo(root *os.Root) *Repo {
	return &Repo{root: root}
}

// Get reads and decodes the sidecar for name.
// Returns mediavault.ErrNotFound if no sidecar exists.
func (r *Repo) Get(ctx context.Context, name string) (mediavault.Record, error) {
	if err := ctx.Err(); err != nil {
		return mediavault.Record{}, err
	}

	return r.read(name + sidecarExt)
}

// Create writes a new sidecar. Returns mediavault.ErrConflict if one
// already exists for rec.Name.
func (r *Repo) Create(ctx context.Context, rec mediavault.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := r.root.Stat(rec.Name + sidecarExt); err == nil {
		return fmt.Errorf("create record %s: %w", rec.Name, mediavault.ErrConflict)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("create record %s: %w", rec.Name, err)
	}

	return r.write(rec)
}

// Update replaces an existing sidecar.
// Returns mediavault.ErrNotFound if none exists for rec.Name.
func (r *Repo) Update(ctx context.Context, rec mediavault.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := r.root.Stat(rec.Name + sidecarExt); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("update record %s: %w", rec.Name, mediavault.ErrNotFound)
		}
		return fmt.Errorf("update record %s: %w", rec.Name, err)
	}

	return r.write(rec)
}

// Delete removes the sidecar for name.
// Returns mediavault.ErrNotFound if none exists.
func (r *Repo) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.root.Remove(name + sidecarExt); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete record %s: %w", name, mediavault.ErrNotFound)
		}
		return fmt.Errorf("delete record %s: %w", name, err)
	}

	return nil
}

// List decodes every sidecar in the root directory. Because writes are
// atomic renames, a concurrent scan sees each record either in its old
// or its new state, never half-written.
func (r *Repo) List(ctx context.Context) ([]mediavault.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := fs.ReadDir(r.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := []mediavault.Record{}
	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileName := entry.Name()
		if entry.IsDir() || strings.HasPrefix(fileName, ".") || !strings.HasSuffix(fileName, sidecarExt) {
			continue
		}

		rec, err := r.read(fileName)
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}

		records = append(records, rec)
	}

	return records, nil
}

func (r *Repo) read(fileName string) (mediavault.Record, error) {
	f, err := r.root.Open(fileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return mediavault.Record{}, mediavault.ErrNotFound
		}
		return mediavault.Record{}, fmt.Errorf("open sidecar %s: %w", fileName, err)
	}

	data, readErr := io.ReadAll(f)

	if closeErr := f.Close(); closeErr != nil {
		slog.Warn("failed to close sidecar", "file", fileName, "err", closeErr)
	}

	if readErr != nil {
		return mediavault.Record{}, fmt.Errorf("read sidecar %s: %w", fileName, readErr)
	}

	rec, err := mediavault.DecodeRecord(data)
	if err != nil {
		return mediavault.Record{}, fmt.Errorf("sidecar %s: %w", fileName, err)
	}

	return rec, nil
}

// write encodes rec and atomically replaces its sidecar file.
func (r *Repo) write(rec mediavault.Record) error {
	data, err := mediavault.EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("write record %s: %w", rec.Name, err)
	}

	tmpFile := fmt.Sprintf(".t%s", uuid.New().String())
	t, err := r.root.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("write record %s: create temp file: %w", rec.Name, err)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp sidecar", "err", closeErr)
		}
		if !success {
			if rmErr := r.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp sidecar", "err", rmErr)
			}
		}
	}()

	if _, err := t.Write(data); err != nil {
		return fmt.Errorf("write record %s: %w", rec.Name, err)
	}

	if err := t.Sync(); err != nil {
		return fmt.Errorf("write record %s: sync: %w", rec.Name, err)
	}

	if err := r.root.Rename(tmpFile, rec.Name+sidecarExt); err != nil {
		return fmt.Errorf("write record %s: rename: %w", rec.Name, err)
	}

	success = true
	return nil
}
