package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mediavault/mediavault"
	"github.com/mediavault/mediavault/metadata/sqlite"
)

const testTable = "mediavault_records"

func newRepo(t *testing.T) mediavault.MetaRepo {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open database")
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, sqlite.Migrate(ctx, db, testTable), "migrate")
	require.NoError(t, sqlite.ValidateSchema(ctx, db, testTable), "validate schema")

	repo, err := sqlite.NewRepo(db, testTable)
	require.NoError(t, err, "new repo")
	return repo
}

func sampleRecord(name string) mediavault.Record {
	return mediavault.Record{
		Name:        name,
		Extension:   "jpg",
		Owner:       "alice",
		Description: "golden hour",
		CreatedAt:   time.Date(2026, 1, 15, 10, 30, 45, 0, time.UTC),
		ModifiedAt:  time.Date(2026, 1, 15, 10, 30, 45, 0, time.UTC),
	}
}

func TestNewRepo_InvalidTableName(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = sqlite.NewRepo(db, "bad name; drop")
	assert.Error(t, err)
}

func TestRepo_CreateAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	rec := sampleRecord("sunset")
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.Get(ctx, "sunset")
	assert.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRepo_CreateConflict(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleRecord("sunset")))

	err := repo.Create(ctx, sampleRecord("sunset"))
	assert.ErrorIs(t, err, mediavault.ErrConflict)
}

func TestRepo_GetMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, mediavault.ErrNotFound)
}

func TestRepo_Update(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	rec := sampleRecord("sunset")
	require.NoError(t, repo.Create(ctx, rec))

	rec.Extension = "mp4"
	rec.Description = "now a video"
	rec.ModifiedAt = rec.ModifiedAt.Add(time.Hour)
	assert.NoError(t, repo.Update(ctx, rec))

	got, err := repo.Get(ctx, "sunset")
	assert.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRepo_UpdateMissing(t *testing.T) {
	repo := newRepo(t)

	err := repo.Update(context.Background(), sampleRecord("ghost"))
	assert.ErrorIs(t, err, mediavault.ErrNotFound)
}

func TestRepo_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleRecord("sunset")))
	assert.NoError(t, repo.Delete(ctx, "sunset"))

	_, err := repo.Get(ctx, "sunset")
	assert.ErrorIs(t, err, mediavault.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "sunset"), mediavault.ErrNotFound)
}

func TestRepo_List(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	records, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, repo.Create(ctx, sampleRecord("b")))
	require.NoError(t, repo.Create(ctx, sampleRecord("a")))

	records, err = repo.List(ctx)
	assert.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "b", records[1].Name)
}

func TestValidateSchema_MissingTable(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = sqlite.ValidateSchema(context.Background(), db, testTable)
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	require.NoError(t, sqlite.Migrate(ctx, db, testTable))
	assert.NoError(t, sqlite.Migrate(ctx, db, testTable))
	assert.NoError(t, sqlite.ValidateSchema(ctx, db, testTable))
}
