package mediavault_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mediavault/mediavault"
)

func TestEncodeRecord(t *testing.T) {
	t.Run("timestamps are encoded in UTC at second precision", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		rec := mediavault.Record{
			Name:        "sunset",
			Extension:   "jpg",
			Owner:       "alice",
			Description: "golden hour",
			CreatedAt:   time.Date(2026, 1, 15, 12, 30, 45, 999_000_000, loc),
			ModifiedAt:  time.Date(2026, 1, 15, 14, 0, 1, 500_000_000, loc),
		}

		data, err := mediavault.EncodeRecord(rec)
		assert.NoError(t, err)

		var wire map[string]any
		assert.NoError(t, json.Unmarshal(data, &wire))
		assert.Equal(t, "sunset", wire["name"])
		assert.Equal(t, "jpg", wire["extension"])
		assert.Equal(t, "alice", wire["owner"])
		assert.Equal(t, "golden hour", wire["description"])
		assert.Equal(t, "2026-01-15 10:30:45", wire["created_at"])
		assert.Equal(t, "2026-01-15 12:00:01", wire["modified_at"])
	})

	t.Run("empty description is omitted", func(t *testing.T) {
		rec := mediavault.Record{
			Name:      "clip",
			Extension: "mp4",
			Owner:     "bob",
		}

		data, err := mediavault.EncodeRecord(rec)
		assert.NoError(t, err)
		assert.NotContains(t, string(data), "description")
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := mediavault.EncodeRecord(mediavault.Record{})
		assert.ErrorIs(t, err, mediavault.ErrInvalidInput)
	})
}

func TestDecodeRecord(t *testing.T) {
	t.Run("round trip preserves the record", func(t *testing.T) {
		rec := mediavault.Record{
			Name:        "sunset",
			Extension:   "jpg",
			Owner:       "alice",
			Description: "golden hour",
			CreatedAt:   time.Date(2026, 1, 15, 10, 30, 45, 0, time.UTC),
			ModifiedAt:  time.Date(2026, 1, 15, 12, 0, 1, 0, time.UTC),
		}

		data, err := mediavault.EncodeRecord(rec)
		assert.NoError(t, err)

		got, err := mediavault.DecodeRecord(data)
		assert.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("malformed json is an internal error", func(t *testing.T) {
		_, err := mediavault.DecodeRecord([]byte("{not json"))
		assert.ErrorIs(t, err, mediavault.ErrInternal)
	})

	t.Run("missing name is an internal error", func(t *testing.T) {
		_, err := mediavault.DecodeRecord([]byte(`{"extension":"jpg","owner":"alice","created_at":"2026-01-15 10:30:45","modified_at":"2026-01-15 10:30:45"}`))
		assert.ErrorIs(t, err, mediavault.ErrInternal)
	})

	t.Run("bad timestamp is an internal error", func(t *testing.T) {
		_, err := mediavault.DecodeRecord([]byte(`{"name":"sunset","extension":"jpg","owner":"alice","created_at":"yesterday","modified_at":"2026-01-15 10:30:45"}`))
		assert.ErrorIs(t, err, mediavault.ErrInternal)
	})
}
