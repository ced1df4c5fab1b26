package mediavault

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the on-disk timestamp encoding. Second precision is
// sufficient for creation-date ordering and keeps records byte-stable
// across encode/decode round trips.
const TimeLayout = "2006-01-02 15:04:05"

// recordWire is the persisted form of a Record. Timestamps are encoded
// as TimeLayout strings so the sidecar files stay human-readable.
type recordWire struct {
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	Owner       string `json:"owner"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at"`
}

// EncodeRecord serializes a record to its canonical textual encoding.
// Timestamps are truncated to second precision in UTC.
func EncodeRecord(r Record) ([]byte, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("encode record: %w: name cannot be empty", ErrInvalidInput)
	}

	w := recordWire{
		Name:        r.Name,
		Extension:   r.Extension,
		Owner:       r.Owner,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC().Format(TimeLayout),
		ModifiedAt:  r.ModifiedAt.UTC().Format(TimeLayout),
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", r.Name, err)
	}

	return data, nil
}

// DecodeRecord parses the canonical encoding back into a Record.
// Malformed input is reported as ErrInternal since it indicates a
// corrupt stored record rather than bad caller input.
func DecodeRecord(data []byte) (Record, error) {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("decode record: %w: %v", ErrInternal, err)
	}

	if w.Name == "" {
		return Record{}, fmt.Errorf("decode record: %w: missing name", ErrInternal)
	}

	createdAt, err := time.Parse(TimeLayout, w.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("decode record %s: %w: bad created_at: %v", w.Name, ErrInternal, err)
	}

	modifiedAt, err := time.Parse(TimeLayout, w.ModifiedAt)
	if err != nil {
		return Record{}, fmt.Errorf("decode record %s: %w: bad modified_at: %v", w.Name, ErrInternal, err)
	}

	return Record{
		Name:        w.Name,
		Extension:   w.Extension,
		Owner:       w.Owner,
		Description: w.Description,
		CreatedAt:   createdAt.UTC(),
		ModifiedAt:  modifiedAt.UTC(),
	}, nil
}
