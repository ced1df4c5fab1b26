package mediavault

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// queryTimeLayouts are the accepted wire formats for query date bounds.
var queryTimeLayouts = []string{
	TimeLayout,
	time.RFC3339,
	"2006-01-02",
}

// ParseQueryTime parses a date bound supplied to one of the filter
// queries. An empty or unparseable value is ErrInvalidInput: both
// bounds are required, an absent end bound is rejected rather than
// treated as unbounded.
func ParseQueryTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date bound is required", ErrInvalidInput)
	}

	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
}

// FilterByDate scans the index for records owned by q.Owner whose
// creation time falls strictly between q.Start and q.End. Records
// created exactly on a bound are excluded. Results are sorted by
// creation time in the requested direction; the sort is stable, so
// equal-timestamp records keep their scan order across repeated calls.
func (s *Service) FilterByDate(ctx context.Context, q DateQuery) ([]QueryItem, error) {
	if strings.TrimSpace(q.Owner) == "" {
		return nil, fmt.Errorf("filter by date: %w: owner cannot be empty", ErrInvalidInput)
	}

	return s.scanRange(ctx, "filter by date", q.Start, q.End, q.Sort, func(rec Record) bool {
		return rec.Owner == q.Owner
	})
}

// FilterByOwners scans the index for records owned by any member of
// q.Owners within the same strictly exclusive date bounds as
// FilterByDate. An empty owner set is rejected.
func (s *Service) FilterByOwners(ctx context.Context, q OwnerQuery) ([]QueryItem, error) {
	if len(q.Owners) == 0 {
		return nil, fmt.Errorf("filter by owners: %w: at least one owner is required", ErrInvalidInput)
	}

	owners := make(map[string]struct{}, len(q.Owners))
	for _, o := range q.Owners {
		if strings.TrimSpace(o) == "" {
			return nil, fmt.Errorf("filter by owners: %w: owner cannot be empty", ErrInvalidInput)
		}
		owners[o] = struct{}{}
	}

	return s.scanRange(ctx, "filter by owners", q.Start, q.End, q.Sort, func(rec Record) bool {
		_, ok := owners[rec.Owner]
		return ok
	})
}

// scanRange is the one scan+filter+sort pipeline both queries build on.
func (s *Service) scanRange(ctx context.Context, op string, start, end time.Time, sort SortOrder, match func(Record) bool) ([]QueryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if start.IsZero() {
		return nil, fmt.Errorf("%s: %w: start date is required", op, ErrInvalidInput)
	}
	if end.IsZero() {
		return nil, fmt.Errorf("%s: %w: end date is required", op, ErrInvalidInput)
	}

	if sort == "" {
		sort = Ascending
	}
	if sort != Ascending && sort != Descending {
		return nil, fmt.Errorf("%s: %w: invalid sort order %q", op, ErrInvalidInput, string(sort))
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]QueryItem, 0, len(records))
	for _, rec := range records {
		if !match(rec) {
			continue
		}
		// Both bounds are strictly exclusive.
		if !rec.CreatedAt.After(start) || !rec.CreatedAt.Before(end) {
			continue
		}
		items = append(items, QueryItem{
			Name:       rec.Name,
			Owner:      rec.Owner,
			CreatedAt:  rec.CreatedAt,
			ModifiedAt: rec.ModifiedAt,
		})
	}

	slices.SortStableFunc(items, func(a, b QueryItem) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if sort == Descending {
			c = -c
		}
		return c
	})

	return items, nil
}
