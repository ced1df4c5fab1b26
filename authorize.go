package mediavault

import "context"

// Authorize reports whether claimedOwner may mutate or retrieve the
// object stored under name. The comparison is exact string equality;
// no normalization or case folding. A missing record yields false, so
// callers that must distinguish "not found" from "not authorized" check
// existence explicitly first.
func (s *Service) Authorize(ctx context.Context, name, claimedOwner string) bool {
	rec, err := s.repo.Get(ctx, name)
	if err != nil {
		return false
	}
	return rec.Owner == claimedOwner
}
