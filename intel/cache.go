package intel

import "time"

// slot is a timestamped cache entry: value plus fetch time, validity checked
// against a TTL. Used uniformly for the snapshot, map, per-kind queue and
// attribute caches. The boundary is inclusive: an entry exactly ttl old is
// still valid.
type slot[T any] struct {
	value     T
	fetchedAt time.Time
	filled    bool
}

func (s *slot[T]) put(v T, at time.Time) {
	s.value = v
	s.fetchedAt = at
	s.filled = true
}

func (s *slot[T]) get(now time.Time, ttl time.Duration) (T, bool) {
	if !s.filled || now.Sub(s.fetchedAt) > ttl {
		var zero T
		return zero, false
	}
	return s.value, true
}

func (s *slot[T]) age(now time.Time) (time.Duration, bool) {
	if !s.filled {
		return 0, false
	}
	return now.Sub(s.fetchedAt), true
}
