package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"loanapproval/internal/domain"
)

const bucketSpan = int64(time.Hour / time.Second)

// LogStore is an append-only archive of completed requests partitioned into hourly buckets.
type LogStore struct {
	mu      sync.RWMutex
	buckets map[int64][]domain.LoanRequestLog
	size    int
}

// NewLogStore creates an empty store.
func NewLogStore() *LogStore {
	return &LogStore{
		buckets: make(map[int64][]domain.LoanRequestLog),
	}
}

// bucketKey identifies the hour containing t.
func bucketKey(t time.Time) int64 {
	return t.Truncate(time.Hour).Unix()
}

// Append adds entry to the bucket of its completion hour.
func (s *LogStore) Append(_ context.Context, entry domain.LoanRequestLog) {
	key := bucketKey(entry.CompletedAt)

	s.mu.Lock()
	s.buckets[key] = append(s.buckets[key], entry)
	s.size++
	s.mu.Unlock()
}

// RangeQuery returns the entries completed strictly after start and strictly before end,
// in bucket order. An inverted window yields no entries.
func (s *LogStore) RangeQuery(_ context.Context, start, end time.Time) []domain.LoanRequestLog {
	result := make([]domain.LoanRequestLog, 0)
	if end.Before(start) {
		return result
	}

	first, last := bucketKey(start), bucketKey(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if first == last {
		for _, entry := range s.buckets[first] {
			if entry.CompletedAt.After(start) && entry.CompletedAt.Before(end) {
				result = append(result, entry)
			}
		}
		return result
	}

	for _, entry := range s.buckets[first] {
		if entry.CompletedAt.After(start) {
			result = append(result, entry)
		}
	}
	for _, key := range s.innerKeys(first, last) {
		result = append(result, s.buckets[key]...)
	}
	for _, entry := range s.buckets[last] {
		if entry.CompletedAt.Before(end) {
			result = append(result, entry)
		}
	}
	return result
}

// innerKeys lists the populated bucket keys strictly between first and last in ascending order.
// It walks whichever is shorter: the hours of the window or the populated buckets.
func (s *LogStore) innerKeys(first, last int64) []int64 {
	hours := (last-first)/bucketSpan - 1
	if hours <= 0 {
		return nil
	}

	var keys []int64
	if hours <= int64(len(s.buckets)) {
		for key := first + bucketSpan; key < last; key += bucketSpan {
			if _, ok := s.buckets[key]; ok {
				keys = append(keys, key)
			}
		}
		return keys
	}

	for key := range s.buckets {
		if key > first && key < last {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// PruneBefore drops every bucket whose hour ends at or before the hour containing cutoff.
// It returns the number of entries removed.
func (s *LogStore) PruneBefore(_ context.Context, cutoff time.Time) int {
	limit := bucketKey(cutoff)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entries := range s.buckets {
		if key < limit {
			removed += len(entries)
			delete(s.buckets, key)
		}
	}
	s.size -= removed
	return removed
}

// Len returns the number of archived entries.
func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}
