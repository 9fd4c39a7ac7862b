// Package threshold holds the self-tuning amount limits used by the amount
// rule and the arithmetic that moves them in response to reviewer feedback.
package threshold

import "sync"

const (
	DefaultMaxAllowed          int64 = 200
	DefaultMaxManualProcessing int64 = 1500
)

// Limits is the pair of amount bounds. MaxAllowed <= MaxManualProcessing is
// expected but not enforced.
type Limits struct {
	MaxAllowed          int64 `json:"maxAllowed"`
	MaxManualProcessing int64 `json:"maxManualProcessing"`
}

// DefaultLimits returns the limits a fresh process starts with.
func DefaultLimits() Limits {
	return Limits{
		MaxAllowed:          DefaultMaxAllowed,
		MaxManualProcessing: DefaultMaxManualProcessing,
	}
}

// Adjustment transforms a limits pair.
type Adjustment func(Limits) Limits

// Store is the process-wide holder of the current limits. Both fields are
// guarded by one lock so every adjustment is a single read-modify-write.
type Store struct {
	mu     sync.RWMutex
	limits Limits
}

func NewStore(initial Limits) *Store {
	return &Store{limits: initial}
}

// Snapshot returns a copy of the current limits.
func (s *Store) Snapshot() Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}

// Apply runs fn against the current limits under the write lock and stores
// the result. fn must not block.
func (s *Store) Apply(fn Adjustment) Limits {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = fn(s.limits)
	return s.limits
}
