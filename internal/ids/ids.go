// Package ids issues entity identifiers and the timestamps stamped on them.
package ids

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entity prefixes.
const (
	PrefixUser      = "user"
	PrefixCharacter = "char"
	PrefixMarker    = "marker"
	PrefixAudit     = "audit"
	PrefixSession   = "session"
)

// Generator produces unique ids and the current time. Ids never repeat within
// a process; Now always returns UTC.
type Generator interface {
	NewID(prefix string) string
	Now() time.Time
}

type uuidGenerator struct{}

// New returns the default generator: "<prefix>-<uuidv7>" ids, which sort by
// creation time, and the wall clock in UTC.
func New() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.Must(uuid.NewV7()).String()
}

func (uuidGenerator) Now() time.Time {
	return time.Now().UTC()
}

// Sequence is a deterministic Generator for tests and fixtures. Ids are
// "<prefix>-000001", "<prefix>-000002", ... with one counter shared by all
// prefixes, and every call to Now advances the clock by step.
type Sequence struct {
	mu   sync.Mutex
	n    int
	now  time.Time
	step time.Duration
}

func NewSequence(start time.Time, step time.Duration) *Sequence {
	return &Sequence{now: start.UTC(), step: step}
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%06d", prefix, s.n)
}

func (s *Sequence) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now
	s.now = s.now.Add(s.step)
	return t
}
