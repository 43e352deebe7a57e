package event

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idOnce sync.Once
	idGen  *idGenerator
)

// idGenerator hands out ULIDs from a monotonic source so that IDs minted
// within the same millisecond still sort in creation order.
type idGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *idGenerator) newAt(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

// NewID returns a lexicographically sortable ULID for the given instant.
func NewID(t time.Time) string {
	idOnce.Do(func() {
		idGen = &idGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
	})
	return idGen.newAt(t.UTC())
}

// ParseID validates an event or transaction ID.
func ParseID(s string) error {
	_, err := ulid.ParseStrict(s)
	return err
}
