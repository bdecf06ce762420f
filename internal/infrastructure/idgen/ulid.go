// Package idgen issues the run ids that tag every log line of a
// processing run.
package idgen

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RunIDGenerator issues ULIDs that sort in the order runs were started,
// including runs started within the same millisecond.
type RunIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// NewRunIDGenerator returns a generator backed by the wall clock and
// crypto/rand.
func NewRunIDGenerator() *RunIDGenerator {
	return newRunIDGenerator(time.Now, rand.Reader)
}

func newRunIDGenerator(now func() time.Time, entropy io.Reader) *RunIDGenerator {
	return &RunIDGenerator{
		now:     now,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

// Generate implements usecase.IDGenerator.
func (g *RunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}
