package idgen

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestRunIDGeneratorProducesUniqueParsableIDs(t *testing.T) {
	g := NewRunIDGenerator()
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		id := g.Generate()
		if _, err := ulid.Parse(id); err != nil {
			t.Fatalf("generated id %q is not a ULID: %v", id, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestRunIDGeneratorSortsWithinOneMillisecond(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	g := newRunIDGenerator(func() time.Time { return fixed }, bytes.NewReader(make([]byte, 1024)))

	prev := g.Generate()
	for i := 0; i < 10; i++ {
		next := g.Generate()
		if next <= prev {
			t.Fatalf("expected %q > %q", next, prev)
		}

		id := ulid.MustParse(next)
		if got := ulid.Time(id.Time()); !got.Equal(fixed) {
			t.Fatalf("id time = %v, want %v", got, fixed)
		}
		prev = next
	}
}

func TestRunIDGeneratorConcurrentUse(t *testing.T) {
	g := NewRunIDGenerator()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]struct{})
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := g.Generate()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 400 {
		t.Fatalf("expected 400 unique ids, got %d", len(seen))
	}
}
