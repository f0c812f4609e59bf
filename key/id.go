package key

import (
	"fmt"
	"sync"
)

// IDGenerator hands out neutral entry identifiers: zero-padded eight digit
// decimal strings from a counter. It remembers every identifier it has
// handed out or accepted through Claim, so it never repeats one. It is safe
// for concurrent use.
type IDGenerator struct {
	mu    sync.Mutex
	next  int
	taken map[string]struct{}
}

// NewIDGenerator creates a generator whose first identifier is start.
func NewIDGenerator(start int) *IDGenerator {
	return &IDGenerator{next: start, taken: make(map[string]struct{})}
}

// Next returns the next identifier not yet in use.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextLocked()
}

// Claim reserves id for a caller that read it from a file. When id is empty
// or already in use, a fresh identifier is returned instead.
func (g *IDGenerator) Claim(id string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id == "" {
		return g.nextLocked()
	}
	if _, used := g.taken[id]; used {
		return g.nextLocked()
	}
	g.mark(id)
	return id
}

func (g *IDGenerator) nextLocked() string {
	for {
		id := fmt.Sprintf("%08d", g.next)
		g.next++
		if _, used := g.taken[id]; !used {
			g.mark(id)
			return id
		}
	}
}

func (g *IDGenerator) mark(id string) {
	if g.taken == nil {
		g.taken = make(map[string]struct{})
	}
	g.taken[id] = struct{}{}
}

var defaultIDs = NewIDGenerator(0)

// DefaultIDs returns the process-wide generator.
func DefaultIDs() *IDGenerator {
	return defaultIDs
}

// NeutralID returns the next identifier from the process-wide generator.
func NeutralID() string {
	return defaultIDs.Next()
}
