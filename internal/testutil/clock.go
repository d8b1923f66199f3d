package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock starts at a fixed instant and moves forward by Step on every
// call to Now, so consecutive timestamps are distinct but predictable.
type StubClock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// FixedClock returns a StubClock starting at 2024-01-15 10:30:00 UTC that
// advances one second per call.
func FixedClock() *StubClock {
	return &StubClock{
		now:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Step: time.Second,
	}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}

// StubIDGenerator returns sequential run IDs: "run-1", "run-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("run-%d", g.counter)
}
