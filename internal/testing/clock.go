package testing

import (
	"sync"
	"time"
)

// Clock is a deterministic time source, every call to Now moves it forward by Step
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewClock returns Clock starting at start and advancing one second per call
func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC(), Step: time.Second}
}

// Now returns current clock value and advances the clock
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(c.Step)
	return now
}

// Peek returns the value the next call to Now will return
func (c *Clock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
