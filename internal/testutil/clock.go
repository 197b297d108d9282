// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

// Epoch is the start time of a FakeClock built from the zero time.
var Epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// FakeClock is a vfs.Clock that only moves when told to, so node
// timestamps in tests are exact.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts a clock at start, or at Epoch when start is zero.
func NewFakeClock(start time.Time) *FakeClock {
	if start.IsZero() {
		start = Epoch
	}
	return &FakeClock{now: start}
}

// Now returns the frozen time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
