// Package clock abstracts the time source so token lifetimes can be tested
// without sleeping.
package clock

import "time"

type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

func NewRealClock() Clock {
	return &RealClock{}
}

type RealClock struct{}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// MockClock reports a fixed instant until moved with SetTime or Advance.
type MockClock struct {
	now time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	return c.now
}

func (c *MockClock) Since(t time.Time) time.Duration {
	return c.now.Sub(t)
}

func (c *MockClock) SetTime(t time.Time) {
	c.now = t
}

func (c *MockClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
