package testutil

import (
	"sync"
	"time"
)

// Clock потокобезопасные управляемые часы для тестов use case
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock создает часы, остановленные в момент now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now текущее время часов
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переставляет часы
func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance сдвигает часы на d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
