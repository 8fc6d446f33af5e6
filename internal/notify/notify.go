// Package notify keeps the short-lived toast notifications shown by the
// overlay.
package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 5 * time.Second

// Level is the severity of a notification.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// ParseLevel converts s to a Level. Unknown values become Info.
func ParseLevel(s string) Level {
	switch Level(s) {
	case Success, Warning, Error:
		return Level(s)
	}
	return Info
}

// Notification is a single toast.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether n should no longer be shown at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Center holds the active notifications. It is safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	items   []Notification
	ttl     time.Duration
	quiet   bool
	nowFunc func() time.Time
}

// NewCenter creates a notification center. A non-positive ttl uses
// DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// SetClock replaces the time source.
func (c *Center) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowFunc = now
}

// SetQuiet suppresses info, success and warning toasts. Errors are always
// shown.
func (c *Center) SetQuiet(quiet bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quiet = quiet
}

// TTL returns the lifetime given to new notifications.
func (c *Center) TTL() time.Duration {
	return c.ttl
}

// Push adds a notification. Empty messages and suppressed levels are dropped
// and reported with false.
func (c *Center) Push(message string, level Level) (Notification, bool) {
	if message == "" {
		return Notification{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quiet && level != Error {
		return Notification{}, false
	}

	now := c.nowFunc()
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Level:     ParseLevel(string(level)),
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.items = append(c.items, n)
	return n, true
}

// Dismiss removes the notification with the given ID.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissNewest removes the most recent notification.
func (c *Center) DismissNewest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return false
	}
	c.items = c.items[:len(c.items)-1]
	return true
}

// Active drops expired notifications and returns the rest, oldest first.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, n := range c.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	c.items = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of stored notifications, expired or not.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes every notification.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
