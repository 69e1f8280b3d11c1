// Package notify is the transient notification queue: messages appear,
// stay visible for a few seconds, and dismiss themselves. The TUI
// drives expiry off its tick loop.
package notify

import "time"

// Level classifies a notification for styling.
type Level int

const (
	Info Level = iota
	Success
	Error
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

// Notification is one transient message.
type Notification struct {
	ID    int
	Text  string
	Level Level

	expiresAt time.Time
}

// Center holds the ordered queue of visible notifications.
type Center struct {
	next  int
	ttl   time.Duration
	items []Notification
	now   func() time.Time
}

// NewCenter creates an empty queue with the default visibility window.
func NewCenter() *Center {
	return &Center{ttl: DefaultTTL, now: time.Now}
}

// Push appends a notification and returns its id.
func (c *Center) Push(text string, level Level) int {
	c.next++
	c.items = append(c.items, Notification{
		ID:        c.next,
		Text:      text,
		Level:     level,
		expiresAt: c.now().Add(c.ttl),
	})
	return c.next
}

// Dismiss removes a notification by id. Unknown ids are a no-op.
func (c *Center) Dismiss(id int) {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Expire drops notifications whose display window has elapsed and
// reports whether anything was removed.
func (c *Center) Expire(now time.Time) bool {
	kept := c.items[:0]
	for _, n := range c.items {
		if n.expiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	removed := len(kept) != len(c.items)
	c.items = kept
	return removed
}

// Visible returns a copy of the queue in arrival order.
func (c *Center) Visible() []Notification {
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Empty reports whether nothing is on screen.
func (c *Center) Empty() bool { return len(c.items) == 0 }
