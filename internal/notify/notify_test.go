package notify

import (
	"testing"
	"time"
)

func TestPushAndDismiss(t *testing.T) {
	c := NewCenter()

	first := c.Push("Invitation created and sent successfully!", Success)
	second := c.Push("Failed to create invitation", Error)

	visible := c.Visible()
	if len(visible) != 2 {
		t.Fatalf("visible = %d", len(visible))
	}
	if visible[0].ID != first || visible[1].ID != second {
		t.Error("notifications out of arrival order")
	}

	c.Dismiss(first)
	visible = c.Visible()
	if len(visible) != 1 || visible[0].ID != second {
		t.Fatalf("after dismiss: %+v", visible)
	}

	// Unknown id is a no-op.
	c.Dismiss(999)
	if len(c.Visible()) != 1 {
		t.Error("dismiss by unknown id mutated the queue")
	}
}

func TestExpire(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter()
	c.now = func() time.Time { return base }

	c.Push("first", Info)
	base = base.Add(3 * time.Second)
	c.Push("second", Info)

	// Nothing expired yet.
	if c.Expire(base) {
		t.Error("Expire removed fresh notifications")
	}

	// First crosses its TTL, second survives.
	if !c.Expire(base.Add(2*time.Second + time.Millisecond)) {
		t.Error("Expire missed a stale notification")
	}
	visible := c.Visible()
	if len(visible) != 1 || visible[0].Text != "second" {
		t.Fatalf("after expire: %+v", visible)
	}

	if !c.Expire(base.Add(DefaultTTL)) {
		t.Error("Expire missed the last notification")
	}
	if !c.Empty() {
		t.Error("queue not empty after all TTLs elapsed")
	}
}
