package rategate

import (
	"testing"
	"time"
)

func TestAdmitFirstEvent(t *testing.T) {
	g := New(Config{})
	now := time.Unix(1700000000, 0)
	if !g.Admit(42, ClassMessage, now) {
		t.Fatalf("Admit() first event rejected")
	}
}

func TestAdmitRespectsInterval(t *testing.T) {
	cases := []struct {
		name     string
		class    Class
		interval time.Duration
	}{
		{name: "message", class: ClassMessage, interval: DefaultMessageInterval},
		{name: "action", class: ClassAction, interval: DefaultActionInterval},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(Config{})
			now := time.Unix(1700000000, 0)
			if !g.Admit(1, tc.class, now) {
				t.Fatalf("Admit() first event rejected")
			}
			if g.Admit(1, tc.class, now.Add(tc.interval-time.Millisecond)) {
				t.Fatalf("Admit() admitted event inside interval")
			}
			if !g.Admit(1, tc.class, now.Add(tc.interval)) {
				t.Fatalf("Admit() rejected event at interval boundary")
			}
		})
	}
}

func TestRejectionDoesNotExtendQuietPeriod(t *testing.T) {
	g := New(Config{})
	now := time.Unix(1700000000, 0)
	g.Admit(1, ClassMessage, now)
	// Rejected event must not move the last-admitted timestamp.
	g.Admit(1, ClassMessage, now.Add(100*time.Millisecond))
	if !g.Admit(1, ClassMessage, now.Add(DefaultMessageInterval)) {
		t.Fatalf("Admit() rejected event that should pass after original admit")
	}
}

func TestClassesAreIndependent(t *testing.T) {
	g := New(Config{})
	now := time.Unix(1700000000, 0)
	if !g.Admit(1, ClassMessage, now) {
		t.Fatalf("Admit(message) rejected")
	}
	if !g.Admit(1, ClassAction, now) {
		t.Fatalf("Admit(action) rejected despite separate class state")
	}
}

func TestUsersAreIndependent(t *testing.T) {
	g := New(Config{})
	now := time.Unix(1700000000, 0)
	g.Admit(1, ClassMessage, now)
	if !g.Admit(2, ClassMessage, now) {
		t.Fatalf("Admit() rejected event from unrelated user")
	}
}

func TestSweep(t *testing.T) {
	g := New(Config{})
	now := time.Unix(1700000000, 0)
	g.Admit(1, ClassMessage, now)
	g.Admit(2, ClassMessage, now.Add(10*time.Minute))

	removed := g.Sweep(now.Add(11*time.Minute), 5*time.Minute)
	if removed != 1 {
		t.Fatalf("Sweep() removed = %d, want 1", removed)
	}
	// User 1's entry is gone, so the next event is admitted immediately.
	if !g.Admit(1, ClassMessage, now.Add(11*time.Minute)) {
		t.Fatalf("Admit() rejected after entry was swept")
	}
}
