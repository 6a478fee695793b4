package dashboard

import (
	"testing"
	"time"
)

func TestSessionsGetAndSweep(t *testing.T) {
	now := testNow
	opts := testOptions()
	opts.Now = func() time.Time { return now }
	s := NewSessions(&fakeProvider{}, &fakeProvider{}, opts, 30*time.Minute)

	a := s.Get("a")
	if s.Get("a") != a {
		t.Fatalf("expected the same session for the same id")
	}
	if a.Arqueos == nil || a.Sales == nil {
		t.Fatalf("session views not initialised")
	}

	now = now.Add(20 * time.Minute)
	s.Get("b")
	now = now.Add(15 * time.Minute)

	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("expected 1 idle session removed, got %d", removed)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session left, got %d", s.Len())
	}
	if s.Get("a") == a {
		t.Fatalf("expected a fresh session after expiry")
	}
}
