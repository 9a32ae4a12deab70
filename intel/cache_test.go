package intel

import (
	"testing"
	"time"
)

func TestSlotValidityBoundaryInclusive(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 250 * time.Millisecond

	var s slot[int]
	s.put(42, t0)

	if v, ok := s.get(t0, ttl); !ok || v != 42 {
		t.Errorf("at d=0: v=%d ok=%v", v, ok)
	}
	if v, ok := s.get(t0.Add(ttl), ttl); !ok || v != 42 {
		t.Errorf("at d=ttl the entry must still be valid: v=%d ok=%v", v, ok)
	}
	if _, ok := s.get(t0.Add(ttl+time.Nanosecond), ttl); ok {
		t.Error("just past the ttl the entry must be expired")
	}
}

func TestSlotEmpty(t *testing.T) {
	var s slot[int]
	if _, ok := s.get(time.Now(), time.Hour); ok {
		t.Error("unfilled slot must never be valid")
	}
	if _, ok := s.age(time.Now()); ok {
		t.Error("unfilled slot has no age")
	}
}

func TestSlotAge(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var s slot[string]
	s.put("x", t0)

	age, ok := s.age(t0.Add(3 * time.Second))
	if !ok || age != 3*time.Second {
		t.Errorf("age=%v ok=%v", age, ok)
	}
}
