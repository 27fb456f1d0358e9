package services

import (
	"strings"
	"sync"
	"testing"
)

func TestNewEventOrderIDFormat(t *testing.T) {
	id := NewEventOrderID(42, 7)

	if !strings.HasPrefix(id, "EVENT-42-USER-7-") {
		t.Fatalf("unexpected order id prefix: %s", id)
	}
	parts := strings.Split(id, "-")
	if len(parts) != 6 {
		t.Fatalf("expected 6 segments, got %d: %s", len(parts), id)
	}
	if len(parts[5]) != 8 {
		t.Fatalf("expected 8-char suffix, got %q", parts[5])
	}
}

func TestNewDonationOrderIDFormat(t *testing.T) {
	id := NewDonationOrderID()

	if !strings.HasPrefix(id, "DONATION-") {
		t.Fatalf("unexpected order id prefix: %s", id)
	}
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d: %s", len(parts), id)
	}
}

func TestOrderIDsUniqueUnderConcurrency(t *testing.T) {
	const n = 200

	var mu sync.Mutex
	seen := make(map[string]bool, n*2)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			event := NewEventOrderID(1, 1)
			donation := NewDonationOrderID()

			mu.Lock()
			defer mu.Unlock()
			if seen[event] {
				t.Errorf("duplicate event order id: %s", event)
			}
			if seen[donation] {
				t.Errorf("duplicate donation order id: %s", donation)
			}
			seen[event] = true
			seen[donation] = true
		}()
	}
	wg.Wait()
}
