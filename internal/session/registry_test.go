package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"canvass/internal/dialog"
)

func TestMutateCreatesAtGreeting(t *testing.T) {
	reg := NewRegistry()

	snap := reg.Mutate("CA1", "+15550100001", "+15550100002", nil)
	if snap.CallID != "CA1" {
		t.Fatalf("call ID = %q", snap.CallID)
	}
	if snap.Stage != dialog.StageGreeting {
		t.Fatalf("new session stage = %s, want %s", snap.Stage, dialog.StageGreeting)
	}
	if snap.From != "+15550100001" || snap.To != "+15550100002" {
		t.Fatalf("numbers not captured: %q %q", snap.From, snap.To)
	}
	if reg.Count() != 1 {
		t.Fatalf("count = %d", reg.Count())
	}
}

func TestMutateAppliesChanges(t *testing.T) {
	reg := NewRegistry()

	snap := reg.Mutate("CA1", "", "", func(sess *Session) {
		sess.Stage = dialog.StageAwaitProductRating
		sess.ProductRating = 4
	})
	if snap.Stage != dialog.StageAwaitProductRating || snap.ProductRating != 4 {
		t.Fatalf("mutation lost: %+v", snap)
	}

	got, ok := reg.Get("CA1")
	if !ok {
		t.Fatal("session missing after mutate")
	}
	if got.ProductRating != 4 {
		t.Fatalf("stored rating = %d", got.ProductRating)
	}
}

func TestMutateKeepsOriginalNumbers(t *testing.T) {
	reg := NewRegistry()
	reg.Mutate("CA1", "+15550100001", "+15550100002", nil)

	// Later callbacks repeat the numbers; they must not reset the session.
	snap := reg.Mutate("CA1", "+19999999999", "+18888888888", nil)
	if snap.From != "+15550100001" {
		t.Fatalf("from overwritten: %q", snap.From)
	}
}

func TestConcurrentCallsStayIsolated(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("CA%02d", n)
			for j := 0; j < 50; j++ {
				reg.Mutate(id, "", "", func(sess *Session) {
					sess.ProductRating = n
				})
			}
		}(i)
	}
	wg.Wait()

	if reg.Count() != 20 {
		t.Fatalf("count = %d, want 20", reg.Count())
	}
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("CA%02d", i)
		sess, ok := reg.Get(id)
		if !ok {
			t.Fatalf("session %s missing", id)
		}
		if sess.ProductRating != i {
			t.Fatalf("session %s rating = %d, want %d", id, sess.ProductRating, i)
		}
	}
}

func TestRemove(t *testing.T) {
	reg := NewRegistry()
	reg.Mutate("CA1", "", "", nil)
	reg.Remove("CA1")
	if _, ok := reg.Get("CA1"); ok {
		t.Fatal("session survived removal")
	}
	reg.Remove("CA1")
}

func TestActiveOrderedByCreation(t *testing.T) {
	reg := NewRegistry()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	reg.now = func() time.Time { return clock }

	reg.Mutate("CA-b", "", "", nil)
	clock = clock.Add(time.Minute)
	reg.Mutate("CA-a", "", "", nil)

	active := reg.Active()
	if len(active) != 2 {
		t.Fatalf("len = %d", len(active))
	}
	if active[0].CallID != "CA-b" || active[1].CallID != "CA-a" {
		t.Fatalf("unexpected order: %s, %s", active[0].CallID, active[1].CallID)
	}
}

func TestEvictBefore(t *testing.T) {
	reg := NewRegistry()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	reg.now = func() time.Time { return clock }

	reg.Mutate("CA-old", "", "", nil)
	clock = base.Add(30 * time.Minute)
	reg.Mutate("CA-new", "", "", nil)

	evicted := reg.EvictBefore(base.Add(10 * time.Minute))
	if evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if _, ok := reg.Get("CA-old"); ok {
		t.Fatal("stale session survived eviction")
	}
	if _, ok := reg.Get("CA-new"); !ok {
		t.Fatal("fresh session was evicted")
	}
}
