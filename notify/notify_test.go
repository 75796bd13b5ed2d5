package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/dshills/detour"
)

func TestNotifier_Subscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var got []Change
	n.Subscribe(func(c Change) {
		got = append(got, c)
	})

	n.NotifySet("port", detour.Int(80), detour.Int(8080), "test")

	if len(got) != 1 {
		t.Fatalf("expected 1 change, got %d", len(got))
	}
	if got[0].Key != "port" || got[0].Type != ChangeSet {
		t.Errorf("unexpected change: %+v", got[0])
	}
	if got[0].Old.Int() != 80 || got[0].New.Int() != 8080 {
		t.Errorf("unexpected values: %+v", got[0])
	}
}

func TestNotifier_SubscribeKey(t *testing.T) {
	n := New()
	defer n.Close()

	var portChanges, hostChanges int
	n.SubscribeKey("port", func(c Change) { portChanges++ })
	n.SubscribeKey("host", func(c Change) { hostChanges++ })

	n.NotifySet("port", detour.Value{}, detour.Int(80), "test")

	if portChanges != 1 {
		t.Errorf("port observer called %d times, want 1", portChanges)
	}
	if hostChanges != 0 {
		t.Errorf("host observer called %d times, want 0", hostChanges)
	}

	// Reload reaches key observers too
	n.NotifyReload("test")
	if portChanges != 2 || hostChanges != 1 {
		t.Errorf("after reload: port=%d host=%d, want 2 and 1", portChanges, hostChanges)
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var calls int
	sub := n.Subscribe(func(c Change) { calls++ })

	n.NotifyReload("test")
	sub.Unsubscribe()
	n.NotifyReload("test")

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestNotifier_Async(t *testing.T) {
	n := New(WithAsync(16))

	var mu sync.Mutex
	var calls int
	n.Subscribe(func(c Change) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		n.NotifyReload("test")
	}

	// Close drains the buffer before returning
	n.Close()

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		done := calls == 5
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 5 calls, got %d", calls)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNotifier_NotifyAfterClose(t *testing.T) {
	n := New()

	var calls int
	n.Subscribe(func(c Change) { calls++ })

	n.Close()
	n.Close() // idempotent
	n.NotifyReload("test")

	if calls != 0 {
		t.Errorf("expected no delivery after close, got %d", calls)
	}
}

func TestBatch(t *testing.T) {
	n := New()
	defer n.Close()

	var got []Change
	n.Subscribe(func(c Change) { got = append(got, c) })

	b := n.NewBatch()
	b.Set("a", detour.Value{}, detour.Int(1), "reload")
	b.Set("b", detour.Value{}, detour.Int(2), "reload")

	if len(got) != 0 {
		t.Fatalf("no delivery before commit, got %d", len(got))
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}

	b.Commit()
	if len(got) != 2 {
		t.Errorf("expected 2 changes after commit, got %d", len(got))
	}
	if b.Len() != 0 {
		t.Errorf("Len after commit = %d, want 0", b.Len())
	}
}

func TestBatch_Discard(t *testing.T) {
	n := New()
	defer n.Close()

	var calls int
	n.Subscribe(func(c Change) { calls++ })

	b := n.NewBatch()
	b.Set("a", detour.Value{}, detour.Int(1), "reload")
	b.Discard()
	b.Commit()

	if calls != 0 {
		t.Errorf("expected no delivery after discard, got %d", calls)
	}
}
