package reactive

import (
	"sync"
	"testing"
)

func TestState_GetSet(t *testing.T) {
	state := NewState(42)

	if got := state.Get(); got != 42 {
		t.Errorf("Expected initial value 42, got %d", got)
	}

	if !state.Set(100) {
		t.Error("Set(100) reported no change")
	}
	if got := state.Get(); got != 100 {
		t.Errorf("Expected value 100 after Set, got %d", got)
	}
	if state.Set(100) {
		t.Error("Set with the same value reported a change")
	}
}

func TestState_SubscribeOrderAndChangesOnly(t *testing.T) {
	state := NewState("")

	var seen []string
	state.Subscribe(func(v string) { seen = append(seen, "a:"+v) })
	state.Subscribe(func(v string) { seen = append(seen, "b:"+v) })

	state.Set("heading-0")
	state.Set("heading-0")
	state.Set("heading-1")

	want := []string{"a:heading-0", "b:heading-0", "a:heading-1", "b:heading-1"}
	if len(seen) != len(want) {
		t.Fatalf("notifications = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestState_Unsubscribe(t *testing.T) {
	state := NewState(0)

	calls := 0
	unsubscribe := state.Subscribe(func(int) { calls++ })
	keep := 0
	state.Subscribe(func(int) { keep++ })

	state.Set(1)
	unsubscribe()
	unsubscribe()
	state.Set(2)

	if calls != 1 {
		t.Errorf("unsubscribed callback ran %d times, want 1", calls)
	}
	if keep != 2 {
		t.Errorf("remaining callback ran %d times, want 2", keep)
	}
	if got := state.Subscribers(); got != 1 {
		t.Errorf("Subscribers() = %d, want 1", got)
	}
}

func TestState_UpdateFromSubscriber(t *testing.T) {
	state := NewState(0)
	state.Subscribe(func(v int) {
		if v < 3 {
			state.Update(func(n int) int { return n + 1 })
		}
	})

	state.Set(1)
	if got := state.Get(); got != 3 {
		t.Errorf("Get() = %d, want 3", got)
	}
}

func TestState_Concurrent(t *testing.T) {
	state := NewState(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	if got := state.Get(); got != 50 {
		t.Errorf("Get() = %d, want 50", got)
	}
}
