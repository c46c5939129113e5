package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerFiresOncePerBurst(t *testing.T) {
	var calls atomic.Int32
	d := New(30*time.Millisecond, func() { calls.Add(1) })
	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}

	d.Trigger()
	time.Sleep(120 * time.Millisecond)
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected second burst to fire, got %d calls", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := New(30*time.Millisecond, func() { calls.Add(1) })
	if d.Stop() {
		t.Fatal("nothing should be pending")
	}
	d.Trigger()
	if !d.Stop() {
		t.Fatal("expected pending call to be cancelled")
	}
	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatal("stopped debouncer must not fire")
	}
}

func TestFuncUsesLatestValue(t *testing.T) {
	got := make(chan string, 4)
	search := Func(30*time.Millisecond, func(s string) { got <- s })
	search("a")
	search("al")
	search("alp")

	select {
	case v := <-got:
		if v != "alp" {
			t.Fatalf("expected latest value alp, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced func never fired")
	}
	select {
	case v := <-got:
		t.Fatalf("unexpected extra call with %q", v)
	case <-time.After(80 * time.Millisecond):
	}
}
