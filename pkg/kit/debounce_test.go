package kit_test

import (
	"sync/atomic"
	"testing"
	"time"

	"SnowStore/pkg/kit"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := kit.NewDebouncer(30 * time.Millisecond)

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Fatalf("fired=%d want 1", got)
	}
}

func TestDebouncer_NonPositiveWindowRunsSynchronously(t *testing.T) {
	d := kit.NewDebouncer(0)

	ran := false
	d.Trigger(func() { ran = true })

	if !ran {
		t.Fatalf("expected synchronous run")
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := kit.NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Fatalf("fired=%d want 0", got)
	}
}
