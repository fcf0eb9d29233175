package app

import (
	"context"
	"testing"
	"time"

	"github.com/classwave/live/internal/core"
)

func TestReaperEvictsAbandonedSessions(t *testing.T) {
	reg := core.NewRegistry()
	reg.GetOrCreate("abandoned")

	r := &Reaper{Registry: reg, Interval: 5 * time.Millisecond, Grace: 0}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for reg.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("reaper did not evict the abandoned session in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop on context cancellation")
	}
}
