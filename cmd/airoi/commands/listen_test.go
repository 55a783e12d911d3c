package commands

import (
	"context"
	"testing"
	"time"
)

func TestReleaseOnDone_RunsStopAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	released := make(chan struct{})
	releaseOnDone(ctx, func() { close(released) })

	select {
	case <-released:
		t.Fatal("released before cancellation")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("signal handling not released after cancellation")
	}
}

func TestInterruptContext_FollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := interruptContext(parent)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with parent")
	}
	// stop is safe to call again after the release already ran
	stop()
}
