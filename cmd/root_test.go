package cmd

import (
	"context"
	"testing"
	"time"
)

func TestReleaseOnDone_StopsAfterFirstCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	releaseOnDone(ctx, func() { close(stopped) })

	select {
	case <-stopped:
		t.Fatal("stop called before the context was done")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop was not called after the context was done")
	}
}
