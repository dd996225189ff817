package kafka

import (
	"context"
	"testing"
	"time"
)

// Mirrors the api binary's shutdown order: Close, then cancel, then wait.
func TestProducer_WaitClosedReturnsAfterCloseThenCancel(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "test.topic", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Close()
	cancel()

	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitClosed blocked after Close and cancel")
	}
}

func TestProducer_CancelThenCloseDoesNotPanic(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "test.topic", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitClosed blocked after cancel")
	}

	// The flush loop already closed the inbox; Close must stay a no-op.
	p.Close()
}
