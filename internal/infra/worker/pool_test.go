package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-channel-gate/internal/domain"
	"telegram-channel-gate/internal/infra/worker"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := worker.NewPool(4, newTestLogger())
	pool.Start(context.Background())
	defer pool.Stop()

	var ran int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		err := pool.Submit(func(ctx context.Context) error {
			defer wg.Done()
			atomic.AddInt64(&ran, 1)
			return nil
		})
		if err != nil {
			wg.Done()
			t.Fatalf("Submit: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish in time")
	}
	if atomic.LoadInt64(&ran) != 8 {
		t.Errorf("ran = %d, want 8", ran)
	}
}

func TestPoolSubmitNilTask(t *testing.T) {
	pool := worker.NewPool(1, newTestLogger())
	pool.Start(context.Background())
	defer pool.Stop()

	if err := pool.Submit(nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPoolSaturationReturnsQueueFull(t *testing.T) {
	// One worker with a blocked queue: capacity is workers*4, so the fifth
	// waiting task cannot be accepted.
	pool := worker.NewPool(1, newTestLogger())
	release := make(chan struct{})

	blocker := func(ctx context.Context) error {
		<-release
		return nil
	}

	// The pool is not started, so nothing drains the queue.
	var sawFull bool
	for i := 0; i < 10; i++ {
		if err := pool.Submit(blocker); errors.Is(err, domain.ErrQueueFull) {
			sawFull = true
			break
		}
	}
	close(release)
	if !sawFull {
		t.Fatal("expected ErrQueueFull once the queue filled up")
	}
}
