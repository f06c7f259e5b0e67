package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resultLog struct {
	mu      sync.Mutex
	results []string
}

func (r *resultLog) record(job Job, err error, final bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	if final {
		status += ":final"
	}
	r.results = append(r.results, job.Type+":"+status)
}

func (r *resultLog) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.results...)
}

func TestQueueDispatchesThroughMux(t *testing.T) {
	mux := NewMux()
	done := make(chan string, 1)
	mux.Handle("magic_link", func(ctx context.Context, job Job) error {
		done <- job.Payload.(string)
		return nil
	})

	log := &resultLog{}
	q := NewQueue("test", mux.Dispatch, QueueConfig{Workers: 2, OnResult: log.record})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "magic_link", Payload: "hello"}))

	select {
	case got := <-done:
		assert.Equal(t, "hello", got)
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}
	assert.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"magic_link:ok:final"}, log.snapshot())
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var calls int32
	log := &resultLog{}
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp down")
	}, QueueConfig{MaxRetries: 2, RetryDelay: time.Millisecond, OnResult: log.record})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "magic_link"}))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return len(log.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"magic_link:error", "magic_link:error", "magic_link:error:final"}, log.snapshot())
}

func TestQueueUnknownTypeIsPermanent(t *testing.T) {
	log := &resultLog{}
	q := NewQueue("test", NewMux().Dispatch, QueueConfig{MaxRetries: 5, RetryDelay: time.Millisecond, OnResult: log.record})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "mystery"}))

	assert.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"mystery:error:final"}, log.snapshot())
}

func TestQueueRecoversFromPanics(t *testing.T) {
	log := &resultLog{}
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		panic("boom")
	}, QueueConfig{OnResult: log.record})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "domain_event"}))
	assert.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"domain_event:error:final"}, log.snapshot())
}

func TestQueueEnqueueRequiresStart(t *testing.T) {
	q := NewQueue("test", NewMux().Dispatch, QueueConfig{})
	require.Error(t, q.Enqueue(Job{ID: "1"}))

	q.Start(context.Background())
	q.Stop()
	require.Error(t, q.Enqueue(Job{ID: "2"}))
}

func TestQueueRejectsWhenFull(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	var full bool
	for i := 0; i < 5; i++ {
		if err := q.Enqueue(Job{ID: "x"}); errors.Is(err, ErrQueueFull) {
			full = true
			break
		}
	}
	assert.True(t, full)
}
