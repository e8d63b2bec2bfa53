package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(context.Background(), TestWorkerCount, TestQueueSize)
	pool.Start()

	job := &testJob{executed: &executed}
	assert.True(t, pool.Enqueue(job))
	assert.True(t, pool.Enqueue(job))

	pool.Stop()

	assert.Equal(t, int32(TestExpectedJobCount), atomic.LoadInt32(&executed))
}

func TestPool_FailingJobDoesNotStopWorker(t *testing.T) {
	var executed int32
	pool := NewPool(context.Background(), 1, TestQueueSize)
	pool.Start()

	pool.Enqueue(JobFunc(func(context.Context) error { return errors.New("boom") }))
	pool.Enqueue(&testJob{executed: &executed})
	pool.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&executed))
}

func TestPool_EnqueueAfterStop(t *testing.T) {
	pool := NewPool(context.Background(), 1, 1)
	pool.Start()
	pool.Stop()

	assert.False(t, pool.Enqueue(JobFunc(func(context.Context) error { return nil })))
}

func TestPool_FullQueueDrops(t *testing.T) {
	// Not started, so nothing drains the queue
	pool := NewPool(context.Background(), 1, 1)
	noop := JobFunc(func(context.Context) error { return nil })

	assert.True(t, pool.Enqueue(noop))
	assert.False(t, pool.Enqueue(noop))
}
