package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// BaseWorker runs one job at a time on a rescheduling timer and tracks the
// in-flight run so Shutdown can wait for it.
type BaseWorker struct {
	name     string
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func (w *BaseWorker) init(name string) {
	w.name = name
	w.shutdown = make(chan struct{})
}

// schedule runs fn once after d unless the worker shut down first
func (w *BaseWorker) schedule(d time.Duration, fn func(ctx context.Context)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(d, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		w.wg.Add(1)
		w.mu.Unlock()
		defer w.wg.Done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-w.shutdown:
				cancel()
			case <-ctx.Done():
			}
		}()
		fn(ctx)
	})
}

func (w *BaseWorker) shutdownInternal(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgWorkerStopping, "worker", w.name)

	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.shutdown)
		if w.timer != nil {
			w.timer.Stop()
		}
	}
	w.mu.Unlock()

	// Wait for the in-flight run
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgWorkerStopped, "worker", w.name)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgWorkerShutdownTimeout, "worker", w.name)
		return ctx.Err()
	}
}
