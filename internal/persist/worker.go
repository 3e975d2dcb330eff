package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nooranifarms/coopledger/internal/farm"
)

//go:generate mockgen -source=worker.go -destination=writer_mock.go -package=persist
type Writer interface {
	SaveSnapshot(ctx context.Context, snap farm.Snapshot) error
}

// Subscribable is the store-side hookup the worker needs.
type Subscribable interface {
	Subscribe(fn func(farm.Snapshot)) func()
}

// Worker saves every published snapshot in the background. Saves never block
// a mutation and a failed save only logs; the in-memory state remains
// authoritative either way.
type Worker struct {
	writer  Writer
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewWorker(writer Writer, timeout time.Duration) *Worker {
	return &Worker{writer: writer, timeout: timeout}
}

// Attach subscribes the worker to the store. The returned function detaches.
func (w *Worker) Attach(store Subscribable) func() {
	return store.Subscribe(func(snap farm.Snapshot) {
		w.wg.Add(1)

		go func() {
			defer w.wg.Done()
			w.save(snap)
		}()
	})
}

// Wait blocks until all in-flight saves are done. Used on shutdown and in
// tests.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) save(snap farm.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.writer.SaveSnapshot(ctx, snap); err != nil {
		slog.Warn("snapshot save failed, in-memory state unaffected", "error", err)
	}
}
