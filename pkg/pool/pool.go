// Package pool runs a fixed number of workers over a pre-loaded work
// queue. Workers drain the queue until empty and then terminate; the pool
// call blocks until every worker has joined. An error escaping a worker
// cancels the sibling workers and aborts the run; item-local failures
// must be handled inside the work function.
package pool

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"wallpaper-scraper/pkg/queue"
)

// Run spawns exactly workers goroutines, each looping TryPop until the
// queue is empty, processing one item per iteration via fn. Blocks until
// all workers terminate. The first error returned by fn cancels the
// derived context observed by the remaining workers and is returned.
func Run[T any](ctx context.Context, workers int, q *queue.WorkQueue[T], log *logrus.Entry, fn func(ctx context.Context, item T) error) error {
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i <= workers; i++ {
		workerLog := log.WithField("worker_id", i)
		g.Go(func() error {
			workerLog.Debug("Worker starting")
			defer workerLog.Debug("Worker finished")

			for {
				select {
				case <-gctx.Done():
					workerLog.Warnf("Worker stopping: %v", gctx.Err())
					return gctx.Err()
				default:
				}

				item, ok := q.TryPop()
				if !ok {
					// Queue pre-loaded and now empty: terminal, not a race.
					return nil
				}
				if err := fn(gctx, item); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
