package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-milestone/internal/config"
	"github.com/tartampluch/go-milestone/internal/engine"
	"github.com/tartampluch/go-milestone/internal/metrics"
)

// Publisher receives each freshly encoded feed.
type Publisher interface {
	Update(data []byte)
}

// Syncer builds the contacts feed; *engine.Generator implements it.
type Syncer interface {
	RunSync(ctx context.Context, cfg engine.SyncConfig) (engine.SyncResult, error)
}

// Worker keeps the published contacts feed fresh. Milestone durations are
// relative to today, so the feed is rebuilt on every tick even when the
// address book did not change.
type Worker struct {
	Syncer    Syncer
	Config    engine.SyncConfig
	Interval  time.Duration
	Publisher Publisher
	Metrics   *metrics.Metrics
}

// Run syncs immediately, then on every Interval until ctx is cancelled.
// A zero Interval syncs once and waits for cancellation.
// Sync failures are logged and retried on the next tick; Run only returns
// when ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	w.SyncOnce(ctx)

	if w.Interval <= 0 {
		<-ctx.Done()
		log.Info(config.MsgWorkerStop)
		return nil
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, w.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return nil
		case <-ticker.C:
			w.SyncOnce(ctx)
		}
	}
}

// SyncOnce runs one sync and publishes the feed on success.
func (w *Worker) SyncOnce(ctx context.Context) bool {
	start := time.Now()
	res, err := w.Syncer.RunSync(ctx, w.Config)
	w.Metrics.ObserveSync(start, len(res.Contacts), err)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error(config.ErrSyncFailed,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err,
			)
		}
		return false
	}

	w.Publisher.Update(res.ICS)
	return true
}
