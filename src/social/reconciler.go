package social

import (
	"context"
	"time"

	"github.com/theleywin/feed-backend/src/lib"
)

// Reconciler runs Service.Reconcile on a fixed interval.
type Reconciler struct {
	svc      *Service
	interval time.Duration
	quit     chan struct{}
	doneCh   chan struct{}
}

func NewReconciler(svc *Service, interval time.Duration) *Reconciler {
	return &Reconciler{
		svc:      svc,
		interval: interval,
		quit:     make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the reconciler in a background goroutine.
func (r *Reconciler) Start(ctx context.Context) {
	go r.run(ctx)
}

// Stop signals the reconciler to stop and returns immediately.
// Call Done() to wait for it to exit.
func (r *Reconciler) Stop() {
	close(r.quit)
}

// Done returns a channel that is closed when the reconciler has fully stopped.
func (r *Reconciler) Done() <-chan struct{} {
	return r.doneCh
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.doneCh)

	interval := r.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.svc.Reconcile(ctx); err != nil {
				l := lib.L()
				l.Error().Err(err).Msg("reconciler: pass failed")
			}
		}
	}
}
