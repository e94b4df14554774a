package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper is the part of the assessment service the sweeper drives.
type Sweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// ExpirySweeper periodically finalizes attempts that ran out of time. It only
// closes attempts earlier than the next read would; correctness never depends on it.
type ExpirySweeper struct {
	sweeper  Sweeper
	interval time.Duration
	clock    func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExpirySweeper(sweeper Sweeper, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{sweeper: sweeper, interval: interval, clock: time.Now}
}

// RunOnce performs a single sweep and returns the number of attempts finalized.
func (w *ExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	count, err := w.sweeper.SweepExpired(ctx, w.clock())
	if err != nil {
		log.Error().Err(err).Msg("Expiry sweep failed")
		return count, err
	}
	if count > 0 {
		log.Info().Int("finalized", count).Msg("Expiry sweep finalized attempts")
	}
	return count, nil
}

// Start launches the sweep loop. A non-positive interval disables it.
func (w *ExpirySweeper) Start() {
	if w.interval <= 0 {
		log.Warn().Msg("EXPIRY_SWEEP_INTERVAL is not positive. Background sweep disabled.")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		log.Info().Dur("interval", w.interval).Msg("Expiry sweeper started")
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = w.RunOnce(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight sweep to return.
func (w *ExpirySweeper) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info().Msg("Expiry sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
