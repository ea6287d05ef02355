// Package reconcile replays card changes that were written locally but not
// confirmed by the issuing platform.
//
// Every status or limits update writes a CardSyncIntent in the same
// transaction as the local change. The request path applies it right away;
// intents still pending (process died mid-request) or failed (platform
// error) are picked up here. Only the newest intent per card and kind is
// replayed, older ones are marked superseded so a stale patch never
// overwrites a newer one.
package reconcile

import (
	"context"
	"log"
	"time"

	"cardhub/internal/issuing"
	"cardhub/internal/repositories"
)

// Default configuration values
const (
	DefaultInterval    = time.Minute
	DefaultMaxAttempts = 5
	DefaultBatchSize   = 100
	// DefaultGracePeriod keeps the reconciler away from intents that an
	// in-flight request is still applying.
	DefaultGracePeriod = 30 * time.Second
)

type Config struct {
	Interval    time.Duration
	MaxAttempts int
	BatchSize   int
	GracePeriod time.Duration
}

// Result summarizes one reconciliation pass.
type Result struct {
	Applied    int
	Failed     int
	Superseded int
}

type Reconciler struct {
	intents  repositories.CardSyncIntentRepository
	platform issuing.Platform
	config   Config
	now      func() time.Time
}

func NewReconciler(intents repositories.CardSyncIntentRepository, platform issuing.Platform, config Config) *Reconciler {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.GracePeriod <= 0 {
		config.GracePeriod = DefaultGracePeriod
	}
	return &Reconciler{
		intents:  intents,
		platform: platform,
		config:   config,
		now:      time.Now,
	}
}

// Run reconciles once immediately and then on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			log.Printf("⚠️ Card reconciliation failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce replays one batch of outstanding intents.
func (r *Reconciler) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	cutoff := r.now().Add(-r.config.GracePeriod)
	intents, err := r.intents.FindReplayable(ctx, cutoff, r.config.MaxAttempts, r.config.BatchSize)
	if err != nil {
		return res, err
	}

	for _, intent := range intents {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		stale, err := r.intents.MarkSupersededIfStale(ctx, intent)
		if err != nil {
			return res, err
		}
		if stale {
			res.Superseded++
			continue
		}

		if err := r.platform.UpdateCard(ctx, intent.CardID, intent.Patch, intent.ReplayKey()); err != nil {
			res.Failed++
			log.Printf("⚠️ Replay of %s intent %s for card %s failed (attempt %d): %v",
				intent.Kind, intent.ID, intent.CardID, intent.Attempts+1, err)
			if err := r.intents.MarkFailed(ctx, intent.ID, err); err != nil {
				return res, err
			}
			continue
		}

		if err := r.intents.MarkApplied(ctx, intent.ID); err != nil {
			return res, err
		}
		res.Applied++
	}

	if len(intents) > 0 {
		log.Printf("Card reconciliation: applied=%d failed=%d superseded=%d", res.Applied, res.Failed, res.Superseded)
	}
	return res, nil
}
