/* autoplay.go
 * Paces SimulateRound on a rate limiter until the series ends or the driver is stopped. Each step takes the
 * orchestrator lock, so stopping never cuts a round in half
 */

package game

import (
	"context"
	"major-sim/api/battle"

	"golang.org/x/time/rate"
)

type autoPlayer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartAutoPlay launches the driver for the current series
// Preconditions: Auto-play is enabled in the settings and a series is in progress
// Postconditions: Returns a channel closed when the driver exits, or nil if nothing was started
func (o *Orchestrator) StartAutoPlay() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.startAutoPlayLocked()
}

func (o *Orchestrator) startAutoPlayLocked() <-chan struct{} {
	o.stopAutoPlayLocked()
	if !o.settings.AutoPlayEnabled || !o.inProgress() {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	ap := &autoPlayer{cancel: cancel, done: make(chan struct{})}
	o.autoplay = ap

	limiter := rate.NewLimiter(rate.Every(o.settings.RoundDuration()), 1)
	go o.runAutoPlay(ctx, limiter, ap)
	return ap.done
}

func (o *Orchestrator) runAutoPlay(ctx context.Context, limiter *rate.Limiter, ap *autoPlayer) {
	defer close(ap.done)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if !o.autoStep(ctx, ap) {
			return
		}
	}
}

// autoStep plays one round. Returns false once the driver should exit
func (o *Orchestrator) autoStep(ctx context.Context, ap *autoPlayer) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ctx.Err() != nil || o.autoplay != ap {
		return false
	}
	if !o.settings.AutoPlayEnabled || !o.inProgress() {
		o.autoplay = nil
		return false
	}
	if o.battle.SimulateRound() == battle.SeriesFinished {
		o.autoplay = nil
		return false
	}
	return true
}

// StopAutoPlay cancels the driver. A round already being played finishes first
func (o *Orchestrator) StopAutoPlay() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopAutoPlayLocked()
}

func (o *Orchestrator) stopAutoPlayLocked() {
	if o.autoplay == nil {
		return
	}
	o.autoplay.cancel()
	o.autoplay = nil
}

// ToggleAutoPlay flips the setting and starts or stops the driver to match
// Postconditions: Returns the new setting and the driver's done channel when one was started
func (o *Orchestrator) ToggleAutoPlay() (bool, <-chan struct{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings.AutoPlayEnabled = !o.settings.AutoPlayEnabled
	if !o.settings.AutoPlayEnabled {
		o.stopAutoPlayLocked()
		return false, nil
	}
	return true, o.startAutoPlayLocked()
}

// AutoPlaying reports whether a driver is running
func (o *Orchestrator) AutoPlaying() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.autoplay != nil
}
