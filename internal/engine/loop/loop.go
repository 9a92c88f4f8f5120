// Package loop drives a fixed-period render tick alongside continuous event
// pumping on a single goroutine.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/logger"
)

// DefaultPollInterval is how often Pump runs between ticks.
const DefaultPollInterval = 5 * time.Millisecond

// ErrNoTick is returned by Run when the driver has no Tick function.
var ErrNoTick = errors.New("loop: no tick function")

// Driver calls Pump every PollInterval and Tick once per Period.
// Missed ticks are dropped rather than replayed.
type Driver struct {
	Period       time.Duration
	PollInterval time.Duration

	// Pump handles pending input and reports whether to stop. Optional.
	Pump func() bool
	// Tick renders one frame. An error stops the loop.
	Tick func() error

	frames uint64
}

// Run blocks until Pump asks to quit, Tick fails or ctx is done. Only a Tick
// failure is returned; quitting and cancellation are normal exits.
func (d *Driver) Run(ctx context.Context) error {
	if d.Tick == nil {
		return ErrNoTick
	}
	if d.Period <= 0 {
		return fmt.Errorf("loop: period must be positive, got %v", d.Period)
	}
	poll := d.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	tick := time.NewTicker(d.Period)
	defer tick.Stop()
	pump := time.NewTicker(poll)
	defer pump.Stop()

	logger.Info("starting render loop", zap.Duration("period", d.Period))

	fpsTimer := time.Now()
	var window uint64

	for {
		if d.Pump != nil && d.Pump() {
			logger.Info("render loop stopped", zap.Uint64("frames", d.frames))
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Info("render loop canceled", zap.Uint64("frames", d.frames))
			return nil
		case <-tick.C:
			if err := d.Tick(); err != nil {
				return fmt.Errorf("tick %d: %w", d.frames, err)
			}
			d.frames++
			window++
			if time.Since(fpsTimer) >= 5*time.Second {
				logger.Debug("frame rate", zap.Float64("fps", float64(window)/time.Since(fpsTimer).Seconds()))
				window = 0
				fpsTimer = time.Now()
			}
		case <-pump.C:
		}
	}
}

// Frames returns the number of completed ticks.
func (d *Driver) Frames() uint64 {
	return d.frames
}
