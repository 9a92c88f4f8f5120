package loop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunStopsOnPump(t *testing.T) {
	pumps := 0
	ticks := 0
	d := &Driver{
		Period:       time.Millisecond,
		PollInterval: time.Millisecond,
		Pump: func() bool {
			pumps++
			return ticks >= 3
		},
		Tick: func() error {
			ticks++
			return nil
		},
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ticks != 3 || d.Frames() != 3 {
		t.Errorf("ticks = %d, frames = %d, want 3", ticks, d.Frames())
	}
	if pumps < ticks {
		t.Errorf("pump ran %d times for %d ticks", pumps, ticks)
	}
}

func TestRunStopsOnTickError(t *testing.T) {
	boom := errors.New("boom")
	d := &Driver{
		Period: time.Millisecond,
		Tick:   func() error { return boom },
	}

	if err := d.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if d.Frames() != 0 {
		t.Errorf("failed tick counted as a frame")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Driver{
		Period: time.Millisecond,
		Tick: func() error {
			cancel()
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPumpRunsBetweenTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pumps := 0
	d := &Driver{
		Period:       time.Hour,
		PollInterval: time.Millisecond,
		Pump: func() bool {
			pumps++
			return pumps == 5
		},
		Tick: func() error { return nil },
	}

	if err := d.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if pumps != 5 || d.Frames() != 0 {
		t.Errorf("pumps = %d, frames = %d", pumps, d.Frames())
	}
}

func TestRunValidation(t *testing.T) {
	if err := (&Driver{Period: time.Second}).Run(context.Background()); !errors.Is(err, ErrNoTick) {
		t.Errorf("missing tick error = %v", err)
	}
	d := &Driver{Tick: func() error { return nil }}
	if err := d.Run(context.Background()); err == nil {
		t.Error("expected error for zero period")
	}
}
