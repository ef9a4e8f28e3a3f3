package owon

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/neilo40/owon_remote/internal/scpi"
)

// SweepDemo steps a sweep's centre frequency while moving the square
// carrier's offset up and its amplitude down at each step.
type SweepDemo struct {
	StartHz, StopHz, StepHz float64
	// OffsetStep is added to the offset, and taken off Amplitude, per step.
	OffsetStep float64
	Amplitude  float64
	Pause      time.Duration
}

func DefaultSweepDemo() SweepDemo {
	return SweepDemo{
		StartHz:    300000,
		StopHz:     330000,
		StepHz:     10000,
		OffsetStep: 0.1,
		Amplitude:  2,
		Pause:      50 * time.Millisecond,
	}
}

// RunSweepDemo selects the square function, switches to sweep mode and
// walks the centre frequency from StartHz up to, but not including, StopHz.
func (g *Generator) RunSweepDemo(ctx context.Context, d SweepDemo) error {
	if d.StepHz <= 0 {
		return errors.Errorf("invalid sweep step %v", d.StepHz)
	}
	if err := g.SetFunction(ctx, scpi.Square); err != nil {
		return err
	}
	if err := g.SetFunction(ctx, scpi.Sweep); err != nil {
		return err
	}
	for i := 0; ; i++ {
		hz := d.StartHz + float64(i)*d.StepHz
		if hz >= d.StopHz {
			return nil
		}
		off := float64(i) * d.OffsetStep
		g.log.WithField("centre_hz", hz).WithField("offset", off).Info("sweep step")
		if err := g.SetOffset(ctx, scpi.Square, off); err != nil {
			return err
		}
		if err := g.SetAmplitude(ctx, scpi.Square, d.Amplitude-off); err != nil {
			return err
		}
		if err := g.SetSweepCentreFreq(ctx, hz); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.Pause):
		}
	}
}
