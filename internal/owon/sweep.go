package owon

import (
	"context"
	"fmt"

	"github.com/neilo40/owon_remote/internal/scpi"
)

func (g *Generator) setSweep(ctx context.Context, param, value string) error {
	return g.Send(ctx, fmt.Sprintf(":FUNCtion:SWEep:%s %s", param, value))
}

// SetSweepTime sets the sweep time in seconds.
func (g *Generator) SetSweepTime(ctx context.Context, s float64) error {
	return g.setSweep(ctx, "SWEeptime", scpi.FormatValue(s))
}

func (g *Generator) SetSweepSpacing(ctx context.Context, sp scpi.Spacing) error {
	return g.setSweep(ctx, "SPACing", string(sp))
}

func (g *Generator) SetSweepStartFreq(ctx context.Context, hz float64) error {
	return g.setSweep(ctx, "STARtfreq", scpi.FormatValue(hz))
}

func (g *Generator) SetSweepStopFreq(ctx context.Context, hz float64) error {
	return g.setSweep(ctx, "STOPfreq", scpi.FormatValue(hz))
}

func (g *Generator) SetSweepCentreFreq(ctx context.Context, hz float64) error {
	return g.setSweep(ctx, "CENTrefreq", scpi.FormatValue(hz))
}

func (g *Generator) SetSweepSpan(ctx context.Context, hz float64) error {
	return g.setSweep(ctx, "SPAN", scpi.FormatValue(hz))
}

func (g *Generator) SetSweepSource(ctx context.Context, src scpi.Source) error {
	return g.setSweep(ctx, "SOURce", string(src))
}

// TriggerSweep starts one sweep when the sweep source is manual.
func (g *Generator) TriggerSweep(ctx context.Context) error {
	return g.setSweep(ctx, "TRIGger", "1")
}
