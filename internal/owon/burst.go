package owon

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/neilo40/owon_remote/internal/scpi"
)

func (g *Generator) setBurst(ctx context.Context, param, value string) error {
	return g.Send(ctx, fmt.Sprintf(":FUNCtion:BURSt:%s %s", param, value))
}

// SetBurstPeriod sets the burst period in seconds.
func (g *Generator) SetBurstPeriod(ctx context.Context, s float64) error {
	return g.setBurst(ctx, "PERiod", scpi.FormatValue(s))
}

// SetBurstPhase sets the start phase in degrees.
func (g *Generator) SetBurstPhase(ctx context.Context, deg float64) error {
	return g.setBurst(ctx, "PHASe", scpi.FormatValue(deg))
}

func (g *Generator) SetBurstMode(ctx context.Context, m scpi.BurstMode) error {
	return g.setBurst(ctx, "MODE", string(m))
}

// SetBurstCycles sets how many cycles an N-cycle burst emits.
func (g *Generator) SetBurstCycles(ctx context.Context, n int) error {
	if n < 1 {
		return errors.Errorf("invalid burst cycle count %d", n)
	}
	return g.setBurst(ctx, "NCYCle", strconv.Itoa(n))
}

// SetBurstCount switches between a counted and an endless burst.
func (g *Generator) SetBurstCount(ctx context.Context, c scpi.BurstCount) error {
	return g.setBurst(ctx, "INFinite", string(c))
}

func (g *Generator) SetBurstPolarity(ctx context.Context, p scpi.Polarity) error {
	return g.setBurst(ctx, "POLarity", string(p))
}

func (g *Generator) SetBurstSource(ctx context.Context, src scpi.Source) error {
	return g.setBurst(ctx, "SOURce", string(src))
}

// TriggerBurst fires one burst when the burst source is manual.
func (g *Generator) TriggerBurst(ctx context.Context) error {
	return g.setBurst(ctx, "TRIGger", "1")
}
