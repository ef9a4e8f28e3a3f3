package owon

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

// BuiltinWaveformCount is the number of built-in arbitrary waveforms on the
// AG series, addressed by index 0..44.
const BuiltinWaveformCount = 45

// SetBuiltinWaveform selects a built-in arbitrary waveform by name or index.
func (g *Generator) SetBuiltinWaveform(ctx context.Context, nameOrIndex string) error {
	return g.Send(ctx, ":FUNCtion:ARB:BUILtinwform "+nameOrIndex)
}

// BuiltinWaveform returns the name of the selected built-in waveform.
func (g *Generator) BuiltinWaveform(ctx context.Context) (string, error) {
	return g.queryString(ctx, ":FUNCtion:ARB:BUILtinwform?")
}

// BuiltinWaveforms selects every built-in waveform in turn and returns
// their names by index. The last one stays selected.
func (g *Generator) BuiltinWaveforms(ctx context.Context) ([]string, error) {
	names := make([]string, 0, BuiltinWaveformCount)
	for i := 0; i < BuiltinWaveformCount; i++ {
		if err := g.SetBuiltinWaveform(ctx, strconv.Itoa(i)); err != nil {
			return names, err
		}
		name, err := g.BuiltinWaveform(ctx)
		if err != nil {
			return names, errors.Wrapf(err, "waveform %d", i)
		}
		names = append(names, name)
	}
	return names, nil
}

// SetArbFile plays an arbitrary waveform file stored on the generator.
func (g *Generator) SetArbFile(ctx context.Context, name string) error {
	return g.Send(ctx, ":FUNCtion:ARB:FILE "+name)
}
