package owon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/neilo40/owon_remote/internal/scpi"
)

var (
	shapedModulations  = []scpi.Function{scpi.AM, scpi.FM, scpi.PM, scpi.PWM}
	sourcedModulations = []scpi.Function{scpi.AM, scpi.FM, scpi.PM, scpi.FSK, scpi.PWM}
)

func checkModulation(f scpi.Function, allowed []scpi.Function, param string) error {
	for _, a := range allowed {
		if f == a {
			return nil
		}
	}
	return errors.Errorf("%s has no %s setting", f, param)
}

// CheckModulationShape reports whether f takes a modulating shape and
// frequency (AM, FM, PM and PWM do).
func CheckModulationShape(f scpi.Function) error {
	return checkModulation(f, shapedModulations, "shape")
}

// CheckModulationSource reports whether f can be driven from src. FSK joins
// the shaped modulations here; a manual source is never valid.
func CheckModulationSource(f scpi.Function, src scpi.Source) error {
	if err := checkModulation(f, sourcedModulations, "source"); err != nil {
		return err
	}
	if src == scpi.Manual {
		return errors.Errorf("%s source cannot be %s", f, src)
	}
	return nil
}

func (g *Generator) setMod(ctx context.Context, f scpi.Function, param, value string) error {
	return g.Send(ctx, fmt.Sprintf(":FUNCtion:%s:%s %s", f, param, value))
}

// SetModulationShape sets the modulating waveform of AM, FM, PM or PWM.
func (g *Generator) SetModulationShape(ctx context.Context, f scpi.Function, s scpi.Shape) error {
	if err := CheckModulationShape(f); err != nil {
		return err
	}
	return g.setMod(ctx, f, "SHAPe", string(s))
}

// SetModulationFrequency sets the modulating frequency of AM, FM, PM or PWM
// in Hz. The carrier frequency is set with SetFrequency.
func (g *Generator) SetModulationFrequency(ctx context.Context, f scpi.Function, hz float64) error {
	if err := checkModulation(f, shapedModulations, "modulating frequency"); err != nil {
		return err
	}
	return g.setMod(ctx, f, "FREQuency", scpi.FormatValue(hz))
}

// SetModulationSource selects an internal or external modulating signal.
func (g *Generator) SetModulationSource(ctx context.Context, f scpi.Function, src scpi.Source) error {
	if err := CheckModulationSource(f, src); err != nil {
		return err
	}
	return g.setMod(ctx, f, "SOURce", string(src))
}

// SetAMDepth sets the AM depth in percent.
func (g *Generator) SetAMDepth(ctx context.Context, pct float64) error {
	return g.setMod(ctx, scpi.AM, "DEPTh", scpi.FormatValue(pct))
}

// SetFMDeviation sets the FM frequency deviation in Hz.
func (g *Generator) SetFMDeviation(ctx context.Context, hz float64) error {
	return g.setMod(ctx, scpi.FM, "DEViation", scpi.FormatValue(hz))
}

// SetPMPhase sets the PM phase deviation in degrees.
func (g *Generator) SetPMPhase(ctx context.Context, deg float64) error {
	return g.setMod(ctx, scpi.PM, "PHASe", scpi.FormatValue(deg))
}

// SetFSKRate sets the FSK hop rate in Hz.
func (g *Generator) SetFSKRate(ctx context.Context, hz float64) error {
	return g.setMod(ctx, scpi.FSK, "RATE", scpi.FormatValue(hz))
}

// SetFSKHopFreq sets the FSK hop frequency in Hz.
func (g *Generator) SetFSKHopFreq(ctx context.Context, hz float64) error {
	return g.setMod(ctx, scpi.FSK, "HOPFreq", scpi.FormatValue(hz))
}

// SetPWMDeviation sets the PWM width deviation in seconds.
func (g *Generator) SetPWMDeviation(ctx context.Context, s float64) error {
	return g.setMod(ctx, scpi.PWM, "DEViation", scpi.FormatValue(s))
}
