package owon

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/neilo40/owon_remote/internal/scpi"
)

// SetChannel selects the channel that following commands apply to. ch is 1
// or 2.
func (g *Generator) SetChannel(ctx context.Context, ch int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	return g.Send(ctx, fmt.Sprintf(":CHANnel CH%d", ch))
}

// SetChannelOutput switches a channel's output on or off.
func (g *Generator) SetChannelOutput(ctx context.Context, ch int, on bool) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	return g.Send(ctx, fmt.Sprintf(":CHANnel:CH%d %s", ch, scpi.OnOff(on)))
}

func checkChannel(ch int) error {
	if ch != 1 && ch != 2 {
		return errors.Errorf("invalid channel %d (want 1 or 2)", ch)
	}
	return nil
}

func (g *Generator) SetFunction(ctx context.Context, f scpi.Function) error {
	return g.Send(ctx, fmt.Sprintf(":FUNCtion %s", f))
}

// Load is an output load setting: ON, OFF (high impedance) or a resistance
// in ohms.
type Load string

const (
	LoadOn Load = "ON"
	HighZ  Load = "OFF"
)

func Ohms(n int) Load {
	return Load(strconv.Itoa(n))
}

// ParseLoad accepts on/off style words or a whole number of ohms.
func ParseLoad(s string) (Load, error) {
	if on, err := scpi.ParseOnOff(s); err == nil {
		if on {
			return LoadOn, nil
		}
		return HighZ, nil
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGHZ", "HIGH-Z", "INF":
		return HighZ, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return "", errors.Errorf("invalid load %q (want on, off or ohms)", s)
	}
	return Ohms(n), nil
}

// SetLoad sets the output load for f. The generator echoes ON/OFF settings,
// so those are sent as queries.
func (g *Generator) SetLoad(ctx context.Context, f scpi.Function, load Load) error {
	cmd := fmt.Sprintf(":FUNCtion:%s:LOAD %s", f, load)
	if load == LoadOn || load == HighZ {
		return g.setAndDiscard(ctx, cmd)
	}
	return g.Send(ctx, cmd)
}

// setAndDiscard sends a setting the generator answers with its new value.
func (g *Generator) setAndDiscard(ctx context.Context, cmd string) error {
	_, err := g.Query(ctx, cmd)
	return err
}

func (g *Generator) setFunc(ctx context.Context, f scpi.Function, param string, v float64) error {
	return g.Send(ctx, fmt.Sprintf(":FUNCtion:%s:%s %s", f, param, scpi.FormatValue(v)))
}

func (g *Generator) setFuncEcho(ctx context.Context, f scpi.Function, param string, v float64) error {
	return g.setAndDiscard(ctx, fmt.Sprintf(":FUNCtion:%s:%s %s", f, param, scpi.FormatValue(v)))
}

// SetFrequency sets the frequency in Hz.
func (g *Generator) SetFrequency(ctx context.Context, f scpi.Function, hz float64) error {
	return g.setFuncEcho(ctx, f, "FREQuency", hz)
}

// SetPeriod sets the period in seconds.
func (g *Generator) SetPeriod(ctx context.Context, f scpi.Function, s float64) error {
	return g.setFuncEcho(ctx, f, "PERiod", s)
}

// SetAmplitude sets the amplitude in Vpp.
func (g *Generator) SetAmplitude(ctx context.Context, f scpi.Function, vpp float64) error {
	return g.setFunc(ctx, f, "AMPLitude", vpp)
}

// SetOffset sets the DC offset in volts.
func (g *Generator) SetOffset(ctx context.Context, f scpi.Function, v float64) error {
	return g.setFunc(ctx, f, "OFFset", v)
}

// SetHighLevel sets the high voltage level.
func (g *Generator) SetHighLevel(ctx context.Context, f scpi.Function, v float64) error {
	return g.setFunc(ctx, f, "HIGHt", v)
}

// SetLowLevel sets the low voltage level.
func (g *Generator) SetLowLevel(ctx context.Context, f scpi.Function, v float64) error {
	return g.setFunc(ctx, f, "LOW", v)
}

// SetDutyCycle sets the duty cycle in percent (square, pulse).
func (g *Generator) SetDutyCycle(ctx context.Context, f scpi.Function, pct float64) error {
	return g.setFunc(ctx, f, "DTYCycle", pct)
}

// SetSymmetry sets the symmetry in percent (ramp).
func (g *Generator) SetSymmetry(ctx context.Context, f scpi.Function, pct float64) error {
	return g.setFuncEcho(ctx, f, "SYMMetry", pct)
}

// SetPulseWidth sets the pulse width in seconds (pulse).
func (g *Generator) SetPulseWidth(ctx context.Context, f scpi.Function, s float64) error {
	return g.setFunc(ctx, f, "WIDTh", s)
}

// SetDCVoltage sets the level of the DC function.
func (g *Generator) SetDCVoltage(ctx context.Context, v float64) error {
	return g.setFunc(ctx, scpi.DC, "VOLTage", v)
}
