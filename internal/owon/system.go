package owon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/neilo40/owon_remote/internal/scpi"
)

// Version returns the firmware version string.
func (g *Generator) Version(ctx context.Context) (string, error) {
	return g.queryString(ctx, ":SYSTem:VERSion?")
}

// SetClockSource selects the internal or external 10 MHz reference.
func (g *Generator) SetClockSource(ctx context.Context, src scpi.Source) error {
	if src == scpi.Manual {
		return errors.Errorf("clock source cannot be %s", src)
	}
	return g.Send(ctx, ":SYSTem:CLKSrc "+string(src))
}

func (g *Generator) SetLanguage(ctx context.Context, l scpi.Language) error {
	return g.Send(ctx, ":SYSTem:LANGuage "+string(l))
}

// CounterFrequency reads the frequency counter. The reply is returned as the
// generator formats it, units included.
func (g *Generator) CounterFrequency(ctx context.Context) (string, error) {
	return g.queryString(ctx, ":COUNter:FREQuency?")
}

// CounterDutyCycle reads the measured duty cycle.
func (g *Generator) CounterDutyCycle(ctx context.Context) (string, error) {
	return g.queryString(ctx, ":COUNter:DTYCycle?")
}

func (g *Generator) SetCounterCoupling(ctx context.Context, c scpi.Coupling) error {
	return g.Send(ctx, ":COUNter:COUPling "+string(c))
}

func (g *Generator) SetCounterSensitivity(ctx context.Context, s scpi.Sensitivity) error {
	return g.Send(ctx, ":COUNter:SENSitivity "+string(s))
}

// SetCounterHFR switches the counter's high frequency rejection.
func (g *Generator) SetCounterHFR(ctx context.Context, on bool) error {
	return g.Send(ctx, ":COUNter:HFR "+scpi.OnOff(on))
}

// SetCounterTriggerLevel sets the counter trigger level in volts.
func (g *Generator) SetCounterTriggerLevel(ctx context.Context, v float64) error {
	return g.Send(ctx, fmt.Sprintf(":COUNter:TRIGlev %s", scpi.FormatValue(v)))
}

func (g *Generator) queryString(ctx context.Context, cmd string) (string, error) {
	resp, err := g.Query(ctx, cmd)
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

// FileNames lists the files stored on the generator.
func (g *Generator) FileNames(ctx context.Context) ([]string, error) {
	resp, err := g.Query(ctx, ":FILE:FILEname?")
	if err != nil {
		return nil, err
	}
	return []string(resp), nil
}

func (g *Generator) DeleteFile(ctx context.Context, name string) error {
	return g.Send(ctx, ":FILE:DELete "+name)
}
