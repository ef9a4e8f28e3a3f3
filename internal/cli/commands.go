package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neilo40/owon_remote/internal/owon"
	"github.com/neilo40/owon_remote/internal/scpi"
)

type setter func(g *owon.Generator, ctx context.Context, f scpi.Function, v float64) error

var functionSetters = map[string]setter{
	"frequency": (*owon.Generator).SetFrequency,
	"period":    (*owon.Generator).SetPeriod,
	"amplitude": (*owon.Generator).SetAmplitude,
	"offset":    (*owon.Generator).SetOffset,
	"high":      (*owon.Generator).SetHighLevel,
	"low":       (*owon.Generator).SetLowLevel,
	"duty":      (*owon.Generator).SetDutyCycle,
	"symmetry":  (*owon.Generator).SetSymmetry,
	"width":     (*owon.Generator).SetPulseWidth,
}

func setterNames() []string {
	names := []string{"load"}
	for n := range functionSetters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a *app) floatCommand(use, short, what string, set func(g *owon.Generator, ctx context.Context, v float64) error) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <%s>", use, what),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloat(args[0], what)
			if err != nil {
				return err
			}
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return set(g, ctx, v)
			})
		},
	}
}

func enumCommand[T ~string](a *app, use, short, kind string, choices []T, set func(g *owon.Generator, ctx context.Context, v T) error) *cobra.Command {
	valid := make([]string, len(choices))
	for i, c := range choices {
		valid[i] = strings.ToLower(string(c))
	}
	return &cobra.Command{
		Use:       fmt.Sprintf("%s <%s>", use, strings.Join(valid, "|")),
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := scpi.Parse(kind, args[0], choices)
			if err != nil {
				return err
			}
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return set(g, ctx, v)
			})
		},
	}
}

func (a *app) printCommand(use, short string, get func(g *owon.Generator, ctx context.Context) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				s, err := get(g, ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func (a *app) idnCommand() *cobra.Command {
	return a.printCommand("idn", "Print the *IDN? identity", func(g *owon.Generator, _ context.Context) (string, error) {
		return g.Identity().Raw, nil
	})
}

func (a *app) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore factory settings (*RST)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.Reset(ctx)
			})
		},
	}
}

func (a *app) sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <command...>",
		Short: "Send a raw command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.Send(ctx, line)
			})
		},
	}
}

func (a *app) queryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query <command...>",
		Short: "Send a raw command line and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				resp, err := g.Query(ctx, line)
				if err != nil {
					return err
				}
				for _, l := range resp {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			})
		},
	}
}

func (a *app) channelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "channel <1|2> [on|off]",
		Short: "Select a channel, or switch its output on or off",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := strconv.Atoi(args[0])
			if err != nil || (ch != 1 && ch != 2) {
				return errors.Errorf("invalid channel %q (want 1 or 2)", args[0])
			}
			if len(args) == 1 {
				return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
					return g.SetChannel(ctx, ch)
				})
			}
			on, err := scpi.ParseOnOff(args[1])
			if err != nil {
				return err
			}
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.SetChannelOutput(ctx, ch, on)
			})
		},
	}
}

func (a *app) functionCommand() *cobra.Command {
	return enumCommand(a, "function", "Select the output function", "function", scpi.Functions,
		(*owon.Generator).SetFunction)
}

func (a *app) setCommand() *cobra.Command {
	names := setterNames()
	return &cobra.Command{
		Use:   fmt.Sprintf("set <%s> <function> <value>", strings.Join(names, "|")),
		Short: "Change a parameter of a function",
		Long: `Change a parameter of a function. Units: frequency Hz, period s,
amplitude Vpp, offset/high/low V, duty and symmetry %, width s. Load takes
on, off (high impedance) or a resistance in ohms.`,
		Example:   "  set frequency square 500000\n  set load sine 50",
		Args:      cobra.ExactArgs(3),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := scpi.ParseFunction(args[1])
			if err != nil {
				return err
			}
			param := strings.ToLower(args[0])
			if param == "load" {
				load, err := owon.ParseLoad(args[2])
				if err != nil {
					return err
				}
				return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
					return g.SetLoad(ctx, f, load)
				})
			}
			set, ok := functionSetters[param]
			if !ok {
				return errors.Errorf("unknown parameter %q (want one of %s)", args[0], strings.Join(names, ", "))
			}
			v, err := parseFloat(args[2], param)
			if err != nil {
				return err
			}
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return set(g, ctx, f, v)
			})
		},
	}
}

func (a *app) dcCommand() *cobra.Command {
	return a.floatCommand("dc", "Set the DC function level", "volts",
		(*owon.Generator).SetDCVoltage)
}

func (a *app) builtinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "builtin [name|index]",
		Short: "Select a built-in arbitrary waveform, or print the selected one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				if len(args) == 1 {
					return g.SetBuiltinWaveform(ctx, args[0])
				}
				name, err := g.BuiltinWaveform(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}

func (a *app) waveformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "waveforms",
		Short: "List the built-in arbitrary waveforms (selects each in turn)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				names, err := g.BuiltinWaveforms(ctx)
				for i, n := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "%2d %s\n", i, n)
				}
				return err
			})
		},
	}
}

func (a *app) arbFileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "arbfile <name>",
		Short: "Play an arbitrary waveform file stored on the generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.SetArbFile(ctx, args[0])
			})
		},
	}
}

func (a *app) triggerCommand(short string, fire func(g *owon.Generator, ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return fire(g, ctx)
			})
		},
	}
}

func (a *app) sweepCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "sweep", Short: "Sweep settings"}
	cmd.AddCommand(
		a.floatCommand("time", "Set the sweep time", "seconds", (*owon.Generator).SetSweepTime),
		enumCommand(a, "spacing", "Set linear or logarithmic spacing", "spacing", scpi.Spacings,
			(*owon.Generator).SetSweepSpacing),
		a.floatCommand("start", "Set the start frequency", "hz", (*owon.Generator).SetSweepStartFreq),
		a.floatCommand("stop", "Set the stop frequency", "hz", (*owon.Generator).SetSweepStopFreq),
		a.floatCommand("centre", "Set the centre frequency", "hz", (*owon.Generator).SetSweepCentreFreq),
		a.floatCommand("span", "Set the frequency span", "hz", (*owon.Generator).SetSweepSpan),
		enumCommand(a, "source", "Set the sweep trigger source", "source", scpi.Sources,
			(*owon.Generator).SetSweepSource),
		a.triggerCommand("Start one sweep", (*owon.Generator).TriggerSweep),
	)
	return cmd
}

func (a *app) burstCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "burst", Short: "Burst settings"}
	cycles := &cobra.Command{
		Use:   "cycles <n>",
		Short: "Set the number of cycles per burst",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return errors.Errorf("invalid cycle count %q", args[0])
			}
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.SetBurstCycles(ctx, n)
			})
		},
	}
	cmd.AddCommand(
		a.floatCommand("period", "Set the burst period", "seconds", (*owon.Generator).SetBurstPeriod),
		a.floatCommand("phase", "Set the start phase", "degrees", (*owon.Generator).SetBurstPhase),
		enumCommand(a, "mode", "Set N-cycle or gated mode", "burst mode", scpi.BurstModes,
			(*owon.Generator).SetBurstMode),
		cycles,
		enumCommand(a, "count", "Set a counted or endless burst", "burst count", scpi.BurstCounts,
			(*owon.Generator).SetBurstCount),
		enumCommand(a, "polarity", "Set the gate or trigger polarity", "polarity", scpi.Polarities,
			(*owon.Generator).SetBurstPolarity),
		enumCommand(a, "source", "Set the burst trigger source", "source", scpi.Sources,
			(*owon.Generator).SetBurstSource),
		a.triggerCommand("Fire one burst", (*owon.Generator).TriggerBurst),
	)
	return cmd
}

func (a *app) modCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "mod", Short: "Modulation settings (AM, FM, PM, FSK, PWM)"}

	// perFunction parses and checks its arguments before the device is
	// opened; prepare returns the action to run once it is.
	perFunction := func(use, short, what string, prepare func(f scpi.Function, arg string) (func(ctx context.Context, g *owon.Generator) error, error)) *cobra.Command {
		return &cobra.Command{
			Use:   fmt.Sprintf("%s <am|fm|pm|fsk|pwm> <%s>", use, what),
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := scpi.ParseFunction(args[0])
				if err != nil {
					return err
				}
				run, err := prepare(f, args[1])
				if err != nil {
					return err
				}
				return a.with(cmd, run)
			},
		}
	}

	cmd.AddCommand(
		perFunction("shape", "Set the modulating waveform", "shape",
			func(f scpi.Function, arg string) (func(ctx context.Context, g *owon.Generator) error, error) {
				if err := owon.CheckModulationShape(f); err != nil {
					return nil, err
				}
				s, err := scpi.Parse("shape", arg, scpi.Shapes)
				if err != nil {
					return nil, err
				}
				return func(ctx context.Context, g *owon.Generator) error {
					return g.SetModulationShape(ctx, f, s)
				}, nil
			}),
		perFunction("freq", "Set the modulating frequency", "hz",
			func(f scpi.Function, arg string) (func(ctx context.Context, g *owon.Generator) error, error) {
				if err := owon.CheckModulationShape(f); err != nil {
					return nil, err
				}
				v, err := parseFloat(arg, "frequency")
				if err != nil {
					return nil, err
				}
				return func(ctx context.Context, g *owon.Generator) error {
					return g.SetModulationFrequency(ctx, f, v)
				}, nil
			}),
		perFunction("source", "Set an internal or external modulating source", "internal|external",
			func(f scpi.Function, arg string) (func(ctx context.Context, g *owon.Generator) error, error) {
				s, err := scpi.Parse("source", arg, scpi.Sources)
				if err != nil {
					return nil, err
				}
				if err := owon.CheckModulationSource(f, s); err != nil {
					return nil, err
				}
				return func(ctx context.Context, g *owon.Generator) error {
					return g.SetModulationSource(ctx, f, s)
				}, nil
			}),
		a.floatCommand("depth", "Set the AM depth", "percent", (*owon.Generator).SetAMDepth),
		a.floatCommand("deviation", "Set the FM frequency deviation", "hz", (*owon.Generator).SetFMDeviation),
		a.floatCommand("phase", "Set the PM phase deviation", "degrees", (*owon.Generator).SetPMPhase),
		a.floatCommand("rate", "Set the FSK rate", "hz", (*owon.Generator).SetFSKRate),
		a.floatCommand("hop", "Set the FSK hop frequency", "hz", (*owon.Generator).SetFSKHopFreq),
		a.floatCommand("width-deviation", "Set the PWM width deviation", "seconds", (*owon.Generator).SetPWMDeviation),
	)
	return cmd
}

func (a *app) counterCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "counter", Short: "Frequency counter"}
	hfr := &cobra.Command{
		Use:   "hfr <on|off>",
		Short: "Switch high frequency rejection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := scpi.ParseOnOff(args[0])
			if err != nil {
				return err
			}
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.SetCounterHFR(ctx, on)
			})
		},
	}
	cmd.AddCommand(
		a.printCommand("freq", "Read the measured frequency", (*owon.Generator).CounterFrequency),
		a.printCommand("duty", "Read the measured duty cycle", (*owon.Generator).CounterDutyCycle),
		enumCommand(a, "coupling", "Set the input coupling", "coupling", scpi.Couplings,
			(*owon.Generator).SetCounterCoupling),
		enumCommand(a, "sensitivity", "Set the input sensitivity", "sensitivity", scpi.Sensitivities,
			(*owon.Generator).SetCounterSensitivity),
		hfr,
		a.floatCommand("level", "Set the trigger level", "volts", (*owon.Generator).SetCounterTriggerLevel),
	)
	return cmd
}

func (a *app) systemCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "system", Short: "System settings"}
	cmd.AddCommand(
		a.printCommand("version", "Print the firmware version", (*owon.Generator).Version),
		enumCommand(a, "clock", "Select the reference clock", "clock source",
			[]scpi.Source{scpi.Internal, scpi.External}, (*owon.Generator).SetClockSource),
		enumCommand(a, "language", "Set the front panel language", "language", scpi.Languages,
			(*owon.Generator).SetLanguage),
	)
	return cmd
}

func (a *app) fileCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "file", Short: "Files stored on the generator"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				names, err := g.FileNames(ctx)
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.DeleteFile(ctx, args[0])
			})
		},
	}
	cmd.AddCommand(list, del)
	return cmd
}

func (a *app) demoCommand() *cobra.Command {
	d := owon.DefaultSweepDemo()
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Step a square-wave sweep's centre frequency, offset and amplitude",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, g *owon.Generator) error {
				return g.RunSweepDemo(ctx, d)
			})
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&d.StartHz, "start", d.StartHz, "first centre frequency in Hz")
	fs.Float64Var(&d.StopHz, "stop", d.StopHz, "centre frequency to stop before, in Hz")
	fs.Float64Var(&d.StepHz, "step", d.StepHz, "centre frequency step in Hz")
	fs.Float64Var(&d.OffsetStep, "offset-step", d.OffsetStep, "offset added per step in V")
	fs.Float64Var(&d.Amplitude, "amplitude", d.Amplitude, "starting amplitude in Vpp")
	fs.DurationVar(&d.Pause, "pause", d.Pause, "pause between steps")
	return cmd
}
