// Package cli builds the command tree shared by the owon_usb and owon_visa
// binaries. The binaries differ only in how they open the connection.
package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neilo40/owon_remote/internal/config"
	"github.com/neilo40/owon_remote/internal/owon"
)

// Opener connects to the generator described by cfg.
type Opener func(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (owon.Conn, error)

type app struct {
	open    Opener
	v       *viper.Viper
	cfg     config.Config
	cfgFile string
	log     *logrus.Logger
}

// NewRootCommand returns the command tree for a binary called name.
func NewRootCommand(name string, open Opener) *cobra.Command {
	a := &app{open: open, v: config.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:   name,
		Short: "Control an Owon AG-series arbitrary waveform generator",
		Long: `Sends SCPI commands to an Owon AG-series arbitrary waveform generator.

Settings come from flags, OWON_* environment variables and owon.yaml (in the
working directory or $HOME/.config/owon), in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./owon.yaml or $HOME/.config/owon/owon.yaml)")
	// Flag names are fixed and unique, so binding cannot fail.
	_ = config.BindFlags(root.PersistentFlags(), a.v)

	root.AddCommand(
		a.idnCommand(),
		a.resetCommand(),
		a.sendCommand(),
		a.queryCommand(),
		a.channelCommand(),
		a.functionCommand(),
		a.setCommand(),
		a.dcCommand(),
		a.builtinCommand(),
		a.waveformsCommand(),
		a.arbFileCommand(),
		a.sweepCommand(),
		a.burstCommand(),
		a.modCommand(),
		a.counterCommand(),
		a.systemCommand(),
		a.fileCommand(),
		a.demoCommand(),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return configureLogger(a.log, stderr, cfg)
}

func configureLogger(log *logrus.Logger, out io.Writer, cfg config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	if cfg.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

// with opens the generator, runs fn and closes the connection again.
func (a *app) with(cmd *cobra.Command, fn func(ctx context.Context, g *owon.Generator) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := a.open(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	g, err := owon.New(ctx, conn, owon.Options{
		Debug:    a.cfg.Debug,
		ReadSize: a.cfg.ReadSize,
		Log:      a.log,
	})
	if err != nil {
		conn.Close()
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			a.log.WithError(err).Warn("close")
		}
	}()
	return fn(ctx, g)
}

func parseFloat(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", what, s)
	}
	return v, nil
}
