package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/neilo40/owon_remote/internal/cli"
	"github.com/neilo40/owon_remote/internal/config"
	"github.com/neilo40/owon_remote/internal/owon"
	"github.com/neilo40/owon_remote/internal/visa"
)

// Goes through an installed VISA library instead of libusb, e.g.
// owon_visa --resource "TCPIP::192.168.1.70::INSTR" idn

func open(_ context.Context, c config.Config, log logrus.FieldLogger) (owon.Conn, error) {
	if c.Resource == "" {
		return nil, errors.New("no VISA resource given (--resource or OWON_RESOURCE)")
	}
	s, err := visa.Open(c.Resource, c.ReadSize, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand("owon_visa", open).ExecuteContext(ctx); err != nil {
		stop()
		logrus.Fatal(err)
	}
}
