package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/google/gousb"
	"github.com/sirupsen/logrus"

	"github.com/neilo40/owon_remote/internal/cli"
	"github.com/neilo40/owon_remote/internal/config"
	"github.com/neilo40/owon_remote/internal/owon"
	"github.com/neilo40/owon_remote/internal/transport"
)

// Talks to the generator directly over its bulk endpoints with libusb.
// requires permissions on the device node, e.g. a udev rule for 5345:1234

func open(_ context.Context, c config.Config, log logrus.FieldLogger) (owon.Conn, error) {
	u, err := transport.OpenUSB(usbOptions(c, log))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// usbOptions overlays c on the stock AG-series options. Zero IDs, endpoints
// and read size keep the defaults.
func usbOptions(c config.Config, log logrus.FieldLogger) transport.USBOptions {
	o := transport.DefaultUSBOptions()
	if c.VID != 0 {
		o.VID = gousb.ID(c.VID)
	}
	if c.PID != 0 {
		o.PID = gousb.ID(c.PID)
	}
	if c.ReadEndpoint != 0 {
		o.ReadEndpoint = c.ReadEndpoint
	}
	if c.WriteEndpoint != 0 {
		o.WriteEndpoint = c.WriteEndpoint
	}
	if c.ReadSize > 0 {
		o.ReadSize = c.ReadSize
	}
	o.Config = c.Config
	o.Interface = c.Interface
	o.Alt = c.Alt
	o.Timeout = c.Timeout
	o.Reset = c.Reset
	o.Log = log
	return o
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand("owon_usb", open).ExecuteContext(ctx); err != nil {
		stop()
		logrus.Fatal(err)
	}
}
