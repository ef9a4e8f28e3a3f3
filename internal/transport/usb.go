// Package transport moves raw command and reply bytes between the host and
// the generator over its two USB bulk endpoints.
//
// https://pkg.go.dev/github.com/google/gousb
// https://www.beyondlogic.org/usbnutshell/usb1.shtml
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Vendor and product ID reported by Owon AG-series generators.
const (
	OwonVID gousb.ID = 0x5345
	OwonPID gousb.ID = 0x1234
)

// Bulk endpoint addresses used by the AG series.
const (
	ReadEndpoint  = 0x81
	WriteEndpoint = 0x03
)

const DefaultReadSize = 1024

// USB standard request CLEAR_FEATURE with feature selector ENDPOINT_HALT.
const (
	requestClearFeature = 0x01
	featureEndpointHalt = 0x00
)

var ErrDeviceNotFound = errors.New("device not found")

type USBOptions struct {
	VID, PID gousb.ID
	// Config is the configuration number to select. 0 keeps the active
	// configuration.
	Config        int
	Interface     int
	Alt           int
	ReadEndpoint  int
	WriteEndpoint int
	ReadSize      int
	// Timeout bounds each transfer. 0 leaves it to libusb.
	Timeout time.Duration
	// Reset issues a USB port reset before the interface is claimed.
	Reset bool
	Log   logrus.FieldLogger
}

// DefaultUSBOptions matches an AG-series generator on its stock endpoints.
func DefaultUSBOptions() USBOptions {
	return USBOptions{
		VID:           OwonVID,
		PID:           OwonPID,
		ReadEndpoint:  ReadEndpoint,
		WriteEndpoint: WriteEndpoint,
		ReadSize:      DefaultReadSize,
		Reset:         true,
	}
}

// USB is an open generator on the USB bus with its interface claimed.
type USB struct {
	opts  USBOptions
	log   logrus.FieldLogger
	ctx   *gousb.Context
	dev   *gousb.Device
	cfg   *gousb.Config
	intf  *gousb.Interface
	epIn  *gousb.InEndpoint
	epOut *gousb.OutEndpoint
}

// OpenUSB finds the device, claims its interface and opens both bulk
// endpoints. Everything acquired is released again if a later step fails.
// may need to modprobe -r usbtmc if there are device busy errors
func OpenUSB(opts USBOptions) (_ *USB, err error) {
	if opts.ReadSize <= 0 {
		opts.ReadSize = DefaultReadSize
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	u := &USB{opts: opts, log: log, ctx: gousb.NewContext()}
	defer func() {
		if err != nil {
			u.Close()
		}
	}()

	u.dev, err = u.ctx.OpenDeviceWithVIDPID(opts.VID, opts.PID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open device %s:%s", opts.VID, opts.PID)
	}
	if u.dev == nil {
		return nil, errors.Wrapf(ErrDeviceNotFound, "%s:%s", opts.VID, opts.PID)
	}
	log.WithField("device", u.dev.String()).Debug("opened device")

	if opts.Reset {
		if err = u.dev.Reset(); err != nil {
			return nil, errors.Wrapf(err, "%s.Reset()", u.dev)
		}
	}
	if err = u.dev.SetAutoDetach(true); err != nil {
		return nil, errors.Wrapf(err, "%s.SetAutoDetach(true)", u.dev)
	}

	cfgNum := opts.Config
	if cfgNum == 0 {
		if cfgNum, err = u.dev.ActiveConfigNum(); err != nil {
			return nil, errors.Wrapf(err, "%s.ActiveConfigNum()", u.dev)
		}
	}
	if u.cfg, err = u.dev.Config(cfgNum); err != nil {
		return nil, errors.Wrapf(err, "%s.Config(%d)", u.dev, cfgNum)
	}
	if u.intf, err = u.cfg.Interface(opts.Interface, opts.Alt); err != nil {
		return nil, errors.Wrapf(err, "%s.Interface(%d, %d)", u.cfg, opts.Interface, opts.Alt)
	}

	if err = u.clearHalt(opts.ReadEndpoint); err != nil {
		return nil, err
	}
	if err = u.clearHalt(opts.WriteEndpoint); err != nil {
		return nil, err
	}

	if u.epOut, err = u.intf.OutEndpoint(endpointNumber(opts.WriteEndpoint)); err != nil {
		return nil, errors.Wrapf(err, "%s.OutEndpoint(%d)", u.intf, endpointNumber(opts.WriteEndpoint))
	}
	if u.epIn, err = u.intf.InEndpoint(endpointNumber(opts.ReadEndpoint)); err != nil {
		return nil, errors.Wrapf(err, "%s.InEndpoint(%d)", u.intf, endpointNumber(opts.ReadEndpoint))
	}
	log.WithFields(logrus.Fields{
		"interface": u.intf.String(),
		"in":        fmt.Sprintf("%#02x", opts.ReadEndpoint),
		"out":       fmt.Sprintf("%#02x", opts.WriteEndpoint),
	}).Debug("claimed interface")
	return u, nil
}

func endpointNumber(addr int) int {
	return addr & 0x0f
}

func (u *USB) clearHalt(addr int) error {
	_, err := u.dev.Control(
		gousb.ControlOut|gousb.ControlStandard|gousb.ControlEndpoint,
		requestClearFeature, featureEndpointHalt, uint16(addr), nil)
	if err != nil {
		return errors.Wrapf(err, "clear halt on endpoint %#02x", addr)
	}
	return nil
}

func (u *USB) transferContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.opts.Timeout > 0 {
		return context.WithTimeout(ctx, u.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// Write sends p to the OUT endpoint. A short write is an error.
func (u *USB) Write(ctx context.Context, p []byte) (int, error) {
	ctx, cancel := u.transferContext(ctx)
	defer cancel()
	n, err := u.epOut.WriteContext(ctx, p)
	if err != nil {
		return n, errors.Wrapf(err, "%s.Write([%d])", u.epOut, len(p))
	}
	if n != len(p) {
		return n, errors.Errorf("%s.Write([%d]): only %d bytes written", u.epOut, len(p), n)
	}
	u.log.WithField("bytes", n).Trace("wrote to endpoint")
	return n, nil
}

// Read clears any halt on the IN endpoint and reads one reply of at most
// ReadSize bytes into p.
func (u *USB) Read(ctx context.Context, p []byte) (int, error) {
	if err := u.clearHalt(u.opts.ReadEndpoint); err != nil {
		return 0, err
	}
	if len(p) > u.opts.ReadSize {
		p = p[:u.opts.ReadSize]
	}
	ctx, cancel := u.transferContext(ctx)
	defer cancel()
	// n might be greater than zero even if err is not nil.
	n, err := u.epIn.ReadContext(ctx, p)
	if err != nil {
		return n, errors.Wrapf(err, "%s.Read()", u.epIn)
	}
	u.log.WithField("bytes", n).Trace("read from endpoint")
	return n, nil
}

// Close releases the interface, configuration, device and context. It is
// safe to call on a partially opened USB.
func (u *USB) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if u.intf != nil {
		u.intf.Close()
		u.intf = nil
	}
	if u.cfg != nil {
		keep(u.cfg.Close())
		u.cfg = nil
	}
	if u.dev != nil {
		keep(u.dev.Close())
		u.dev = nil
	}
	if u.ctx != nil {
		keep(u.ctx.Close())
		u.ctx = nil
	}
	return first
}
