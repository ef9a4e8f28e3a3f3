// Package owon drives an Owon AG-series arbitrary waveform generator with its
// SCPI-like command set. Every command is one line of ASCII; some settings
// echo their new value, which is read back and discarded.
package owon

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/neilo40/owon_remote/internal/scpi"
)

const defaultReadSize = 1024

// Conn carries raw bytes to and from the generator. transport.USB and
// visa.Session both satisfy it.
type Conn interface {
	Write(ctx context.Context, p []byte) (int, error)
	Read(ctx context.Context, p []byte) (int, error)
	Close() error
}

type Options struct {
	// Debug reads after every non-query command and warns about anything the
	// generator says other than NULL.
	Debug bool
	// DebugReadTimeout bounds the read Debug performs, since a silent
	// generator would otherwise block it forever.
	DebugReadTimeout time.Duration
	// ReadSize is the reply buffer size. Defaults to 1024.
	ReadSize int
	// SkipIdentify suppresses the *IDN? check in New.
	SkipIdentify bool
	Log          logrus.FieldLogger
}

// Generator is a connected AG-series generator.
type Generator struct {
	conn     Conn
	opts     Options
	log      logrus.FieldLogger
	buf      []byte
	identity scpi.Identity
}

// New wraps conn and, unless told otherwise, asks the device who it is. A
// device that does not identify as an Owon AG only produces a warning.
func New(ctx context.Context, conn Conn, opts Options) (*Generator, error) {
	if opts.ReadSize <= 0 {
		opts.ReadSize = defaultReadSize
	}
	if opts.DebugReadTimeout <= 0 {
		opts.DebugReadTimeout = time.Second
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	g := &Generator{
		conn: conn,
		opts: opts,
		log:  log,
		buf:  make([]byte, opts.ReadSize),
	}
	if opts.SkipIdentify {
		return g, nil
	}
	id, err := g.Identify(ctx)
	if err != nil {
		return nil, err
	}
	if !id.IsAG() {
		g.log.WithField("identity", id.Raw).Warn("may not be Owon AG")
	}
	return g, nil
}

// Identify queries *IDN? and remembers the answer.
func (g *Generator) Identify(ctx context.Context) (scpi.Identity, error) {
	resp, err := g.Query(ctx, "*IDN?")
	if err != nil {
		return scpi.Identity{}, errors.Wrap(err, "identify")
	}
	g.identity = scpi.ParseIdentity(resp.String())
	g.log.WithField("identity", g.identity.Raw).Debug("identified generator")
	return g.identity, nil
}

// Identity returns the last *IDN? answer.
func (g *Generator) Identity() scpi.Identity {
	return g.identity
}

func (g *Generator) Close() error {
	return g.conn.Close()
}

// Send writes one command line.
func (g *Generator) Send(ctx context.Context, cmd string) error {
	if err := g.write(ctx, cmd); err != nil {
		return err
	}
	if g.opts.Debug {
		g.checkQuiet(ctx, cmd)
	}
	return nil
}

// Query writes cmd and returns the reply.
func (g *Generator) Query(ctx context.Context, cmd string) (scpi.Response, error) {
	if err := g.write(ctx, cmd); err != nil {
		return nil, err
	}
	return g.Read(ctx)
}

// Read returns the next reply from the generator.
func (g *Generator) Read(ctx context.Context) (scpi.Response, error) {
	n, err := g.conn.Read(ctx, g.buf)
	if err != nil {
		return nil, errors.Wrap(err, "read reply")
	}
	resp := scpi.ParseResponse(g.buf[:n])
	g.log.WithField("reply", resp.String()).Debug("<")
	return resp, nil
}

func (g *Generator) write(ctx context.Context, cmd string) error {
	g.log.WithField("cmd", cmd).Debug(">")
	if _, err := g.conn.Write(ctx, []byte(cmd+"\n")); err != nil {
		return errors.Wrapf(err, "send %q", cmd)
	}
	return nil
}

// checkQuiet reads whatever the generator produced after a setting command.
// Read errors, timeouts included, mean it stayed quiet.
func (g *Generator) checkQuiet(ctx context.Context, cmd string) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.DebugReadTimeout)
	defer cancel()
	resp, err := g.Read(ctx)
	if err != nil {
		return
	}
	if !resp.Empty() && resp.String() != scpi.Null {
		g.log.WithFields(logrus.Fields{
			"cmd":    cmd,
			"output": resp.String(),
		}).Warn("unexpected output")
	}
}

// Reset restores factory settings.
func (g *Generator) Reset(ctx context.Context) error {
	return g.Send(ctx, "*RST")
}
