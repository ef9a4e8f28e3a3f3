package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilo40/owon_remote/internal/config"
	"github.com/neilo40/owon_remote/internal/owon"
)

const idn = "OWON,AG2052F,2029052,V2.3.0\n->\n"

type scriptConn struct {
	writes  []string
	replies []string
	closed  bool
}

func (c *scriptConn) Write(_ context.Context, p []byte) (int, error) {
	c.writes = append(c.writes, string(p))
	return len(p), nil
}

func (c *scriptConn) Read(_ context.Context, p []byte) (int, error) {
	if len(c.replies) == 0 {
		return 0, errors.New("timeout")
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return copy(p, r), nil
}

func (c *scriptConn) Close() error {
	c.closed = true
	return nil
}

type result struct {
	stdout, stderr string
	conn           *scriptConn
	opened         bool
	cfg            config.Config
	err            error
}

func run(t *testing.T, replies []string, args ...string) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	res := result{conn: &scriptConn{replies: replies}}
	open := func(_ context.Context, cfg config.Config, _ logrus.FieldLogger) (owon.Conn, error) {
		res.opened = true
		res.cfg = cfg
		return res.conn, nil
	}
	var stdout, stderr bytes.Buffer
	root := NewRootCommand("owon_test", open)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	res.err = root.ExecuteContext(context.Background())
	res.stdout, res.stderr = stdout.String(), stderr.String()
	return res
}

func lines(cmds ...string) []string {
	out := []string{"*IDN?\n"}
	for _, c := range cmds {
		out = append(out, c+"\n")
	}
	return out
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		replies []string
		want    []string
	}{
		{"reset", []string{"reset"}, nil, lines("*RST")},
		{"send", []string{"send", ":FUNCtion", "SINE"}, nil, lines(":FUNCtion SINE")},
		{"channel", []string{"channel", "2"}, nil, lines(":CHANnel CH2")},
		{"channel output", []string{"channel", "1", "off"}, nil, lines(":CHANnel:CH1 OFF")},
		{"function", []string{"function", "squ"}, nil, lines(":FUNCtion SQUare")},
		{"set frequency", []string{"set", "frequency", "square", "500000"}, []string{"500000\n"}, lines(":FUNCtion:SQUare:FREQuency 500000")},
		{"set offset", []string{"set", "offset", "SQUare", "0.2"}, nil, lines(":FUNCtion:SQUare:OFFset 0.2")},
		{"set duty", []string{"set", "DUTY", "pulse", "30"}, nil, lines(":FUNCtion:PULSe:DTYCycle 30")},
		{"set load high-z", []string{"set", "load", "square", "off"}, []string{"OFF\n"}, lines(":FUNCtion:SQUare:LOAD OFF")},
		{"set load ohms", []string{"set", "load", "sine", "50"}, nil, lines(":FUNCtion:SINE:LOAD 50")},
		{"dc", []string{"dc", "1.5"}, nil, lines(":FUNCtion:DC:VOLTage 1.5")},
		{"builtin", []string{"builtin", "12"}, nil, lines(":FUNCtion:ARB:BUILtinwform 12")},
		{"arbfile", []string{"arbfile", "x.bsv"}, nil, lines(":FUNCtion:ARB:FILE x.bsv")},
		{"sweep spacing", []string{"sweep", "spacing", "log"}, nil, lines(":FUNCtion:SWEep:SPACing LOGarithmic")},
		{"sweep centre", []string{"sweep", "centre", "310000"}, nil, lines(":FUNCtion:SWEep:CENTrefreq 310000")},
		{"sweep trigger", []string{"sweep", "trigger"}, nil, lines(":FUNCtion:SWEep:TRIGger 1")},
		{"burst cycles", []string{"burst", "cycles", "3"}, nil, lines(":FUNCtion:BURSt:NCYCle 3")},
		{"burst mode", []string{"burst", "mode", "gat"}, nil, lines(":FUNCtion:BURSt:MODE GATed")},
		{"burst trigger", []string{"burst", "trigger"}, nil, lines(":FUNCtion:BURSt:TRIGger 1")},
		{"mod shape", []string{"mod", "shape", "fm", "ramp"}, nil, lines(":FUNCtion:FM:SHAPe RAMP")},
		{"mod freq", []string{"mod", "freq", "am", "100"}, nil, lines(":FUNCtion:AM:FREQuency 100")},
		{"mod source", []string{"mod", "source", "fsk", "ext"}, nil, lines(":FUNCtion:FSK:SOURce EXTernal")},
		{"mod depth", []string{"mod", "depth", "80"}, nil, lines(":FUNCtion:AM:DEPTh 80")},
		{"mod width deviation", []string{"mod", "width-deviation", "0.0001"}, nil, lines(":FUNCtion:PWM:DEViation 0.0001")},
		{"counter coupling", []string{"counter", "coupling", "ac"}, nil, lines(":COUNter:COUPling AC")},
		{"counter hfr", []string{"counter", "hfr", "on"}, nil, lines(":COUNter:HFR ON")},
		{"counter level", []string{"counter", "level", "0.5"}, nil, lines(":COUNter:TRIGlev 0.5")},
		{"system clock", []string{"system", "clock", "int"}, nil, lines(":SYSTem:CLKSrc INTernal")},
		{"system language", []string{"system", "language", "engl"}, nil, lines(":SYSTem:LANGuage ENGLish")},
		{"file delete", []string{"file", "delete", "old.bsv"}, nil, lines(":FILE:DELete old.bsv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, append([]string{idn}, tt.replies...), tt.args...)
			require.NoError(t, res.err)
			assert.Equal(t, tt.want, res.conn.writes)
			assert.True(t, res.conn.closed)
		})
	}
}

func TestPrintingCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		replies []string
		want    string
	}{
		{"idn", []string{"idn"}, nil, "OWON,AG2052F,2029052,V2.3.0\n"},
		{"query", []string{"query", ":SYSTem:VERSion?"}, []string{"V2.3.0\n->\n"}, "V2.3.0\n"},
		{"query multi line", []string{"query", ":FILE:FILEname?"}, []string{"a\nb\n->\n"}, "a\nb\n"},
		{"builtin read", []string{"builtin"}, []string{"SINC\n"}, "SINC\n"},
		{"system version", []string{"system", "version"}, []string{"V2.3.0\n"}, "V2.3.0\n"},
		{"counter freq", []string{"counter", "freq"}, []string{"1.000kHz\n"}, "1.000kHz\n"},
		{"file list", []string{"file", "list"}, []string{"a.bsv\nb.bsv\n"}, "a.bsv\nb.bsv\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, append([]string{idn}, tt.replies...), tt.args...)
			require.NoError(t, res.err)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestWaveforms(t *testing.T) {
	replies := []string{idn}
	for i := 0; i < owon.BuiltinWaveformCount; i++ {
		replies = append(replies, fmt.Sprintf("W%d\n", i))
	}
	res := run(t, replies, "waveforms")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, " 0 W0\n")
	assert.Contains(t, res.stdout, "44 W44\n")
}

func TestInvalidInputDoesNotOpenDevice(t *testing.T) {
	tests := [][]string{
		{"channel", "3"},
		{"channel", "1", "maybe"},
		{"function", "triangle"},
		{"set", "bogus", "sine", "1"},
		{"set", "frequency", "sine", "fast"},
		{"set", "frequency", "triangle", "1"},
		{"set", "load", "sine", "-1"},
		{"sweep", "spacing", "cubic"},
		{"burst", "cycles", "0"},
		{"mod", "shape", "fm", "heart"},
		{"mod", "shape", "sine", "ramp"},
		{"mod", "freq", "fsk", "100"},
		{"mod", "source", "am", "manual"},
		{"mod", "source", "square", "int"},
		{"system", "clock", "manual"},
		{"dc", "lots"},
	}
	for _, args := range tests {
		res := run(t, []string{idn}, args...)
		assert.Error(t, res.err, "%v", args)
		assert.False(t, res.opened, "%v", args)
	}
}

func TestDebugFlag(t *testing.T) {
	res := run(t, []string{idn, "NULL\n"}, "--debug", "reset")
	require.NoError(t, res.err)
	assert.True(t, res.cfg.Debug)
	assert.Equal(t, lines("*RST"), res.conn.writes)
	assert.Empty(t, res.conn.replies, "debug mode reads after a setting")
	assert.Contains(t, res.stderr, "*RST")
	assert.NotContains(t, res.stderr, "unexpected output")
}

func TestDebugFlagWarnsOnUnexpectedOutput(t *testing.T) {
	res := run(t, []string{idn, "ERR\n"}, "-d", "function", "sine")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "unexpected output")
}

func TestOpenError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	open := func(context.Context, config.Config, logrus.FieldLogger) (owon.Conn, error) {
		return nil, errors.New("device not found")
	}
	root := NewRootCommand("owon_test", open)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"reset"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device not found")
}

func TestFlagsReachOpener(t *testing.T) {
	res := run(t, []string{idn}, "--pid", "0x4321", "--timeout", "3s", "reset")
	require.NoError(t, res.err)
	assert.Equal(t, uint16(0x4321), res.cfg.PID)
	assert.Equal(t, "3s", res.cfg.Timeout.String())
}

func TestBadLogLevel(t *testing.T) {
	res := run(t, []string{idn}, "--log-level", "loud", "reset")
	require.Error(t, res.err)
	assert.False(t, res.opened)
}

func TestDemo(t *testing.T) {
	res := run(t, []string{idn}, "demo", "--pause", "0s", "--stop", "310000")
	require.NoError(t, res.err)
	assert.Equal(t, lines(
		":FUNCtion SQUare",
		":FUNCtion SWEep",
		":FUNCtion:SQUare:OFFset 0",
		":FUNCtion:SQUare:AMPLitude 2",
		":FUNCtion:SWEep:CENTrefreq 300000",
	), res.conn.writes)
}
