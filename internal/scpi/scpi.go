// Package scpi holds the keyword tokens, value formatting and response
// parsing used by the Owon AG command set.
//
// Keywords are stored in SCPI long form: the upper-case prefix is the short
// form the instrument also accepts ("SQUare" may be sent as "SQU").
package scpi

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Function is a generator function token as used in :FUNCtion commands.
type Function string

const (
	Sine   Function = "SINE"
	Square Function = "SQUare"
	Ramp   Function = "RAMP"
	Pulse  Function = "PULSe"
	Noise  Function = "NOISe"
	Arb    Function = "ARB"
	DC     Function = "DC"
	AM     Function = "AM"
	FM     Function = "FM"
	PM     Function = "PM"
	FSK    Function = "FSK"
	PWM    Function = "PWM"
	Sweep  Function = "SWEep"
	Burst  Function = "BURSt"
)

// Functions lists every function token in front-panel order.
var Functions = []Function{
	Sine, Square, Ramp, Pulse, Noise, Arb, DC,
	AM, FM, PM, FSK, PWM, Sweep, Burst,
}

// ParseFunction resolves a user supplied function name, in long or short
// form and any case, to its token.
func ParseFunction(s string) (Function, error) {
	return Parse("function", s, Functions)
}

// Short returns the short form of a keyword, e.g. "SQU" for "SQUare".
func Short(keyword string) string {
	for i, r := range keyword {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return keyword[:i]
		}
	}
	return keyword
}

// Matches reports whether s spells keyword in long or short form, ignoring
// case.
func Matches(keyword, s string) bool {
	return strings.EqualFold(s, keyword) || strings.EqualFold(s, Short(keyword))
}

// Parse picks the choice that s spells. kind names the choice set in the
// returned error.
func Parse[T ~string](kind, s string, choices []T) (T, error) {
	s = strings.TrimSpace(s)
	for _, c := range choices {
		if Matches(string(c), s) {
			return c, nil
		}
	}
	var zero T
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = string(c)
	}
	return zero, errors.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

// FormatValue renders a numeric parameter the way the instrument expects it:
// plain decimal, shortest exact form, never exponent notation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OnOff renders a boolean parameter.
func OnOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// ParseOnOff accepts ON/OFF, 1/0 and the usual boolean spellings.
func ParseOnOff(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON", "1", "TRUE", "YES":
		return true, nil
	case "OFF", "0", "FALSE", "NO":
		return false, nil
	}
	return false, errors.Errorf("invalid on/off value %q", s)
}
