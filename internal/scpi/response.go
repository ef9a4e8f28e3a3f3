package scpi

import "strings"

// Prompt is the sentinel the generator appends after some replies.
const Prompt = "->"

// Null is what the generator answers to a setting command that has nothing
// to report.
const Null = "NULL"

// Response is a reply split into lines.
type Response []string

// ParseResponse decodes raw reply bytes. The reply is split on '\n', then a
// trailing empty line and a trailing "->" prompt line are dropped, in that
// order.
func ParseResponse(b []byte) Response {
	if len(b) == 0 {
		return nil
	}
	lines := strings.Split(string(b), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && lines[len(lines)-1] == Prompt {
		lines = lines[:len(lines)-1]
	}
	return Response(lines)
}

// String returns the single reply line, or all lines joined by '\n'.
func (r Response) String() string {
	if len(r) == 1 {
		return r[0]
	}
	return strings.Join(r, "\n")
}

// Empty reports whether the reply carried no content.
func (r Response) Empty() bool {
	return len(r) == 0 || (len(r) == 1 && r[0] == "")
}

// Identity is a parsed *IDN? reply.
type Identity struct {
	Manufacturer string
	Model        string
	Serial       string
	Firmware     string
	Raw          string
}

// ParseIdentity splits a *IDN? reply on commas. Missing fields stay empty.
func ParseIdentity(s string) Identity {
	id := Identity{Raw: s}
	parts := strings.Split(s, ",")
	fields := []*string{&id.Manufacturer, &id.Model, &id.Serial, &id.Firmware}
	for i, f := range fields {
		if i < len(parts) {
			*f = strings.TrimSpace(parts[i])
		}
	}
	return id
}

// IsAG reports whether the identity belongs to an Owon AG-series generator.
func (id Identity) IsAG() bool {
	return id.Manufacturer == "OWON" && strings.HasPrefix(id.Model, "AG")
}

func (id Identity) String() string {
	return id.Raw
}
