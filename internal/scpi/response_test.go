package scpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Response
	}{
		{"empty", "", nil},
		{"single line", "1000\n", Response{"1000"}},
		{"no newline", "ON", Response{"ON"}},
		{"prompt", "ON\n->\n", Response{"ON"}},
		{"prompt without newline", "ON\n->", Response{"ON"}},
		{"multi line", "a\nb\n", Response{"a", "b"}},
		{"multi line with prompt", "a\nb\n->\n", Response{"a", "b"}},
		{"only newline", "\n", Response{""}},
		{"only prompt", "->\n", Response{}},
		{"blank line kept before prompt", "a\n\n->", Response{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseResponse([]byte(tt.input)))
		})
	}
}

func TestResponseString(t *testing.T) {
	assert.Equal(t, "ON", Response{"ON"}.String())
	assert.Equal(t, "a\nb", Response{"a", "b"}.String())
	assert.Equal(t, "", Response(nil).String())
	assert.True(t, Response(nil).Empty())
	assert.True(t, Response{""}.Empty())
	assert.False(t, Response{"NULL"}.Empty())
}

func TestParseIdentity(t *testing.T) {
	id := ParseIdentity("OWON,AG2052F,2029052,V2.3.0")
	assert.Equal(t, "OWON", id.Manufacturer)
	assert.Equal(t, "AG2052F", id.Model)
	assert.Equal(t, "2029052", id.Serial)
	assert.Equal(t, "V2.3.0", id.Firmware)
	assert.True(t, id.IsAG())
	assert.Equal(t, "OWON,AG2052F,2029052,V2.3.0", id.String())

	assert.False(t, ParseIdentity("OWON,XDG3202,1,1").IsAG())
	assert.False(t, ParseIdentity("RIGOL TECHNOLOGIES,DG1022Z,x,y").IsAG())

	short := ParseIdentity("OWON")
	assert.Equal(t, "OWON", short.Manufacturer)
	assert.Empty(t, short.Model)
	assert.False(t, short.IsAG())
}
