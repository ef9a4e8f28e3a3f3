package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultUSBOptions(t *testing.T) {
	o := DefaultUSBOptions()
	assert.Equal(t, "5345", o.VID.String())
	assert.Equal(t, "1234", o.PID.String())
	assert.Equal(t, 0x81, o.ReadEndpoint)
	assert.Equal(t, 0x03, o.WriteEndpoint)
	assert.Equal(t, 1024, o.ReadSize)
	assert.True(t, o.Reset)
}

func TestEndpointNumber(t *testing.T) {
	assert.Equal(t, 1, endpointNumber(ReadEndpoint))
	assert.Equal(t, 3, endpointNumber(WriteEndpoint))
	assert.Equal(t, 2, endpointNumber(0x82))
}
