package main

import (
	"testing"
	"time"

	"github.com/google/gousb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/neilo40/owon_remote/internal/config"
	"github.com/neilo40/owon_remote/internal/transport"
)

func TestUSBOptions(t *testing.T) {
	log := logrus.New()
	o := usbOptions(config.Config{
		VID:           0x5345,
		PID:           0x1234,
		Interface:     1,
		ReadEndpoint:  0x82,
		WriteEndpoint: 0x02,
		ReadSize:      512,
		Timeout:       time.Second,
		Reset:         false,
	}, log)

	assert.Equal(t, gousb.ID(0x5345), o.VID)
	assert.Equal(t, gousb.ID(0x1234), o.PID)
	assert.Equal(t, 1, o.Interface)
	assert.Equal(t, 0x82, o.ReadEndpoint)
	assert.Equal(t, 0x02, o.WriteEndpoint)
	assert.Equal(t, 512, o.ReadSize)
	assert.Equal(t, time.Second, o.Timeout)
	assert.False(t, o.Reset)
	assert.Same(t, log, o.Log)
}

func TestUSBOptionsKeepsDefaults(t *testing.T) {
	o := usbOptions(config.Config{Reset: true}, nil)
	d := transport.DefaultUSBOptions()

	assert.Equal(t, d.VID, o.VID)
	assert.Equal(t, d.PID, o.PID)
	assert.Equal(t, transport.ReadEndpoint, o.ReadEndpoint)
	assert.Equal(t, transport.WriteEndpoint, o.WriteEndpoint)
	assert.Equal(t, transport.DefaultReadSize, o.ReadSize)
	assert.True(t, o.Reset)
}
