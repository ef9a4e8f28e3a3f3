// Package config resolves connection and logging settings from flags,
// OWON_* environment variables and an optional owon.yaml, in that order of
// precedence.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "OWON"

type Config struct {
	VID           uint16
	PID           uint16
	Config        int
	Interface     int
	Alt           int
	ReadEndpoint  int
	WriteEndpoint int
	ReadSize      int
	Timeout       time.Duration
	Reset         bool
	Debug         bool
	LogLevel      string
	// Resource is the VISA resource string, used by owon_visa only.
	Resource string
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("vid", "0x5345")
	v.SetDefault("pid", "0x1234")
	v.SetDefault("usb_config", 0)
	v.SetDefault("interface", 0)
	v.SetDefault("alt", 0)
	v.SetDefault("read_endpoint", "0x81")
	v.SetDefault("write_endpoint", "0x03")
	v.SetDefault("read_size", 1024)
	v.SetDefault("timeout", "0s")
	v.SetDefault("reset", true)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("resource", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags registers the connection flags on fs and binds them to v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("vid", "0x5345", "USB vendor ID")
	fs.String("pid", "0x1234", "USB product ID")
	fs.Int("usb-config", 0, "USB configuration number (0 keeps the active one)")
	fs.Int("interface", 0, "USB interface number")
	fs.Int("alt", 0, "USB interface alternate setting")
	fs.String("read-endpoint", "0x81", "bulk IN endpoint address")
	fs.String("write-endpoint", "0x03", "bulk OUT endpoint address")
	fs.Int("read-size", 1024, "reply buffer size in bytes")
	fs.Duration("timeout", 0, "per-transfer timeout (0 waits forever)")
	fs.Bool("reset", true, "reset the USB device before claiming it")
	fs.BoolP("debug", "d", false, "read after every setting and warn about unexpected output")
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.String("resource", "", "VISA resource string")

	binds := map[string]string{
		"vid":            "vid",
		"pid":            "pid",
		"usb_config":     "usb-config",
		"interface":      "interface",
		"alt":            "alt",
		"read_endpoint":  "read-endpoint",
		"write_endpoint": "write-endpoint",
		"read_size":      "read-size",
		"timeout":        "timeout",
		"reset":          "reset",
		"debug":          "debug",
		"log_level":      "log-level",
		"resource":       "resource",
	}
	for key, flag := range binds {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return errors.Wrapf(err, "bind flag %s", flag)
		}
	}
	return nil
}

// ReadFile loads path, or when path is empty the first owon.yaml found in
// the working directory or $HOME/.config/owon. A missing default file is
// not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return errors.Wrapf(v.ReadInConfig(), "read config %s", path)
	}
	v.SetConfigName("owon")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "owon"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "read config")
	}
	return nil
}

// Load resolves the settings in v.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Config:    v.GetInt("usb_config"),
		Interface: v.GetInt("interface"),
		Alt:       v.GetInt("alt"),
		ReadSize:  v.GetInt("read_size"),
		Timeout:   v.GetDuration("timeout"),
		Reset:     v.GetBool("reset"),
		Debug:     v.GetBool("debug"),
		LogLevel:  v.GetString("log_level"),
		Resource:  v.GetString("resource"),
	}
	var err error
	if c.VID, err = parseID(v, "vid"); err != nil {
		return c, err
	}
	if c.PID, err = parseID(v, "pid"); err != nil {
		return c, err
	}
	if c.ReadEndpoint, err = parseEndpoint(v, "read_endpoint"); err != nil {
		return c, err
	}
	if c.WriteEndpoint, err = parseEndpoint(v, "write_endpoint"); err != nil {
		return c, err
	}
	if c.ReadEndpoint&0x80 == 0 {
		return c, errors.Errorf("read_endpoint %#02x is not an IN endpoint", c.ReadEndpoint)
	}
	if c.WriteEndpoint&0x80 != 0 {
		return c, errors.Errorf("write_endpoint %#02x is not an OUT endpoint", c.WriteEndpoint)
	}
	if c.ReadSize <= 0 {
		return c, errors.Errorf("read_size must be positive, got %d", c.ReadSize)
	}
	if c.Timeout < 0 {
		return c, errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return c, nil
}

// parseID accepts hex with a 0x prefix or plain decimal.
func parseID(v *viper.Viper, key string) (uint16, error) {
	s := strings.TrimSpace(v.GetString(key))
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", key, s)
	}
	return uint16(n), nil
}

func parseEndpoint(v *viper.Viper, key string) (int, error) {
	s := strings.TrimSpace(v.GetString(key))
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", key, s)
	}
	return int(n), nil
}
