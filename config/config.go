package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/asaskevich/govalidator"
)

func init() {
	govalidator.SetFieldsRequiredByDefault(false)
}

var DefaultLocation string = "./pdfink.conf" // Default location of the config file

// ConfigError reports a config file that could not be read or is invalid.
type ConfigError struct {
	File string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.File, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config is the root of the config
type Config struct {
	Editor Editor `toml:"editor"`
	Export Export `toml:"export"`
	Pad    Pad    `toml:"pad"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Editor configures placement limits and page display.
type Editor struct {
	MinWidth     float64 `toml:"min_width" valid:"range(1|10000)"`
	MinHeight    float64 `toml:"min_height" valid:"range(1|10000)"`
	DisplayWidth float64 `toml:"display_width" valid:"range(50|10000)"`
	LogLimit     int     `toml:"log_limit" valid:"range(1|100000)"`
}

// Export configures the written document.
type Export struct {
	Producer string `toml:"producer" valid:"required"`
	Filename string `toml:"filename" valid:"required,matches(^[^/\\\\]+\\.pdf$)"`
}

// Pad configures the drawing surface.
type Pad struct {
	Width    int     `toml:"width" valid:"range(10|4000)"`
	Height   int     `toml:"height" valid:"range(10|4000)"`
	PenWidth float64 `toml:"pen_width" valid:"range(0|50)"`
}

// Server configures the HTTP editor.
type Server struct {
	Addr         string   `toml:"addr" valid:"required,dialstring"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxUpload    int64    `toml:"max_upload" valid:"range(1024|1073741824)"`
}

// Log configures logging.
type Log struct {
	Level  string `toml:"level" valid:"in(trace|debug|info|warn|error)"`
	Format string `toml:"format" valid:"in(text|json)"`
}

// Duration is a time.Duration decoded from a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: Editor{MinWidth: 50, MinHeight: 25, DisplayWidth: 600, LogLimit: 256},
		Export: Export{Producer: "pdfink", Filename: "signed.pdf"},
		Pad:    Pad{Width: 500, Height: 200, PenWidth: 2.5},
		Server: Server{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxUpload:    64 << 20,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// ValidateFields validates all the fields of the config
func (c Config) ValidateFields() error {
	_, err := govalidator.ValidateStruct(c)
	if err != nil {
		return err
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		return errors.New("server: timeouts must not be negative")
	}
	if c.Pad.PenWidth <= 0 {
		return errors.New("pad: pen_width must be positive")
	}
	return nil
}

// Read decodes configfile on top of Default and validates the result.
func Read(configfile string) (Config, error) {
	if _, err := os.Stat(configfile); err != nil {
		return Config{}, &ConfigError{File: configfile, Err: err}
	}

	c := Default()
	if _, err := toml.DecodeFile(configfile, &c); err != nil {
		return Config{}, &ConfigError{File: configfile, Err: err}
	}

	if err := c.ValidateFields(); err != nil {
		return Config{}, &ConfigError{File: configfile, Err: err}
	}
	return c, nil
}

// Load reads configfile when it is set, falls back to DefaultLocation when
// that file exists, and otherwise returns Default.
func Load(configfile string) (Config, error) {
	if configfile != "" {
		return Read(configfile)
	}
	if _, err := os.Stat(DefaultLocation); err == nil {
		return Read(DefaultLocation)
	}
	return Default(), nil
}
