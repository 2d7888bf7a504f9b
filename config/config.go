// Package config loads the bridge's startup configuration: which input
// device to capture, which serial device drives the actuator, and the
// source/target screen geometry.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/touchbridge/touchbridge/actuator"
	"github.com/touchbridge/touchbridge/touch"
)

const DefaultListenAddr = "localhost:12000"

type Config struct {
	// InputDevice is the evdev touchscreen device path.
	InputDevice string `json:"inputDevice"`

	// SerialDevice and BaudRate locate the actuator controller.
	SerialDevice string `json:"serialDevice"`
	BaudRate     int    `json:"baudRate"`

	Geometry touch.ScreenGeometry `json:"geometry"`

	// ListenAddr is where the control server listens when enabled.
	ListenAddr string `json:"listenAddr"`
}

// Default returns the configuration for the reference hardware: an 800x480
// panel driving a 390x844 phone screen through a USB serial actuator.
func Default() Config {
	return Config{
		InputDevice:  "/dev/input/event4",
		SerialDevice: "/dev/ttyUSB0",
		BaudRate:     115200,
		Geometry: touch.ScreenGeometry{
			SourceWidth:  800,
			SourceHeight: 480,
			TargetWidth:  390,
			TargetHeight: 844,
		},
		ListenAddr: DefaultListenAddr,
	}
}

// Load reads an ini configuration file, filling unset keys from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	input := file.Section("input")
	cfg.InputDevice = input.Key("device").MustString(cfg.InputDevice)

	act := file.Section("actuator")
	cfg.SerialDevice = act.Key("device").MustString(cfg.SerialDevice)
	cfg.BaudRate = act.Key("baud").MustInt(cfg.BaudRate)

	screen := file.Section("screen")
	cfg.Geometry.SourceWidth = screen.Key("source_width").MustInt(cfg.Geometry.SourceWidth)
	cfg.Geometry.SourceHeight = screen.Key("source_height").MustInt(cfg.Geometry.SourceHeight)
	cfg.Geometry.TargetWidth = screen.Key("target_width").MustInt(cfg.Geometry.TargetWidth)
	cfg.Geometry.TargetHeight = screen.Key("target_height").MustInt(cfg.Geometry.TargetHeight)

	server := file.Section("server")
	cfg.ListenAddr = server.Key("listen").MustString(cfg.ListenAddr)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks everything that can be checked without touching hardware.
func (c Config) Validate() error {
	if c.InputDevice == "" {
		return fmt.Errorf("input device path is required")
	}
	if c.SerialDevice == "" {
		return fmt.Errorf("actuator serial device path is required")
	}

	supported := false
	for _, rate := range actuator.SupportedBaudRates() {
		if rate == c.BaudRate {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("baud rate %d not in %v", c.BaudRate, actuator.SupportedBaudRates())
	}

	return c.Geometry.Validate()
}
