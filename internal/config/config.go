// Package config loads daemon defaults from the environment and an optional
// env file. Command-line flags in cmd/altimeter override these values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read if present in the working directory.
const DefaultEnvFile = "altimeter.env"

// Config holds the daemon settings.
type Config struct {
	Broker    string        `env:"ALTIMETER_BROKER"    envDefault:"tcp://localhost:1883"`
	ClientID  string        `env:"ALTIMETER_CLIENT_ID" envDefault:"altimeter"`
	HTTPAddr  string        `env:"ALTIMETER_HTTP"      envDefault:":8080"`
	Heartbeat time.Duration `env:"ALTIMETER_HEARTBEAT" envDefault:"15m"`

	I2CBus       string        `env:"ALTIMETER_I2C_BUS"`
	I2CAddr      uint16        `env:"ALTIMETER_I2C_ADDR"      envDefault:"118"` // 0x76
	SampleEvery  time.Duration `env:"ALTIMETER_SAMPLE"        envDefault:"250ms"`
	Oversampling int           `env:"ALTIMETER_OVERSAMPLING"  envDefault:"16"`

	Buttons  bool          `env:"ALTIMETER_BUTTONS"  envDefault:"true"`
	PinDown  int           `env:"ALTIMETER_PIN_DOWN" envDefault:"23"`
	PinUp    int           `env:"ALTIMETER_PIN_UP"   envDefault:"24"`
	Poll     time.Duration `env:"ALTIMETER_POLL"     envDefault:"20ms"`
	Debounce time.Duration `env:"ALTIMETER_DEBOUNCE" envDefault:"50ms"`

	NetworkEnvFile string `env:"ALTIMETER_NETWORK_ENV" envDefault:"/run/pi-helper.env"`
}

// Load reads envFile into the process environment (variables already set
// win; a missing file is not an error) and parses Config from it.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NetworkInfo is the network state written by pi-helper.
type NetworkInfo struct {
	Type       string `env:"NETWORK_TYPE"`
	IP         string `env:"NETWORK_IP"`
	Status     string `env:"NETWORK_STATUS"`
	Gateway    string `env:"NETWORK_GATEWAY"`
	WifiStatus string `env:"NETWORK_WIFI_STATUS"`
	SSID       string `env:"NETWORK_WIFI_SSID"`
}

// ReadNetworkInfo parses NETWORK_* variables from path, falling back to the
// process environment when the file cannot be read. Returns nil when no
// NETWORK_STATUS is known.
func ReadNetworkInfo(path string) *NetworkInfo {
	opts := env.Options{}
	if path != "" {
		if vars, err := godotenv.Read(path); err == nil {
			opts.Environment = vars
		}
	}

	var info NetworkInfo
	if err := env.ParseWithOptions(&info, opts); err != nil {
		return nil
	}
	if info.Status == "" {
		return nil
	}
	return &info
}
