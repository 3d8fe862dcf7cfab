// Package config holds the halfprec service settings and their YAML form.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport formats for batches forwarded upstream.
const (
	TransportFP16 = "fp16"
	TransportFP32 = "fp32"
)

// Config is the service configuration. Zero values are never valid; start
// from Default.
type Config struct {
	Listen          string        `yaml:"listen"`
	Flight          string        `yaml:"flight"`
	Upstream        string        `yaml:"upstream"`
	Dataset         string        `yaml:"dataset"`
	TransportFmt    string        `yaml:"transport_fmt"`
	MaxConcurrent   int           `yaml:"max_concurrent"`
	MaxBody         string        `yaml:"max_body"`
	CacheSize       int           `yaml:"cache_size"`
	BreakerFailures int           `yaml:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"`
	LogLevel        string        `yaml:"log_level"`
	OTel            bool          `yaml:"otel"`
	Lang            string        `yaml:"lang"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dataset:         "halfprec_dataset",
		TransportFmt:    TransportFP16,
		MaxConcurrent:   1 << 20,
		MaxBody:         "64MB",
		CacheSize:       1024,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
		LogLevel:        "info",
		Lang:            "en",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.TransportFmt {
	case TransportFP16, TransportFP32:
	default:
		return fmt.Errorf("config: unknown transport format %q", c.TransportFmt)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("config: max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.BreakerFailures <= 0 {
		return fmt.Errorf("config: breaker_failures must be positive, got %d", c.BreakerFailures)
	}
	if _, err := ParseBytes(c.MaxBody); err != nil {
		return fmt.Errorf("config: max_body: %w", err)
	}
	return nil
}

// MaxBodyBytes returns MaxBody in bytes.
func (c Config) MaxBodyBytes() int64 {
	n, _ := ParseBytes(c.MaxBody)
	return n
}

// ParseBytes parses sizes such as 4GB, 512MB, 64K or 1024. Units are powers
// of 1024.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	digits := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	unit := ""
	if digits >= 0 {
		s, unit = s[:digits], strings.ToUpper(strings.TrimSpace(s[digits:]))
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s+unit, err)
	}

	switch unit {
	case "GB", "G":
		return val << 30, nil
	case "MB", "M":
		return val << 20, nil
	case "KB", "K":
		return val << 10, nil
	case "", "B":
		return val, nil
	default:
		return 0, fmt.Errorf("invalid size unit %q", unit)
	}
}
