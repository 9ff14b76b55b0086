package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"probe-go/internal/helper"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// NewViper binds flags, environment variables (PREFIX_KEY) and an optional
// YAML config file. Explicit flags take precedence over the environment,
// which takes precedence over the file.
func NewViper(envPrefix string, flags *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, invalid("reading %s: %v", configFile, err)
		}
	}

	return v, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := helper.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, invalid("--%s: %v", key, err)
	}
	return d, nil
}

// LoadHostMonitor builds and validates the hostmon configuration.
func LoadHostMonitor(v *viper.Viper, target string) (*HostMonitor, error) {
	cfg := &HostMonitor{
		Target:  strings.TrimSpace(target),
		IPv4:    v.GetBool(KeyIPv4),
		Fuzzy:   v.GetInt(KeyFuzzy),
		Static:  v.GetBool(KeyStatic),
		Debug:   v.GetBool(KeyDebug),
		Count:   v.GetInt(KeyCount),
		Window:  v.GetInt(KeyWindow),
		TCPPort: v.GetInt(KeyTCPPort),
		Journal: v.GetString(KeyJournal),
	}

	timeout, err := duration(v, KeyTimeout)
	if err != nil {
		return nil, err
	}
	interval, err := duration(v, KeyInterval)
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout
	cfg.Interval = interval

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *HostMonitor) Validate() error {
	switch {
	case c.Target == "":
		return invalid("target host is required")
	case c.Timeout <= 0:
		return invalid("--timeout must be positive")
	case c.Interval < 0:
		return invalid("--interval must not be negative")
	case c.Fuzzy < 0:
		return invalid("--fuzzy must not be negative")
	case c.Count < 0:
		return invalid("--count must not be negative")
	case c.Window < 1:
		return invalid("--window must be at least 1")
	case c.TCPPort < 0 || c.TCPPort > 65535:
		return invalid("--tcp-port must be a valid port number")
	}
	return nil
}

// LoadPoller builds and validates the httpwait configuration.
func LoadPoller(v *viper.Viper, rawURL string) (*Poller, error) {
	cfg := &Poller{
		URL:          strings.TrimSpace(rawURL),
		Status:       v.GetInt(KeyStatus),
		Text:         v.GetString(KeyText),
		MaxAttempts:  v.GetInt(KeyMaxAttempts),
		MaxRedirects: v.GetInt(KeyMaxRedirects),
		Quiet:        v.GetBool(KeyQuiet),
		Debug:        v.GetBool(KeyDebug),
	}

	delay, err := duration(v, KeyDelay)
	if err != nil {
		return nil, err
	}
	timeout, err := duration(v, KeyTimeout)
	if err != nil {
		return nil, err
	}
	cfg.Delay = delay
	cfg.Timeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Poller) Validate() error {
	if err := validateURL(c.URL); err != nil {
		return err
	}

	switch {
	case c.Status < 100 || c.Status > 599:
		return invalid("--status must be between 100 and 599, got %d", c.Status)
	case c.Delay < 0:
		return invalid("--delay must not be negative")
	case c.MaxAttempts < 0:
		return invalid("--max-attempts must not be negative")
	case c.Timeout <= 0:
		return invalid("--timeout must be positive")
	case c.MaxRedirects < 0:
		return invalid("--max-redirects must not be negative")
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return invalid("URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return invalid("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("unsupported scheme %q (must be http or https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return invalid("invalid URL %q: host is required", raw)
	}
	return nil
}

// Dump renders the effective configuration as YAML, using the same keys the
// config file accepts.
func Dump(cfg any) ([]byte, error) {
	var doc map[string]any

	switch c := cfg.(type) {
	case *HostMonitor:
		doc = map[string]any{
			KeyIPv4:     c.IPv4,
			KeyTimeout:  c.Timeout.String(),
			KeyInterval: c.Interval.String(),
			KeyFuzzy:    c.Fuzzy,
			KeyStatic:   c.Static,
			KeyDebug:    c.Debug,
			KeyCount:    c.Count,
			KeyWindow:   c.Window,
			KeyTCPPort:  c.TCPPort,
			KeyJournal:  c.Journal,
		}
	case *Poller:
		doc = map[string]any{
			KeyStatus:       c.Status,
			KeyText:         c.Text,
			KeyDelay:        c.Delay.String(),
			KeyMaxAttempts:  c.MaxAttempts,
			KeyTimeout:      c.Timeout.String(),
			KeyMaxRedirects: c.MaxRedirects,
			KeyQuiet:        c.Quiet,
			KeyDebug:        c.Debug,
		}
	default:
		return nil, fmt.Errorf("unsupported configuration type %T", cfg)
	}

	return yaml.Marshal(doc)
}
