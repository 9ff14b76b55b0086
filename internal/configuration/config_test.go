package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func hostFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("hostmon", pflag.ContinueOnError)
	RegisterHostMonitorFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func pollerFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("httpwait", pflag.ContinueOnError)
	RegisterPollerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadHostMonitorDefaults(t *testing.T) {
	v, err := NewViper(HostMonitorEnvPrefix, hostFlags(t), "")
	require.NoError(t, err)

	cfg, err := LoadHostMonitor(v, "example.com")
	require.NoError(t, err)

	assert.Equal(t, "example.com", cfg.Target)
	assert.Equal(t, DefaultProbeTimeout, cfg.Timeout)
	assert.Equal(t, DefaultProbeInterval, cfg.Interval)
	assert.Equal(t, DefaultWindowSize, cfg.Window)
	assert.Equal(t, 0, cfg.Fuzzy)
	assert.Equal(t, "icmp", cfg.ProbeKind())
}

func TestLoadHostMonitorFlags(t *testing.T) {
	fs := hostFlags(t, "-4", "-t", "250ms", "-i", "2", "-f", "3", "-s", "--tcp-port", "443", "-c", "5")
	v, err := NewViper(HostMonitorEnvPrefix, fs, "")
	require.NoError(t, err)

	cfg, err := LoadHostMonitor(v, "example.com")
	require.NoError(t, err)

	assert.True(t, cfg.IPv4)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 3, cfg.Fuzzy)
	assert.True(t, cfg.Static)
	assert.Equal(t, 5, cfg.Count)
	assert.Equal(t, "tcp", cfg.ProbeKind())
}

func TestLoadHostMonitorInvalid(t *testing.T) {
	testCases := []struct {
		name   string
		args   []string
		target string
	}{
		{name: "missing target", target: ""},
		{name: "zero timeout", args: []string{"-t", "0"}, target: "h"},
		{name: "bad interval", args: []string{"-i", "soon"}, target: "h"},
		{name: "negative fuzzy", args: []string{"-f", "-1"}, target: "h"},
		{name: "negative count", args: []string{"-c", "-2"}, target: "h"},
		{name: "empty window", args: []string{"-w", "0"}, target: "h"},
		{name: "port out of range", args: []string{"--tcp-port", "70000"}, target: "h"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NewViper(HostMonitorEnvPrefix, hostFlags(t, tc.args...), "")
			require.NoError(t, err)

			_, err = LoadHostMonitor(v, tc.target)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadPollerDefaults(t *testing.T) {
	v, err := NewViper(PollerEnvPrefix, pollerFlags(t), "")
	require.NoError(t, err)

	cfg, err := LoadPoller(v, "http://localhost:8080/health")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Status)
	assert.Equal(t, 5*time.Second, cfg.Delay)
	assert.Equal(t, 0, cfg.MaxAttempts)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxRedirects, cfg.MaxRedirects)
	assert.Empty(t, cfg.Text)
}

func TestLoadPollerInvalid(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		url  string
	}{
		{name: "status too low", args: []string{"-s", "99"}, url: "http://a"},
		{name: "status too high", args: []string{"-s", "600"}, url: "http://a"},
		{name: "negative delay", args: []string{"-d", "-1"}, url: "http://a"},
		{name: "negative attempts", args: []string{"-m", "-1"}, url: "http://a"},
		{name: "missing url", url: ""},
		{name: "bad scheme", url: "ftp://a"},
		{name: "no host", url: "http://"},
		{name: "negative redirects", args: []string{"--max-redirects", "-1"}, url: "http://a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NewViper(PollerEnvPrefix, pollerFlags(t, tc.args...), "")
			require.NoError(t, err)

			_, err = LoadPoller(v, tc.url)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestConfigFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "httpwait.yml")
	require.NoError(t, os.WriteFile(path, []byte("status: 204\ndelay: 1m\ntext: ready\nmax-attempts: 7\n"), 0644))

	t.Setenv("HTTPWAIT_MAX_ATTEMPTS", "9")

	v, err := NewViper(PollerEnvPrefix, pollerFlags(t, "-s", "201"), path)
	require.NoError(t, err)

	cfg, err := LoadPoller(v, "https://example.com")
	require.NoError(t, err)

	// explicit flag beats the file
	assert.Equal(t, 201, cfg.Status)
	assert.Equal(t, time.Minute, cfg.Delay)
	assert.Equal(t, "ready", cfg.Text)
	// environment beats the file
	assert.Equal(t, 9, cfg.MaxAttempts)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := NewViper(PollerEnvPrefix, pollerFlags(t), filepath.Join(t.TempDir(), "absent.yml"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDump(t *testing.T) {
	out, err := Dump(&Poller{Status: 200, Delay: 5 * time.Second, Timeout: 10 * time.Second, MaxRedirects: 10})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "5s", doc["delay"])
	assert.Equal(t, 200, doc["status"])

	out, err = Dump(&HostMonitor{Interval: time.Second, Timeout: time.Second, Window: 10, Fuzzy: 2})
	require.NoError(t, err)
	assert.Contains(t, string(out), "fuzzy: 2")

	_, err = Dump("nope")
	assert.Error(t, err)
}
