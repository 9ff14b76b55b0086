package configuration

import (
	"github.com/spf13/pflag"
)

// RegisterHostMonitorFlags declares the hostmon flags with their defaults.
func RegisterHostMonitorFlags(fs *pflag.FlagSet) {
	fs.BoolP(KeyIPv4, "4", false, "resolve and probe IPv4 addresses only")
	fs.StringP(KeyTimeout, "t", DefaultProbeTimeout.String(), "probe timeout (e.g. 500ms, 2s)")
	fs.StringP(KeyInterval, "i", DefaultProbeInterval.String(), "pause between probes")
	fs.IntP(KeyFuzzy, "f", 0, "consecutive failures tolerated before the host is declared down")
	fs.BoolP(KeyStatic, "s", false, "print one line per probe instead of a live status line")
	fs.BoolP(KeyDebug, "d", false, "enable debug logging")
	fs.IntP(KeyCount, "c", 0, "stop after this many probes (0 = run until interrupted)")
	fs.IntP(KeyWindow, "w", DefaultWindowSize, "number of RTT samples per min/avg/max summary")
	fs.Int(KeyTCPPort, 0, "probe with a TCP connect to this port instead of ping")
	fs.String(KeyJournal, "", "record the session in this sqlite journal")
}

// RegisterPollerFlags declares the httpwait flags with their defaults.
func RegisterPollerFlags(fs *pflag.FlagSet) {
	fs.IntP(KeyStatus, "s", DefaultExpectedStatus, "expected HTTP status code (100-599)")
	fs.StringP(KeyText, "t", "", "text the response body must contain (literal, case-sensitive)")
	fs.StringP(KeyDelay, "d", DefaultRetryDelay.String(), "delay between attempts")
	fs.IntP(KeyMaxAttempts, "m", 0, "give up after this many attempts (0 = retry forever)")
	fs.String(KeyTimeout, DefaultRequestTimeout.String(), "timeout of a single request")
	fs.Int(KeyMaxRedirects, DefaultMaxRedirects, "maximum number of redirects to follow")
	fs.BoolP(KeyQuiet, "q", false, "only print the final statistics")
	fs.Bool(KeyDebug, false, "enable debug logging")
}
