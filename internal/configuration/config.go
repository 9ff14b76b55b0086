package configuration

import (
	"time"
)

const (
	HostMonitorEnvPrefix = "HOSTMON"
	PollerEnvPrefix      = "HTTPWAIT"

	DefaultProbeTimeout  = time.Second
	DefaultProbeInterval = time.Second
	DefaultWindowSize    = 10

	DefaultExpectedStatus = 200
	DefaultRetryDelay     = 5 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxRedirects   = 10
)

// Flag and config file keys.
const (
	KeyConfig  = "config"
	KeyDebug   = "debug"
	KeyTimeout = "timeout"

	KeyIPv4     = "ipv4"
	KeyInterval = "interval"
	KeyFuzzy    = "fuzzy"
	KeyStatic   = "static"
	KeyCount    = "count"
	KeyWindow   = "window"
	KeyTCPPort  = "tcp-port"
	KeyJournal  = "journal"

	KeyStatus       = "status"
	KeyText         = "text"
	KeyDelay        = "delay"
	KeyMaxAttempts  = "max-attempts"
	KeyMaxRedirects = "max-redirects"
	KeyQuiet        = "quiet"
)

// HostMonitor is the effective configuration of hostmon.
type HostMonitor struct {
	Target   string
	IPv4     bool
	Timeout  time.Duration
	Interval time.Duration
	Fuzzy    int
	Static   bool
	Debug    bool
	Count    int
	Window   int
	TCPPort  int
	Journal  string
}

// Poller is the effective configuration of httpwait.
type Poller struct {
	URL          string
	Status       int
	Text         string
	Delay        time.Duration
	MaxAttempts  int
	Timeout      time.Duration
	MaxRedirects int
	Quiet        bool
	Debug        bool
}

// ProbeKind names the probe used by the host monitor.
func (c *HostMonitor) ProbeKind() string {
	if c.TCPPort > 0 {
		return "tcp"
	}
	return "icmp"
}
