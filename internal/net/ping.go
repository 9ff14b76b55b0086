package net

import (
	"context"
	"errors"
	"fmt"
	"math"
	stdnet "net"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrProbeTimeout = errors.New("probe timed out")

	// ErrProbeUnavailable means the probe cannot run on this machine at
	// all, as opposed to the target not answering.
	ErrProbeUnavailable = errors.New("probe unavailable")

	rttPattern = regexp.MustCompile(`time[=<]\s*([0-9]+(?:\.[0-9]+)?)\s*ms`)
)

// Prober performs a single connectivity check against addr and returns the
// measured round-trip time on success.
type Prober interface {
	Probe(ctx context.Context, addr stdnet.IP) (time.Duration, error)
}

// PingProber sends one echo request through the system ping utility.
type PingProber struct {
	Runner  Runner
	Binary  string
	Timeout time.Duration
}

// pingUsageExit is the exit status of iputils and busybox ping for errors
// other than a missing reply (bad option, no raw socket permission).
const pingUsageExit = 2

// NewPingProber locates the system ping binary.
func NewPingProber(timeout time.Duration) (*PingProber, error) {
	binary, err := exec.LookPath("ping")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProbeUnavailable, err)
	}
	return &PingProber{
		Runner:  OSRunner{},
		Binary:  binary,
		Timeout: timeout,
	}, nil
}

func (p *PingProber) Probe(ctx context.Context, addr stdnet.IP) (time.Duration, error) {
	// ping only takes whole seconds; the context enforces the exact bound
	waitSeconds := int(math.Ceil(p.Timeout.Seconds()))
	if waitSeconds < 1 {
		waitSeconds = 1
	}

	family := "-6"
	if IsIPv4(addr) {
		family = "-4"
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout+500*time.Millisecond)
	defer cancel()

	start := time.Now()
	out, err := p.Runner.Output(ctx, p.Binary, family, "-n", "-c", "1", "-W", strconv.Itoa(waitSeconds), addr.String())
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return 0, ErrProbeTimeout
		}
		if unusable(err) {
			return 0, fmt.Errorf("%w: ping %s: %v", ErrProbeUnavailable, addr, err)
		}
		return 0, fmt.Errorf("ping %s: %w", addr, err)
	}

	rtt, ok := ParseRTT(out)
	if !ok {
		log.Debug().Str("addr", addr.String()).Msg("no rtt in ping output, using wall time")
		return elapsed, nil
	}
	return rtt, nil
}

func unusable(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var exitErr interface{ ExitCode() int }
	return errors.As(err, &exitErr) && exitErr.ExitCode() == pingUsageExit
}

// ParseRTT extracts the round-trip time from ping output
// ("... time=12.3 ms" or "time<1 ms").
func ParseRTT(out string) (time.Duration, bool) {
	m := rttPattern.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(v * float64(time.Millisecond)), true
}
