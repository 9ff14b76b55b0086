package net

import (
	"context"
	"errors"
	"fmt"
	stdnet "net"
	"strconv"
	"syscall"
	"time"
)

// TCPProber measures the time to establish a TCP connection. A refused
// connection still proves the host answered, so it counts as success.
type TCPProber struct {
	Port    int
	Timeout time.Duration
}

func (p *TCPProber) Probe(ctx context.Context, addr stdnet.IP) (time.Duration, error) {
	dialer := stdnet.Dialer{Timeout: p.Timeout}
	target := stdnet.JoinHostPort(addr.String(), strconv.Itoa(p.Port))

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", target)
	rtt := time.Since(start)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return rtt, nil
		}
		var netErr stdnet.Error
		if ctx.Err() == context.DeadlineExceeded || errors.As(err, &netErr) && netErr.Timeout() {
			return 0, ErrProbeTimeout
		}
		return 0, fmt.Errorf("connect %s: %w", target, err)
	}
	conn.Close()

	return rtt, nil
}
