package net

import (
	"context"
	"errors"
	"fmt"
	stdnet "net"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out   string
	err   error
	block bool
	name  string
	args  []string
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

// exitError mimics *exec.ExitError for a given exit status.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitError) ExitCode() int { return e.code }

type fakeResolver struct {
	ips     []stdnet.IP
	err     error
	network string
}

func (f *fakeResolver) LookupIP(ctx context.Context, network, host string) ([]stdnet.IP, error) {
	f.network = network
	return f.ips, f.err
}

const linuxPingOutput = `PING 192.0.2.7 (192.0.2.7) 56(84) bytes of data.
64 bytes from 192.0.2.7: icmp_seq=1 ttl=57 time=12.4 ms

--- 192.0.2.7 ping statistics ---
1 packets transmitted, 1 received, 0% packet loss, time 0ms
rtt min/avg/max/mdev = 12.400/12.400/12.400/0.000 ms
`

func TestParseRTT(t *testing.T) {
	testCases := []struct {
		name     string
		out      string
		expected time.Duration
		ok       bool
	}{
		{name: "iputils", out: linuxPingOutput, expected: 12400 * time.Microsecond, ok: true},
		{name: "busybox", out: "64 bytes from 10.0.0.1: seq=0 ttl=64 time=0.081 ms", expected: 81 * time.Microsecond, ok: true},
		{name: "below resolution", out: "Reply from 10.0.0.1: bytes=32 time<1ms TTL=128", expected: time.Millisecond, ok: true},
		{name: "no reply", out: "1 packets transmitted, 0 received, 100% packet loss", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rtt, ok := ParseRTT(tc.out)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, rtt)
		})
	}
}

func TestPingProberSuccess(t *testing.T) {
	runner := &fakeRunner{out: linuxPingOutput}
	prober := &PingProber{Runner: runner, Binary: "ping", Timeout: 1500 * time.Millisecond}

	rtt, err := prober.Probe(context.Background(), stdnet.ParseIP("192.0.2.7"))

	require.NoError(t, err)
	assert.Equal(t, 12400*time.Microsecond, rtt)
	assert.Equal(t, "ping", runner.name)
	assert.Equal(t, []string{"-4", "-n", "-c", "1", "-W", "2", "192.0.2.7"}, runner.args)
}

func TestPingProberIPv6(t *testing.T) {
	runner := &fakeRunner{out: "64 bytes from 2001:db8::1: icmp_seq=1 ttl=57 time=3 ms"}
	prober := &PingProber{Runner: runner, Binary: "ping", Timeout: 200 * time.Millisecond}

	_, err := prober.Probe(context.Background(), stdnet.ParseIP("2001:db8::1"))

	require.NoError(t, err)
	assert.Equal(t, "-6", runner.args[0])
	assert.Equal(t, "1", runner.args[5])
}

func TestPingProberFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1: 100% packet loss")}
	prober := &PingProber{Runner: runner, Binary: "ping", Timeout: time.Second}

	_, err := prober.Probe(context.Background(), stdnet.ParseIP("192.0.2.7"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "packet loss")
}

func TestPingProberTimeout(t *testing.T) {
	runner := &fakeRunner{block: true}
	prober := &PingProber{Runner: runner, Binary: "ping", Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := prober.Probe(context.Background(), stdnet.ParseIP("192.0.2.7"))
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrProbeTimeout)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestPingProberUnavailable(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "binary missing", err: &exec.Error{Name: "ping", Err: exec.ErrNotFound}},
		{name: "not permitted", err: fmt.Errorf("%w: ping: socket: Operation not permitted", exitError{code: 2})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prober := &PingProber{Runner: &fakeRunner{err: tc.err}, Binary: "ping", Timeout: time.Second}

			_, err := prober.Probe(context.Background(), stdnet.ParseIP("192.0.2.7"))

			assert.ErrorIs(t, err, ErrProbeUnavailable)
			assert.NotErrorIs(t, err, ErrProbeTimeout)
		})
	}
}

func TestPingProberNoReplyIsNotUnavailable(t *testing.T) {
	err := fmt.Errorf("%w: 1 packets transmitted, 0 received", exitError{code: 1})
	prober := &PingProber{Runner: &fakeRunner{err: err}, Binary: "ping", Timeout: time.Second}

	_, err = prober.Probe(context.Background(), stdnet.ParseIP("192.0.2.7"))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProbeUnavailable)
}

func TestNewPingProberWithoutBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	prober, err := NewPingProber(time.Second)

	assert.Nil(t, prober)
	assert.ErrorIs(t, err, ErrProbeUnavailable)
}

func TestTCPProberTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	prober := &TCPProber{Port: 80, Timeout: 50 * time.Millisecond}
	_, err := prober.Probe(ctx, stdnet.ParseIP("192.0.2.1"))

	assert.ErrorIs(t, err, ErrProbeTimeout)
}

func TestTCPProber(t *testing.T) {
	listener, err := stdnet.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*stdnet.TCPAddr).Port

	prober := &TCPProber{Port: port, Timeout: time.Second}
	rtt, err := prober.Probe(context.Background(), stdnet.ParseIP("127.0.0.1"))
	require.NoError(t, err)
	assert.Greater(t, rtt, time.Duration(0))

	// a closed port answers with a reset, which still proves the host is up
	listener.Close()
	_, err = prober.Probe(context.Background(), stdnet.ParseIP("127.0.0.1"))
	assert.NoError(t, err)
}

func TestResolve(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		ip, err := Resolve(context.Background(), &fakeResolver{}, "192.0.2.1", true)
		require.NoError(t, err)
		assert.Equal(t, "192.0.2.1", ip.String())
	})

	t.Run("ipv6 literal rejected in ipv4 mode", func(t *testing.T) {
		_, err := Resolve(context.Background(), &fakeResolver{}, "2001:db8::1", true)
		assert.Error(t, err)
	})

	t.Run("lookup family", func(t *testing.T) {
		r := &fakeResolver{ips: []stdnet.IP{stdnet.ParseIP("198.51.100.4")}}

		ip, err := Resolve(context.Background(), r, "example.test", true)
		require.NoError(t, err)
		assert.Equal(t, "ip4", r.network)
		assert.Equal(t, "198.51.100.4", ip.String())

		_, err = Resolve(context.Background(), r, "example.test", false)
		require.NoError(t, err)
		assert.Equal(t, "ip", r.network)
	})

	t.Run("lookup failure", func(t *testing.T) {
		r := &fakeResolver{err: errors.New("no such host")}
		_, err := Resolve(context.Background(), r, "missing.test", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to resolve missing.test")
	})

	t.Run("empty answer", func(t *testing.T) {
		_, err := Resolve(context.Background(), &fakeResolver{}, "empty.test", false)
		assert.Error(t, err)
	})
}
