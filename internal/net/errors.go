package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdnet "net"
	"net/url"
	"os"
	"syscall"
)

// describeError turns transport errors into short operator-facing messages.
func describeError(target string, err error) string {
	var dnsErr *stdnet.DNSError
	var opErr *stdnet.OpError

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Sprintf("Connection closed prematurely (EOF) for %s", target)
	case errors.Is(err, context.DeadlineExceeded), os.IsTimeout(err):
		return fmt.Sprintf("Timeout while fetching %s", target)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Sprintf("Connection refused by %s", target)
	case errors.As(err, &dnsErr):
		return fmt.Sprintf("DNS lookup failed for %s: %s", target, dnsErr.Err)
	case errors.As(err, &opErr):
		return fmt.Sprintf("Network operation error for %s: %v", target, opErr.Err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Sprintf("Failed to fetch %s: %v", target, urlErr.Err)
	}
	return fmt.Sprintf("Failed to fetch %s: %v", target, err)
}
