package net

import (
	"context"
	"fmt"
	stdnet "net"
)

// Resolver is the subset of *net.Resolver used to find a probe address.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]stdnet.IP, error)
}

// Resolve returns the address to probe for host. IP literals are used as is.
// With ipv4Only only A records (or IPv4 literals) are accepted.
func Resolve(ctx context.Context, r Resolver, host string, ipv4Only bool) (stdnet.IP, error) {
	if ip := stdnet.ParseIP(host); ip != nil {
		if ipv4Only && ip.To4() == nil {
			return nil, fmt.Errorf("%s is not an IPv4 address", host)
		}
		return ip, nil
	}

	if r == nil {
		r = stdnet.DefaultResolver
	}

	network := "ip"
	if ipv4Only {
		network = "ip4"
	}

	ips, err := r.LookupIP(ctx, network, host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("failed to resolve %s: no addresses", host)
	}

	return ips[0], nil
}

// IsIPv4 reports whether ip is an IPv4 (or IPv4-mapped) address.
func IsIPv4(ip stdnet.IP) bool {
	return ip.To4() != nil
}
