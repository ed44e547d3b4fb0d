// Package netif selects the local IPv4 address used for multicast
// binding and group membership.
package netif

import (
	"fmt"
	"net"
)

// score rates an address for multicast suitability: higher is better,
// negative means unusable. Private RFC1918 ranges outrank public
// addresses, with 192.168/16 preferred as the most common LAN range.
func score(ip net.IP) int {
	v4 := ip.To4()
	if v4 == nil {
		return -1
	}
	if v4.IsLoopback() || v4.IsLinkLocalUnicast() || v4.IsMulticast() || v4.IsUnspecified() {
		return -1
	}
	switch {
	case v4[0] == 192 && v4[1] == 168:
		return 100
	case v4[0] == 172 && v4[1] >= 16 && v4[1] <= 31:
		return 90
	case v4[0] == 10:
		return 80
	default:
		return 10
	}
}

// Choose picks the best-scoring usable IPv4 address from candidates,
// breaking ties by first-seen order. When no candidate is usable it
// returns the loopback address: discovery then only reaches
// same-machine peers, a degraded mode rather than a failure.
func Choose(candidates []net.IP) net.IP {
	var best net.IP
	bestScore := -1

	for _, ip := range candidates {
		sc := score(ip)
		if sc < 0 {
			continue
		}
		if sc > bestScore {
			bestScore = sc
			best = ip.To4()
		}
		if bestScore >= 100 {
			break
		}
	}

	if best != nil {
		return best
	}
	return net.IPv4(127, 0, 0, 1)
}

// Local enumerates the machine's interface addresses and returns the
// chosen local IPv4 address.
func Local() (net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("enumerating interface addresses: %w", err)
	}

	var candidates []net.IP
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		candidates = append(candidates, ipNet.IP)
	}

	return Choose(candidates), nil
}

// Owning returns the interface that carries the given address. The
// ipv4 multicast options (group join, outbound interface) want a
// *net.Interface, not an address.
func Owning(ip net.IP) (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerating interfaces: %w", err)
	}

	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ipNet.IP.Equal(ip) {
				return &ifaces[i], nil
			}
		}
	}

	return nil, fmt.Errorf("no interface carries %s", ip)
}
