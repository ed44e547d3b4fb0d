// Package socket provisions the pair of UDP sockets multicast
// discovery needs: an outbound announce socket and a group-joined
// listen socket.
package socket

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"golang.org/x/net/ipv4"

	"landisc/internal/announce"
	"landisc/internal/netif"
)

// Sockets holds the provisioned connection pair. Group is the resolved
// multicast destination the announce socket sends to.
type Sockets struct {
	Announce *net.UDPConn
	Listen   *net.UDPConn
	Group    *net.UDPAddr
}

// Close releases both sockets. Safe to call with partially nil fields.
func (s *Sockets) Close() {
	if s.Announce != nil {
		s.Announce.Close()
	}
	if s.Listen != nil {
		s.Listen.Close()
	}
}

// Provision builds both sockets or fails without leaking either.
//
// The announce socket binds the selected local address on an ephemeral
// port with its outbound multicast interface pinned, so announcements
// leave on the intended interface even on multi-homed machines. The
// listen socket binds the wildcard address on the discovery port with
// address and port reuse enabled, so several local processes can share
// the multicast port, and joins the group on the selected interface.
// Multicast loopback stays on for both so same-host peers see each
// other; TTL 1 keeps announcements from crossing a router.
func Provision(group net.IP, port, ttl int, localIP net.IP, log zerolog.Logger) (*Sockets, error) {
	if group == nil || !group.IsMulticast() {
		return nil, fmt.Errorf("invalid multicast group: %v", group)
	}

	iface, err := netif.Owning(localIP)
	if err != nil {
		return nil, fmt.Errorf("resolving multicast interface: %w", err)
	}

	s := &Sockets{
		Group: &net.UDPAddr{IP: group, Port: port},
	}

	s.Announce, err = announceSocket(localIP, ttl, iface)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Listen, err = listenSocket(group, port, ttl, iface, log)
	if err != nil {
		s.Close()
		return nil, err
	}

	log.Debug().
		Str("interface", iface.Name).
		Str("local_addr", s.Announce.LocalAddr().String()).
		Str("group", s.Group.String()).
		Msg("Sockets provisioned")

	return s, nil
}

func announceSocket(localIP net.IP, ttl int, iface *net.Interface) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	pc, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort(localIP.String(), "0"))
	if err != nil {
		return nil, fmt.Errorf("binding announce socket on %s: %w", localIP, err)
	}
	conn := pc.(*net.UDPConn)

	p := ipv4.NewPacketConn(conn)
	if err := p.SetMulticastInterface(iface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinning multicast interface %s: %w", iface.Name, err)
	}
	if err := p.SetMulticastTTL(ttl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting multicast TTL: %w", err)
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling multicast loopback: %w", err)
	}

	return conn, nil
}

func listenSocket(group net.IP, port, ttl int, iface *net.Interface, log zerolog.Logger) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: reuseAddrAndPort}
	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, fmt.Errorf("binding listen socket on port %d: %w", port, err)
	}
	conn := pc.(*net.UDPConn)

	p := ipv4.NewPacketConn(conn)
	if err := p.JoinGroup(iface, &net.UDPAddr{IP: group}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("joining multicast group %s on %s: %w", group, iface.Name, err)
	}
	if err := p.SetMulticastTTL(ttl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting multicast TTL: %w", err)
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling multicast loopback: %w", err)
	}

	if err := conn.SetReadBuffer(announce.MaxPacketSize * 10); err != nil {
		log.Warn().Err(err).Msg("Failed to set read buffer")
	}

	return conn, nil
}
