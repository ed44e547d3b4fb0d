package socket

import (
	"net"
	"testing"

	"github.com/rs/zerolog"
)

func TestProvision_RejectsNonMulticastGroup(t *testing.T) {
	_, err := Provision(net.ParseIP("192.168.1.1"), 9999, 1, net.ParseIP("127.0.0.1"), zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for non-multicast group")
	}
}

func TestProvision_RejectsNilGroup(t *testing.T) {
	_, err := Provision(nil, 9999, 1, net.ParseIP("127.0.0.1"), zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for nil group")
	}
}

func TestProvision_Loopback(t *testing.T) {
	s, err := Provision(net.ParseIP("239.255.255.250"), 19999, 1, net.ParseIP("127.0.0.1"), zerolog.Nop())
	if err != nil {
		t.Skipf("multicast setup unavailable in this environment: %v", err)
	}
	defer s.Close()

	if s.Announce == nil || s.Listen == nil {
		t.Fatal("expected both sockets to be provisioned")
	}
	if s.Group.Port != 19999 {
		t.Errorf("Group.Port: got %d, want 19999", s.Group.Port)
	}
}
