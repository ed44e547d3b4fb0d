//go:build windows

package socket

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func reuseAddr(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return serr
}

// Windows has no SO_REUSEPORT; SO_REUSEADDR alone already allows
// multiple multicast listeners on one port.
func reuseAddrAndPort(network, address string, c syscall.RawConn) error {
	return reuseAddr(network, address, c)
}
