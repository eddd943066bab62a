//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package server

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func reuseAddrAndPort(network, address string, rawConn syscall.RawConn) error {
	var err error
	if ctrlErr := rawConn.Control(func(fd uintptr) {
		if err = setsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			return
		}
		err = setsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	}); ctrlErr != nil {
		return ctrlErr
	}
	return err
}

func setsockoptInt(fd, level, name, value int) error {
	for {
		if err := unix.SetsockoptInt(fd, level, name, value); err != unix.EINTR {
			return err
		}
	}
}
