//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd)

package server

import (
	"fmt"
	"runtime"
	"syscall"
)

func reuseAddrAndPort(network, address string, rawConn syscall.RawConn) error {
	return fmt.Errorf("listen %s %s: port reuse is not supported on %s", network, address, runtime.GOOS)
}
