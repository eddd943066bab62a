package server

import (
	"context"
	"net"
)

// Listen announces on the local network address. When reusePort is true, the
// socket is created with the SO_REUSEADDR and SO_REUSEPORT options so that
// multiple processes may bind the same address.
func Listen(ctx context.Context, network, address string, reusePort bool) (net.Listener, error) {
	lc := &net.ListenConfig{}
	if reusePort {
		lc.Control = reuseAddrAndPort
	}
	return lc.Listen(ctx, network, address)
}
