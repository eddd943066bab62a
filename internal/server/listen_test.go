package server_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stealthrocket/httpcraft/internal/assert"
	"github.com/stealthrocket/httpcraft/internal/server"
)

func TestListen(t *testing.T) {
	l, err := server.Listen(context.Background(), "tcp", "127.0.0.1:0", false)
	assert.OK(t, err)
	defer l.Close()

	// The address is in use and the socket did not enable port reuse.
	_, err = server.Listen(context.Background(), "tcp", l.Addr().String(), false)
	assert.True(t, err != nil)
}

func TestListenReusePort(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("port reuse semantics are only tested on linux")
	}

	ctx := context.Background()
	l1, err := server.Listen(ctx, "tcp", "127.0.0.1:0", true)
	assert.OK(t, err)
	defer l1.Close()

	l2, err := server.Listen(ctx, "tcp", l1.Addr().String(), true)
	assert.OK(t, err)
	defer l2.Close()

	assert.Equal(t, l2.Addr().String(), l1.Addr().String())
}
