package cmd_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/stealthrocket/httpcraft/internal/cmd"
)

func ExampleRoot_config() {
	ctx := context.Background()
	path := filepath.Join(os.TempDir(), "httpcraft-example", "missing.yaml")

	PASS(cmd.Root(ctx, "config", "-c", path, "-o", "json"))
	// Output:
	// {
	//   "listen": "127.0.0.1:4221",
	//   "directory": "/tmp/",
	//   "reuse_port": false,
	//   "read_timeout": null,
	//   "accept_rate": null,
	//   "accept_burst": 1,
	//   "compression": {
	//     "level": null
	//   },
	//   "log": {
	//     "level": "info",
	//     "format": "console"
	//   },
	//   "trace": false
	// }
}
