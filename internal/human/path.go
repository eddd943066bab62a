// Package human contains configuration value types parsed from and formatted
// to representations meant to be written by humans.
package human

import (
	"encoding"
	"flag"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Path represents a path on the file system.
//
// The type interprets the special prefix "~/" as representing the home
// directory of the user that the program is running as. The prefix is
// expanded when the path is resolved, so the configuration keeps the
// representation written by the user.
type Path string

func (p Path) String() string {
	return string(p)
}

// Resolve returns the path with the "~/" prefix expanded.
func (p Path) Resolve() (string, error) {
	s := string(p)
	if s != "~" && !strings.HasPrefix(s, "~"+string(os.PathSeparator)) {
		return s, nil
	}
	home, ok := os.LookupEnv("HOME")
	if !ok {
		u, err := user.Current()
		if err != nil {
			return "", err
		}
		home = u.HomeDir
	}
	return filepath.Join(home, s[1:]), nil
}

func (p *Path) Set(s string) error {
	*p = Path(s)
	return nil
}

func (p *Path) UnmarshalText(b []byte) error {
	return p.Set(string(b))
}

func (p *Path) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return p.Set(s)
}

var (
	_ encoding.TextUnmarshaler = (*Path)(nil)
	_ flag.Value               = (*Path)(nil)
	_ yaml.Unmarshaler         = (*Path)(nil)
)
