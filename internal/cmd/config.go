package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stealthrocket/httpcraft/internal/httpcraft"
	"github.com/stealthrocket/httpcraft/internal/print"
)

const configUsage = `
Usage:	httpcraft config [options]

   The config command prints the httpcraft configuration. When the
   configuration file does not exist, the default configuration is printed.

Options:
   -c, --config path    Path to the httpcraft configuration file (overrides HTTPCRAFTCONFIG)
       --edit           Open $EDITOR to edit the configuration
   -h, --help           Show usage information
   -o, --output format  Output format, one of: text, json, yaml
`

func config(ctx context.Context, args []string) error {
	var (
		edit   bool
		output = outputFormat("text")
	)

	flagSet := newFlagSet("httpcraft config", configUsage)
	boolVar(flagSet, &edit, "edit")
	customVar(flagSet, &output, "o", "output")

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return usageError("httpcraft config: unexpected arguments: %q", args)
	}

	if edit {
		if err := editConfig(); err != nil {
			return err
		}
	}

	var w print.Writer[*httpcraft.Config]
	switch output {
	case "json":
		w = print.NewJSONWriter[*httpcraft.Config](os.Stdout)
	case "yaml":
		w = print.NewYAMLWriter[*httpcraft.Config](os.Stdout)
	default:
		r, _, err := httpcraft.OpenConfig()
		if err != nil {
			return err
		}
		defer r.Close()
		_, err = io.Copy(os.Stdout, r)
		return err
	}

	config, err := httpcraft.LoadConfig()
	if err != nil {
		return err
	}
	if err := w.Write(config); err != nil {
		return err
	}
	return w.Close()
}

func editConfig() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return errors.New(`$EDITOR is not set`)
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	r, path, err := httpcraft.OpenConfig()
	if err != nil {
		return err
	}
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return err
		}
	}

	tmp, err := createTempFile(path, r)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	p, err := os.StartProcess(shell, []string{shell, "-c", editor + " " + tmp}, &os.ProcAttr{
		Files: []*os.File{
			0: os.Stdin,
			1: os.Stdout,
			2: os.Stderr,
		},
	})
	if err != nil {
		return err
	}
	if _, err := p.Wait(); err != nil {
		return err
	}

	f, err := os.Open(tmp)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := httpcraft.ReadConfig(f); err != nil {
		return fmt.Errorf("not applying configuration updates because the file has an error: %w", err)
	}
	return os.Rename(tmp, path)
}

func createTempFile(path string, r io.Reader) (string, error) {
	dir, file := filepath.Split(path)
	w, err := os.CreateTemp(dir, "."+file+".*")
	if err != nil {
		return "", err
	}
	defer w.Close()
	_, err = io.Copy(w, r)
	return w.Name(), err
}
