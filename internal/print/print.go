// Package print writes values in the structured output formats of httpcraft
// commands.
package print

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Writer writes a sequence of values to an output.
type Writer[T any] interface {
	Write(values ...T) error
	io.Closer
}

// NewJSONWriter returns a Writer printing values as indented JSON objects.
func NewJSONWriter[T any](w io.Writer) Writer[T] {
	e := json.NewEncoder(w)
	e.SetEscapeHTML(false)
	e.SetIndent("", "  ")
	return jsonWriter[T]{e}
}

type jsonWriter[T any] struct{ *json.Encoder }

func (w jsonWriter[T]) Write(values ...T) error {
	for i := range values {
		if err := w.Encode(values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w jsonWriter[T]) Close() error {
	return nil
}

// NewYAMLWriter returns a Writer printing values as YAML documents.
func NewYAMLWriter[T any](w io.Writer) Writer[T] {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	return yamlWriter[T]{e}
}

type yamlWriter[T any] struct{ *yaml.Encoder }

func (w yamlWriter[T]) Write(values ...T) error {
	for i := range values {
		if err := w.Encode(values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w yamlWriter[T]) Close() error {
	err := w.Encoder.Close()
	if err != nil {
		// Closing an encoder which wrote nothing.
		if s := err.Error(); s == `yaml: expected STREAM-START` {
			err = nil
		}
	}
	return err
}
