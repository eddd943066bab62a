// Package assert contains the test assertions used across httpcraft.
package assert

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/exp/constraints"
)

func OK(t testing.TB, err error) {
	if err != nil {
		t.Helper()
		t.Fatal("error:", err)
	}
}

func Error(t testing.TB, got, want error) {
	if !errors.Is(got, want) {
		t.Helper()
		t.Fatalf("error mismatch\nwant = %s\ngot  = %s", want, got)
	}
}

func True(t testing.TB, value bool) {
	if !value {
		t.Helper()
		t.Fatal("value is false")
	}
}

func False(t testing.TB, value bool) {
	if value {
		t.Helper()
		t.Fatal("value is true")
	}
}

func Equal[T comparable](t testing.TB, got, want T) {
	if got != want {
		t.Helper()
		t.Fatalf("value mismatch\nwant = %#v\ngot  = %#v", want, got)
	}
}

func NotEqual[T comparable](t testing.TB, got, want T) {
	if got == want {
		t.Helper()
		t.Fatalf("value should not be equal to %#v", want)
	}
}

func EqualAll[T comparable](t testing.TB, got, want []T) {
	if len(got) != len(want) {
		t.Helper()
		t.Fatalf("number of values mismatch\nwant = %#v\ngot  = %#v", want, got)
	}

	for i, value := range want {
		if value != got[i] {
			t.Helper()
			t.Fatalf("value at index %d/%d mismatch\nwant = %#v\ngot  = %#v", i, len(want), value, got[i])
		}
	}
}

// EqualBytes compares byte slices and prints them as strings on mismatch,
// which reads better than %#v for wire messages.
func EqualBytes(t testing.TB, got, want []byte) {
	if !bytes.Equal(got, want) {
		t.Helper()
		t.Fatalf("bytes mismatch\nwant = %q\ngot  = %q", want, got)
	}
}

func HasPrefix(t testing.TB, got, want string) {
	if !strings.HasPrefix(got, want) {
		t.Helper()
		t.Fatalf("prefix mismatch\nwant = %q\ngot  = %q", want, got)
	}
}

func Less[T constraints.Ordered](t testing.TB, less, more T) {
	if less >= more {
		t.Helper()
		t.Fatalf("value is too large: %v >= %v", less, more)
	}
}

func DeepEqual(t testing.TB, got, want any) {
	if !reflect.DeepEqual(got, want) {
		t.Helper()
		t.Fatalf("value mismatch\nwant = %s\ngot  = %s", spew.Sdump(want), spew.Sdump(got))
	}
}
