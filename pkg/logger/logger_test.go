package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitFirstCallWins(t *testing.T) {
	Reset()
	defer Reset()

	var first, second bytes.Buffer
	Init(Options{Level: "debug", Output: &first})
	Init(Options{Level: "error", Output: &second})

	log := Get()
	log.Debug().Msg("visible at debug")
	if !strings.Contains(first.String(), "visible at debug") {
		t.Fatalf("expected debug output in first writer, got %q", first.String())
	}
	if second.Len() != 0 {
		t.Fatalf("expected second writer to stay empty, got %q", second.String())
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	defer Reset()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Get to panic before Init")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"trace":   "trace",
		"DEBUG":   "debug",
		"warning": "warn",
		"error":   "error",
		"fatal":   "fatal",
		"bogus":   "info",
		"":        "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
