package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetLevel(t *testing.T) {
	original := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(original)

	tests := []struct {
		name string
		in   string
		want zerolog.Level
	}{
		{name: "debug", in: "debug", want: zerolog.DebugLevel},
		{name: "warn", in: "warn", want: zerolog.WarnLevel},
		{name: "invalid falls back to info", in: "loud", want: zerolog.InfoLevel},
		{name: "empty falls back to info", in: "", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.in)
			if zerolog.GlobalLevel() != tt.want {
				t.Fatalf("got %s want %s", zerolog.GlobalLevel(), tt.want)
			}
		})
	}
}

func TestErrorWithStack(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)
	ErrorWithStack(errors.New("disk full"))
	if !bytes.Contains(buf.Bytes(), []byte("disk full")) {
		t.Fatalf("missing message in %q", buf.String())
	}
}
