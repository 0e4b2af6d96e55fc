package media

import (
	"errors"
	"io"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
)

func TestParseProbeOutput(t *testing.T) {
	duration, err := parseProbeOutput([]byte(`{"format":{"duration":"93.48"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if duration != 93.48 {
		t.Fatalf("expected 93.48, got %f", duration)
	}
}

func TestParseProbeOutputRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not json":          `moov atom not found`,
		"missing duration":  `{"format":{}}`,
		"malformed number":  `{"format":{"duration":"fast"}}`,
		"negative duration": `{"format":{"duration":"-3"}}`,
		"nan duration":      `{"format":{"duration":"NaN"}}`,
		"inf duration":      `{"format":{"duration":"+Inf"}}`,
	}
	for name, raw := range cases {
		if _, err := parseProbeOutput([]byte(raw)); !errors.Is(err, ErrUnreadableMedia) {
			t.Fatalf("%s: expected ErrUnreadableMedia, got %v", name, err)
		}
	}
}

func TestProberDefaults(t *testing.T) {
	p := NewProber(Config{}, log.NewStdLogger(io.Discard))
	if p.ffprobe != "ffprobe" || p.ffmpeg != "ffmpeg" {
		t.Fatalf("expected PATH lookups by default, got %q %q", p.ffprobe, p.ffmpeg)
	}
	if p.timeout <= 0 {
		t.Fatalf("expected a positive default timeout")
	}
}
