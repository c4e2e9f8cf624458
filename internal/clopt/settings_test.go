package clopt

import (
	"strings"
	"testing"
)

func TestParseSettingsBasic(t *testing.T) {
	src := `
// a comment
#define WADDIR /data/wads
threads 4
dev=3
`
	s, err := ParseSettings(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if s.String("WADDIR", "") != "/data/wads" {
		t.Errorf("got WADDIR=%q", s.String("WADDIR", ""))
	}
	if s.Int("threads", 0) != 4 {
		t.Errorf("got threads=%d", s.Int("threads", 0))
	}
	if s.Int("dev", 0) != 3 {
		t.Errorf("got dev=%d", s.Int("dev", 0))
	}
}

func TestParseSettingsIfdef(t *testing.T) {
	src := `
#define FAST
#ifdef FAST
threads 16
#else
threads 1
#endif
#ifndef SLOW
dev 4
#endif
`
	s, err := ParseSettings(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if s.Int("threads", 0) != 16 {
		t.Errorf("expected #ifdef FAST branch taken, got threads=%d", s.Int("threads", 0))
	}
	if s.Int("dev", 0) != 4 {
		t.Errorf("expected #ifndef SLOW branch taken, got dev=%d", s.Int("dev", 0))
	}
}

func TestParseSettingsUnterminatedIfdef(t *testing.T) {
	src := "#ifdef FOO\nthreads 1\n"
	if _, err := ParseSettings(strings.NewReader(src)); err == nil {
		t.Fatalf("expected error for unterminated #ifdef")
	}
}
