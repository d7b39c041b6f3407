package main

import (
	"strings"
	"testing"
)

func TestIsAffirmative(t *testing.T) {
	for _, answer := range []string{"s", "si", "sí", "y", "yes"} {
		if !isAffirmative(answer) {
			t.Fatalf("expected %q to confirm", answer)
		}
	}
	for _, answer := range []string{"", "n", "no", "nope"} {
		if isAffirmative(answer) {
			t.Fatalf("expected %q to cancel", answer)
		}
	}
}

func TestReadAnswer(t *testing.T) {
	got, err := readAnswer(strings.NewReader("  SI \nrest"))
	if err != nil {
		t.Fatalf("read answer: %v", err)
	}
	if got != "si" {
		t.Fatalf("unexpected answer %q", got)
	}

	got, err = readAnswer(strings.NewReader(""))
	if err != nil {
		t.Fatalf("read empty answer: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty answer, got %q", got)
	}
}
