package main

import (
	"testing"

	"github.com/vovakirdan/dash-runner/internal/config"
)

func TestResolveModeAppliesDifficulty(t *testing.T) {
	defer func() { flagDifficulty = "" }()

	flagDifficulty = "easy"
	mode, err := resolveMode("hard")
	if err != nil {
		t.Fatalf("resolveMode: %v", err)
	}
	if mode.Preset != config.DifficultyEasy {
		t.Errorf("expected --difficulty to override the preset, got %q", mode.Preset)
	}

	flagDifficulty = "nightmare"
	if _, err := resolveMode("classic"); err == nil {
		t.Error("expected an error for an unknown difficulty")
	}
}

func TestResolveModeUnknown(t *testing.T) {
	if _, err := resolveMode("nope"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestPortOf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":23234", "23234"},
		{"0.0.0.0:2222", "2222"},
		{"2222", "2222"},
	}
	for _, tt := range tests {
		if got := portOf(tt.addr); got != tt.want {
			t.Errorf("portOf(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
