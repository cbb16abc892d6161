package registry

import (
	"testing"

	"github.com/vovakirdan/dash-runner/internal/config"
)

func TestRegisterAndLookup(t *testing.T) {
	Register(Mode{ID: "test-sprint", Title: "Sprint", Preset: config.DifficultyHard})

	if !Exists("test-sprint") {
		t.Fatal("Registered mode should exist")
	}
	m, err := Lookup("test-sprint")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if m.Title != "Sprint" || m.Preset != config.DifficultyHard {
		t.Errorf("Unexpected mode %+v", m)
	}

	if _, err := Lookup("nope"); err == nil {
		t.Error("Unknown mode should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(Mode{ID: "test-dup"})

	defer func() {
		if recover() == nil {
			t.Error("Duplicate registration should panic")
		}
	}()
	Register(Mode{ID: "test-dup"})
}

func TestListSorted(t *testing.T) {
	Register(Mode{ID: "test-b"})
	Register(Mode{ID: "test-a"})

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List not sorted: %v", list)
		}
	}
}
