package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/canonkit/authzkernel/internal/engine"
)

func TestLoadDefaultsWhenFieldsAbsent(t *testing.T) {
	cfg, err := Load(strings.NewReader("# empty config\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != engine.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want default %d", cfg.MaxDepth, engine.DefaultMaxDepth)
	}
	if cfg.AllResourcesGroupID != engine.DefaultAllResourcesGroupID {
		t.Errorf("AllResourcesGroupID = %q, want default %q", cfg.AllResourcesGroupID, engine.DefaultAllResourcesGroupID)
	}
}

func TestLoadOverridesFields(t *testing.T) {
	input := "max_depth = 8\nall_resources_group_id = everything\n"
	cfg, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 8 {
		t.Errorf("MaxDepth = %d, want 8", cfg.MaxDepth)
	}
	if cfg.AllResourcesGroupID != "everything" {
		t.Errorf("AllResourcesGroupID = %q, want %q", cfg.AllResourcesGroupID, "everything")
	}
}

func TestLoadSkipsCommentsAndBlankLines(t *testing.T) {
	input := "# a comment\n\nmax_depth = 5\n\n# trailing comment\n"
	cfg, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.MaxDepth)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(strings.NewReader("bogus = 1\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("error = %v, want it to mention 'unknown key'", err)
	}
}

func TestLoadRejectsNonPositiveMaxDepth(t *testing.T) {
	for _, v := range []string{"0", "-1", "nope"} {
		if _, err := Load(strings.NewReader("max_depth = " + v + "\n")); err == nil {
			t.Errorf("max_depth = %q: expected an error, got nil", v)
		}
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, err := Load(strings.NewReader("not-a-key-value-line\n"))
	if err == nil {
		t.Fatal("expected a parse error, got nil")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want a *ParseError", err)
	}
	if pe.Line != 1 {
		t.Errorf("ParseError.Line = %d, want 1", pe.Line)
	}
}
