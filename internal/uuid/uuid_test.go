package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("New() returned invalid uuid %q", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version 7, got %q", id)
	}
	if New() == id {
		t.Error("expected distinct ids")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(strings.ToUpper("0190a3c2-7b1e-7cc4-9f2e-0a1b2c3d4e5f"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190a3c2-7b1e-7cc4-9f2e-0a1b2c3d4e5f" {
		t.Errorf("expected canonical lowercase form, got %q", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for malformed id")
	}
}
