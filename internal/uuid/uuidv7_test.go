package uuid

import (
	"strings"
	"testing"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("New() = %q, not a valid UUID", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version nibble 7, got %q in %s", id[14], id)
	}
}

func TestNewIsTimeOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		if next <= prev {
			t.Fatalf("expected %s > %s", next, prev)
		}
		prev = next
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(strings.ToUpper("0190a6f4-3c2b-7d4e-8f00-123456789abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190a6f4-3c2b-7d4e-8f00-123456789abc" {
		t.Errorf("expected canonical lowercase, got %s", got)
	}

	if _, err := Parse("42"); err == nil {
		t.Error("expected error for non-UUID input")
	}
	if IsValid("not-a-uuid") {
		t.Error("IsValid accepted garbage")
	}
}
