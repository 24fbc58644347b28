package script_test

import (
	"errors"
	"testing"

	"prompter/pkg/script"
)

func TestStore_CompleteAfterLenAdvances(t *testing.T) {
	t.Parallel()
	for _, lines := range [][]string{
		{"one"},
		{"one", "two"},
		{"a", "b", "c", "d", "e"},
	} {
		s := script.Load(lines)
		for i, want := range lines {
			if s.IsComplete() {
				t.Fatalf("%v: complete after %d advances", lines, i)
			}
			got, err := s.Advance()
			if err != nil {
				t.Fatalf("%v: advance %d: %v", lines, i, err)
			}
			if got != want {
				t.Errorf("advance %d = %q, want %q", i, got, want)
			}
		}
		if !s.IsComplete() {
			t.Errorf("%v: not complete after %d advances", lines, len(lines))
		}
	}
}

func TestStore_AdvanceOnCompleteFails(t *testing.T) {
	t.Parallel()
	s := script.Load([]string{"only"})
	if _, err := s.Advance(); err != nil {
		t.Fatalf("first advance: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, err := s.Advance()
		if !errors.Is(err, script.ErrOutOfRange) {
			t.Fatalf("advance on complete store: got %v, want ErrOutOfRange", err)
		}
		if s.Cursor() != 1 {
			t.Fatalf("cursor moved to %d on failed advance", s.Cursor())
		}
	}
	if _, err := s.Current(); !errors.Is(err, script.ErrOutOfRange) {
		t.Errorf("Current on complete store: got %v, want ErrOutOfRange", err)
	}
}

func TestStore_EmptyIsComplete(t *testing.T) {
	t.Parallel()
	s := script.Load(nil)
	if !s.IsComplete() {
		t.Fatal("empty script should be complete")
	}
	s.Reset()
	if !s.IsComplete() {
		t.Error("empty script should stay complete after Reset")
	}
	if _, err := s.Advance(); !errors.Is(err, script.ErrOutOfRange) {
		t.Errorf("advance on empty: got %v", err)
	}
}

func TestStore_Reset(t *testing.T) {
	t.Parallel()
	s := script.Load([]string{"one", "two"})
	s.Advance()
	s.Advance()
	s.Reset()
	if s.IsComplete() {
		t.Fatal("complete after Reset")
	}
	if got, _ := s.Current(); got != "one" {
		t.Errorf("Current after Reset = %q, want one", got)
	}
}

func TestLoad_CopiesInput(t *testing.T) {
	t.Parallel()
	lines := []string{"one", "two"}
	s := script.Load(lines)
	lines[0] = "changed"
	if got, _ := s.Current(); got != "one" {
		t.Errorf("store saw caller mutation: %q", got)
	}
}
