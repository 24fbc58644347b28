package script_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"prompter/pkg/script"
)

func TestDecode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "lines", input: `{"script": ["a", "b"]}`, want: 2},
		{name: "empty array", input: `{"script": []}`, want: 0},
		{name: "missing key", input: `{}`, wantErr: true},
		{name: "unknown key", input: `{"script": [], "extra": 1}`, wantErr: true},
		{name: "not json", input: `script: [a]`, wantErr: true},
		{name: "wrong type", input: `{"script": "a"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lines, err := script.Decode(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", lines)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(lines) != tt.want {
				t.Errorf("got %d lines, want %d", len(lines), tt.want)
			}
		})
	}
}

func TestBuiltin_LoadsShippedScripts(t *testing.T) {
	t.Parallel()
	l := script.Builtin()
	for _, id := range []string{script.AssemblyA, script.AssemblyB, script.Training} {
		lines, err := l.LoadScript(id)
		if err != nil {
			t.Fatalf("LoadScript(%q): %v", id, err)
		}
		if len(lines) == 0 {
			t.Errorf("LoadScript(%q) returned no lines", id)
		}
	}
}

func TestFSLoader_Errors(t *testing.T) {
	t.Parallel()
	l := &script.FSLoader{FS: fstest.MapFS{
		"s/bad.json": {Data: []byte(`{"script": [1, 2]}`)},
	}, Dir: "s"}

	_, err := l.LoadScript("missing")
	var le *script.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("missing script: got %T %v, want *LoadError", err, err)
	}
	if le.ID != "missing" || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadError = %+v", le)
	}

	_, err = l.LoadScript("bad")
	if !errors.As(err, &le) {
		t.Fatalf("bad script: got %T %v, want *LoadError", err, err)
	}
}

func TestFileLoader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.json")
	if err := os.WriteFile(p, []byte(`{"script": ["x", "y", "z"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	l := &script.FileLoader{
		Paths:    map[string]string{"a": p},
		Fallback: script.Builtin(),
	}
	lines, err := l.LoadScript("a")
	if err != nil {
		t.Fatalf("LoadScript(a): %v", err)
	}
	if strings.Join(lines, ",") != "x,y,z" {
		t.Errorf("lines = %v", lines)
	}

	if _, err := l.LoadScript(script.Training); err != nil {
		t.Errorf("fallback to builtin: %v", err)
	}

	noFallback := &script.FileLoader{Paths: map[string]string{"a": filepath.Join(dir, "nope.json")}}
	var le *script.LoadError
	if _, err := noFallback.LoadScript("a"); !errors.As(err, &le) {
		t.Errorf("missing file: got %v", err)
	}
	if _, err := noFallback.LoadScript("b"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("unknown id: got %v", err)
	}
}
