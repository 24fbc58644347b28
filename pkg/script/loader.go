package script

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Built-in script ids, matching the files under scripts/.
const (
	AssemblyA = "assemblya"
	AssemblyB = "assemblyb"
	Training  = "training"
)

//go:embed scripts/*.json
var builtin embed.FS

// Loader resolves a script id to its lines.
type Loader interface {
	LoadScript(id string) ([]string, error)
}

// LoadError reports a missing or malformed script resource.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("script %q: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// document is the on-disk shape: {"script": ["line", ...]}.
type document struct {
	Script []string `json:"script"`
}

// Decode parses a script document from r.
func Decode(r io.Reader) ([]string, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if doc.Script == nil {
		return nil, fmt.Errorf(`missing "script" array`)
	}
	return doc.Script, nil
}

// FSLoader loads "<id>.json" files from a filesystem.
type FSLoader struct {
	FS fs.FS
	// Dir is the directory inside FS holding the scripts.
	Dir string
}

// Builtin returns a loader over the scripts compiled into the binary.
func Builtin() *FSLoader {
	return &FSLoader{FS: builtin, Dir: "scripts"}
}

// LoadScript implements Loader.
func (l *FSLoader) LoadScript(id string) ([]string, error) {
	f, err := l.FS.Open(path.Join(l.Dir, id+".json"))
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	defer f.Close()

	lines, err := Decode(f)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	return lines, nil
}

// FileLoader maps ids to explicit file paths, falling back to Fallback for
// ids it does not know.
type FileLoader struct {
	Paths    map[string]string
	Fallback Loader
}

// LoadScript implements Loader.
func (l *FileLoader) LoadScript(id string) ([]string, error) {
	p, ok := l.Paths[id]
	if !ok || p == "" {
		if l.Fallback != nil {
			return l.Fallback.LoadScript(id)
		}
		return nil, &LoadError{ID: id, Err: fs.ErrNotExist}
	}

	f, err := os.Open(filepath.Clean(p))
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	defer f.Close()

	lines, err := Decode(f)
	if err != nil {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("%s: %w", p, err)}
	}
	return lines, nil
}
