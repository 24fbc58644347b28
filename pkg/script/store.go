// Package script holds prompter scripts: an ordered list of lines plus the
// cursor pointing at the next line to show.
package script

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a line is requested from a finished script.
var ErrOutOfRange = errors.New("script: cursor out of range")

// Store is one loaded script and its playback cursor.
// It is not safe for concurrent use; the playback loop owns it.
type Store struct {
	lines  []string
	cursor int
}

// Load creates a Store positioned at the first line.
// An empty script is valid and is complete from the start.
func Load(lines []string) *Store {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Store{lines: cp}
}

// Len returns the number of lines in the script.
func (s *Store) Len() int { return len(s.lines) }

// Cursor returns the index of the next line to be shown.
func (s *Store) Cursor() int { return s.cursor }

// IsComplete reports whether every line has been shown.
func (s *Store) IsComplete() bool {
	return s.cursor >= len(s.lines)
}

// Current returns the next line without moving the cursor.
func (s *Store) Current() (string, error) {
	if s.IsComplete() {
		return "", fmt.Errorf("%w: cursor %d, %d lines", ErrOutOfRange, s.cursor, len(s.lines))
	}
	return s.lines[s.cursor], nil
}

// Advance returns the next line and moves the cursor past it.
// On a complete script it returns ErrOutOfRange and leaves the cursor alone.
func (s *Store) Advance() (string, error) {
	line, err := s.Current()
	if err != nil {
		return "", err
	}
	s.cursor++
	return line, nil
}

// Reset rewinds the cursor to the first line.
func (s *Store) Reset() {
	s.cursor = 0
}
