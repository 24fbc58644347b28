// Package view holds the playback.ViewSink implementations: a styled
// console, the tray status, a keyboard typer and an in-memory recorder.
package view

import (
	"fmt"
	"sync"

	"prompter/pkg/playback"
)

// Recorder keeps the rendered state in memory. It backs headless runs and
// tests, and is safe to read from other goroutines.
type Recorder struct {
	mu sync.Mutex

	lines     []string
	notices   []string
	calls     []string
	interim   string
	header    string
	capturing bool
	mode      playback.DisplayMode
	visible   bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{visible: true}
}

func (r *Recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) LineAppended(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
	r.record("append %s", text)
}

func (r *Recorder) LogCleared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	r.record("clear")
}

func (r *Recorder) Notice(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
	r.record("notice %s", text)
}

func (r *Recorder) Interim(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interim = text
	r.record("interim %s", text)
}

func (r *Recorder) CaptureChanged(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capturing = on
	r.record("capture %t", on)
}

func (r *Recorder) DisplayChanged(mode playback.DisplayMode, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
	r.visible = visible
	r.record("display %s %t", mode, visible)
}

func (r *Recorder) Header(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.header = text
	r.record("header %s", text)
}

// Lines returns a copy of the lines currently on screen.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Notices returns every notice shown so far.
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// Calls returns a trace of every notification, in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Reset forgets the call trace and notices, keeping the screen state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.notices = nil
}

// State returns the live transcription, header, capture flag and display.
func (r *Recorder) State() (interim, header string, capturing bool, mode playback.DisplayMode, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interim, r.header, r.capturing, r.mode, r.visible
}
