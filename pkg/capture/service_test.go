package capture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSource sends one chunk then waits for cancellation.
type fakeSource struct {
	started atomic.Int32
	stopped chan struct{}
	end     bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{stopped: make(chan struct{}, 8)}
}

func (f *fakeSource) Stream(ctx context.Context, out chan<- []int16) error {
	f.started.Add(1)
	defer func() { f.stopped <- struct{}{} }()
	select {
	case out <- []int16{1, 2, 3}:
	case <-ctx.Done():
		return nil
	}
	if f.end {
		return nil
	}
	<-ctx.Done()
	return nil
}

// fakeRecognizer runs one scripted step per call.
type fakeRecognizer struct {
	mu    sync.Mutex
	calls int
	steps []func(ctx context.Context, audio <-chan []int16, emit func(Result)) error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, audio <-chan []int16, emit func(Result)) error {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()
	if i < len(f.steps) {
		return f.steps[i](ctx, audio, emit)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeRecognizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	t.Parallel()
	if _, err := New(nil, &fakeRecognizer{}, nil); err == nil {
		t.Error("expected error for nil source")
	}
	if _, err := New(newFakeSource(), nil, nil); err == nil {
		t.Error("expected error for nil recognizer")
	}
}

func TestService_DeliversResults(t *testing.T) {
	t.Parallel()
	rec := &fakeRecognizer{steps: []func(context.Context, <-chan []int16, func(Result)) error{
		func(ctx context.Context, audio <-chan []int16, emit func(Result)) error {
			<-audio
			emit(Result{Text: "hel"})
			emit(Result{Text: "hello", Final: true})
			<-ctx.Done()
			return ctx.Err()
		},
	}}
	src := newFakeSource()
	s, err := New(src, rec, nil)
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var interim, final []string
	s.OnInterim = func(text string) {
		mu.Lock()
		defer mu.Unlock()
		interim = append(interim, text)
	}
	s.OnFinal = func(text string) {
		mu.Lock()
		defer mu.Unlock()
		final = append(final, text)
	}

	s.Start()
	s.Start() // second start is a no-op
	if !s.Running() {
		t.Fatal("not running after Start")
	}
	waitFor(t, "final result", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(final) == 1
	})

	s.Close()
	if s.Running() {
		t.Error("running after Close")
	}
	if got := src.started.Load(); got != 1 {
		t.Errorf("source started %d times, want 1", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(interim) != 1 || interim[0] != "hel" {
		t.Errorf("interim = %v", interim)
	}
	if final[0] != "hello" {
		t.Errorf("final = %v", final)
	}
}

func TestService_ReopensEndedStream(t *testing.T) {
	t.Parallel()
	rec := &fakeRecognizer{steps: []func(context.Context, <-chan []int16, func(Result)) error{
		func(context.Context, <-chan []int16, func(Result)) error { return nil },
		func(context.Context, <-chan []int16, func(Result)) error { return nil },
	}}
	s, err := New(newFakeSource(), rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	waitFor(t, "third stream", func() bool { return rec.Calls() >= 3 })
	s.Close()
}

func TestService_ErrorStopsCapture(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	rec := &fakeRecognizer{steps: []func(context.Context, <-chan []int16, func(Result)) error{
		func(context.Context, <-chan []int16, func(Result)) error { return boom },
	}}
	src := newFakeSource()
	s, err := New(src, rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	errCh := make(chan error, 1)
	stopped := make(chan struct{}, 1)
	s.OnError = func(err error) { errCh <- err }
	s.OnStop = func() { stopped <- struct{}{} }

	s.Start()
	select {
	case err := <-errCh:
		if !errors.Is(err, boom) {
			t.Errorf("OnError got %v, want boom", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnError not called")
	}
	waitFor(t, "capture to stop", func() bool { return !s.Running() })
	select {
	case <-stopped:
	default:
		t.Error("OnStop not called after failure")
	}
	s.Close()
}

func TestService_StaleErrorNotReported(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	rec := &fakeRecognizer{steps: []func(context.Context, <-chan []int16, func(Result)) error{
		func(context.Context, <-chan []int16, func(Result)) error {
			<-release
			return errors.New("late failure")
		},
	}}
	s, err := New(newFakeSource(), rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	var reported atomic.Int32
	s.OnError = func(error) { reported.Add(1) }

	s.Start()
	waitFor(t, "first stream", func() bool { return rec.Calls() == 1 })
	s.Stop()
	s.Start()
	waitFor(t, "second stream", func() bool { return rec.Calls() == 2 })
	close(release)
	s.Close()

	if n := reported.Load(); n != 0 {
		t.Errorf("OnError called %d times for a stopped capture", n)
	}
}

func TestService_SourceEnded(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.end = true
	rec := &fakeRecognizer{steps: []func(context.Context, <-chan []int16, func(Result)) error{
		func(ctx context.Context, audio <-chan []int16, emit func(Result)) error {
			for range audio {
			}
			return nil
		},
	}}
	s, err := New(src, rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	errCh := make(chan error, 1)
	s.OnError = func(err error) { errCh <- err }
	s.Start()
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrSourceEnded) {
			t.Errorf("got %v, want ErrSourceEnded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnError not called")
	}
	s.Close()
}

func TestBoostClips(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   int16
		gain float64
		want int16
	}{
		{in: 100, gain: 32, want: 3200},
		{in: 2000, gain: 32, want: 32767},
		{in: -2000, gain: 32, want: -32768},
		{in: -5, gain: 1, want: -5},
	}
	for _, tt := range tests {
		if got := boost(tt.in, tt.gain); got != tt.want {
			t.Errorf("boost(%d, %v) = %d, want %d", tt.in, tt.gain, got, tt.want)
		}
	}
}

func TestPCMBytesLittleEndian(t *testing.T) {
	t.Parallel()
	got := pcmBytes([]int16{0x0102, -1})
	want := []byte{0x02, 0x01, 0xff, 0xff}
	if string(got) != string(want) {
		t.Errorf("pcmBytes = %x, want %x", got, want)
	}
}
