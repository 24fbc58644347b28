package view

import "prompter/pkg/playback"

// Multi fans every notification out to each sink in order.
type Multi []playback.ViewSink

func (m Multi) LineAppended(text string) {
	for _, s := range m {
		s.LineAppended(text)
	}
}

func (m Multi) LogCleared() {
	for _, s := range m {
		s.LogCleared()
	}
}

func (m Multi) Notice(text string) {
	for _, s := range m {
		s.Notice(text)
	}
}

func (m Multi) Interim(text string) {
	for _, s := range m {
		s.Interim(text)
	}
}

func (m Multi) CaptureChanged(on bool) {
	for _, s := range m {
		s.CaptureChanged(on)
	}
}

func (m Multi) DisplayChanged(mode playback.DisplayMode, visible bool) {
	for _, s := range m {
		s.DisplayChanged(mode, visible)
	}
}

func (m Multi) Header(text string) {
	for _, s := range m {
		s.Header(text)
	}
}
