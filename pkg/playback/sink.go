package playback

// ViewSink receives render notifications. All calls happen on the playback
// loop goroutine.
type ViewSink interface {
	// LineAppended means text was added to the end of the log; the view
	// should insert it and scroll to it.
	LineAppended(text string)
	LogCleared()
	// Notice is a short transient message.
	Notice(text string)
	// Interim replaces the live transcription text. Empty clears it.
	Interim(text string)
	CaptureChanged(on bool)
	DisplayChanged(mode DisplayMode, visible bool)
	// Header replaces the header line. Empty clears it.
	Header(text string)
}

// SpeechCapture controls continuous transcription. Both calls are fire and
// forget; results come back as Interim and Final events.
type SpeechCapture interface {
	Start()
	Stop()
}

// NopSink ignores every notification. Embed it to implement part of ViewSink.
type NopSink struct{}

func (NopSink) LineAppended(string) {}
func (NopSink) LogCleared() {}
func (NopSink) Notice(string) {}
func (NopSink) Interim(string) {}
func (NopSink) CaptureChanged(bool) {}
func (NopSink) DisplayChanged(DisplayMode, bool) {}
func (NopSink) Header(string) {}

// NopCapture is a SpeechCapture that does nothing.
type NopCapture struct{}

func (NopCapture) Start() {}
func (NopCapture) Stop() {}
