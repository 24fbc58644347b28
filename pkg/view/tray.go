package view

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"prompter/pkg/playback"
)

// noticeTimeout is how long a notice stays in the tray title.
const noticeTimeout = 2 * time.Second

// Tray mirrors the session into the system tray: the icon shows whether
// speech capture is on, the title carries notices and the tooltip the most
// recent line.
type Tray struct {
	mu    sync.Mutex
	count int
	timer *time.Timer

	setTitle   func(string)
	setTooltip func(string)
	setIcon    func([]byte)
	after      func(time.Duration, func()) *time.Timer

	// OnCapture, if set, follows capture mode, for menu check marks.
	OnCapture func(on bool)
}

// NewTray returns a Tray driving the running systray.
func NewTray() *Tray {
	return &Tray{
		setTitle:   systray.SetTitle,
		setTooltip: systray.SetTooltip,
		setIcon:    systray.SetIcon,
		after:      time.AfterFunc,
	}
}

func (t *Tray) LineAppended(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
	t.setTooltip(fmt.Sprintf("%d: %s", t.count, truncate(text, 60)))
}

func (t *Tray) LogCleared() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count = 0
	t.setTooltip("Prompter")
}

func (t *Tray) Notice(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.setTitle(text)
	t.timer = t.after(noticeTimeout, func() { t.setTitle("") })
}

func (t *Tray) Interim(string) {}

func (t *Tray) CaptureChanged(on bool) {
	if on {
		t.setIcon(IconListening)
	} else {
		t.setIcon(IconIdle)
	}
	if t.OnCapture != nil {
		t.OnCapture(on)
	}
}

func (t *Tray) DisplayChanged(playback.DisplayMode, bool) {}

func (t *Tray) Header(text string) {
	if text != "" {
		t.setTooltip(text)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Tray icons, drawn once at startup.
var (
	IconIdle      = dot(color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff})
	IconListening = dot(color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff})
)

// dot draws a filled 22x22 circle and encodes it as PNG.
func dot(c color.Color) []byte {
	const size = 22
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size)/2 - 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - float64(size)/2 + 0.5
			dy := float64(y) - float64(size)/2 + 0.5
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
