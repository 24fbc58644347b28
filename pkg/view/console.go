package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"prompter/pkg/playback"
)

var (
	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b")).
			Width(4).
			Align(lipgloss.Right)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	interimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))
)

// Console prints the session as styled text, one notification per line.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	count  int
	hidden bool
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.w, s)
}

func (c *Console) LineAppended(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	if c.hidden {
		return
	}
	c.println(numberStyle.Render(fmt.Sprintf("%d", c.count)) + "  " + lineStyle.Render(text))
}

func (c *Console) LogCleared() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.println(dimStyle.Render(strings.Repeat("─", 40)))
}

func (c *Console) Notice(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.println(noticeStyle.Render("» " + text))
}

func (c *Console) Interim(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == "" || c.hidden {
		return
	}
	c.println(interimStyle.Render("… " + text))
}

func (c *Console) CaptureChanged(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.println(dimStyle.Render("[listening]"))
	} else {
		c.println(dimStyle.Render("[script]"))
	}
}

func (c *Console) DisplayChanged(mode playback.DisplayMode, visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden = !visible
	state := "shown"
	if !visible {
		state = "hidden"
	}
	c.println(dimStyle.Render(fmt.Sprintf("[display %s, %s]", mode, state)))
}

func (c *Console) Header(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == "" {
		return
	}
	c.println(headerStyle.Render(text))
}
