package ui

import (
	"fmt"
	"io"
	"sync"
)

// Console renders sink writes as plain lines on a writer. It is the CLI stand-in
// for the web page's status line, badges and progress bar.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Sink = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) SetStatus(msg string, severity Severity) {
	tag := "status"
	if s := severity.String(); s != "" {
		tag = "status:" + s
	}
	c.printf("[%s] %s\n", tag, msg)
}

func (c *Console) SetBadge(badge Badge, text string) {
	c.printf("[%s] %s\n", badge, text)
}

func (c *Console) SetProgress(percent float64, label string) {
	c.printf("[progress] %.1f%% %s\n", percent, label)
}

func (c *Console) SetControl(control Control, enabled bool) {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	c.printf("[control] %s %s\n", control, state)
}

func (c *Console) SetLink(link Link, url string) {
	c.printf("[link] %s %s\n", link, url)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}
