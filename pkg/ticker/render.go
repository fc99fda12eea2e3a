package ticker

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// WriterRenderer prints each refreshed quote set as a single marquee line.
type WriterRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterRenderer(w io.Writer) *WriterRenderer {
	return &WriterRenderer{w: w}
}

func (r *WriterRenderer) RenderQuotes(quotes []Quote) {
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		parts = append(parts, q.Display())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, strings.Join(parts, "  |  "))
}

func (r *WriterRenderer) RenderError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, "Ticker error")
}

var _ Renderer = (*WriterRenderer)(nil)
