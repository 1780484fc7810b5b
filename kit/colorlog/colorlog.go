// Package colorlog provides slog loggers that print a colored label and level
// when attached to a terminal, and plain text otherwise.
package colorlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	reset   = "\033[0m"
	gray    = "\033[90m"
	red     = "\033[31m"
	yellow  = "\033[33m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: gray,
	slog.LevelInfo:  cyan,
	slog.LevelWarn:  yellow,
	slog.LevelError: red,
}

type Options struct {
	Out   io.Writer  // Defaults to os.Stderr.
	Level slog.Level // Defaults to slog.LevelInfo.
	// Forces colors on or off. If nil, colors are used only when Out is a terminal.
	Color *bool
}

type handler struct {
	label string
	out   io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
}

// New returns a logger labeled with the provided name, writing to stderr.
func New(label string) *slog.Logger {
	return NewWithOptions(label, nil)
}

func NewWithOptions(label string, opts *Options) *slog.Logger {
	if opts == nil {
		opts = new(Options)
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	color := isTerminal(out)
	if opts.Color != nil {
		color = *opts.Color
	}
	return slog.New(&handler{
		label: label,
		out:   out,
		level: opts.Level,
		color: color,
		mu:    new(sync.Mutex),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	h.paint(&sb, gray, ts.Format("15:04:05.000"))
	sb.WriteByte(' ')
	h.paint(&sb, levelColors[r.Level], fmt.Sprintf("%-5s", r.Level.String()))
	sb.WriteByte(' ')
	h.paint(&sb, magenta, "["+h.label+"]")
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, h.group, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *handler) writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	sb.WriteByte(' ')
	h.paint(sb, gray, key+"=")
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"") {
		val = fmt.Sprintf("%q", val)
	}
	sb.WriteString(val)
}

func (h *handler) paint(sb *strings.Builder, color, s string) {
	if !h.color || color == "" {
		sb.WriteString(s)
		return
	}
	sb.WriteString(color)
	sb.WriteString(s)
	sb.WriteString(reset)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}
