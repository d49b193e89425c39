package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2/widget"
)

// DefaultMaxLogMessages bounds the status bar log history.
const DefaultMaxLogMessages = 100

// logEntry is one record shown in the status bar.
type logEntry struct {
	level slog.Level
	at    time.Time
	text  string
}

func (e logEntry) String() string {
	return fmt.Sprintf("%s %-5s %s", e.at.Format("15:04:05"), e.level, e.text)
}

// LogUIManager keeps the most recent log records and pages through them in
// the status bar. The label is colored by the level of the record shown.
type LogUIManager struct {
	entries []logEntry
	current int
	limit   int

	label    *widget.Label
	olderBtn *widget.Button
	newerBtn *widget.Button
}

// NewLogUIManager binds the manager to the status bar widgets. limit <= 0
// selects DefaultMaxLogMessages.
func NewLogUIManager(label *widget.Label, olderBtn, newerBtn *widget.Button, limit int) *LogUIManager {
	if limit <= 0 {
		limit = DefaultMaxLogMessages
	}
	return &LogUIManager{
		entries:  make([]logEntry, 0, limit),
		current:  -1,
		limit:    limit,
		label:    label,
		olderBtn: olderBtn,
		newerBtn: newerBtn,
	}
}

// Add records a log line and jumps to it. Must run on the fyne goroutine.
func (lm *LogUIManager) Add(level slog.Level, at time.Time, text string) {
	lm.entries = append(lm.entries, logEntry{level: level, at: at, text: text})
	if over := len(lm.entries) - lm.limit; over > 0 {
		lm.entries = lm.entries[over:]
	}
	lm.current = len(lm.entries) - 1
	lm.refresh()
}

// Older shows the previous record, if any.
func (lm *LogUIManager) Older() {
	if lm.current > 0 {
		lm.current--
		lm.refresh()
	}
}

// Newer shows the next record, if any.
func (lm *LogUIManager) Newer() {
	if lm.current < len(lm.entries)-1 {
		lm.current++
		lm.refresh()
	}
}

// Messages returns the text of the retained records, oldest first.
func (lm *LogUIManager) Messages() []string {
	out := make([]string, len(lm.entries))
	for i, e := range lm.entries {
		out[i] = e.text
	}
	return out
}

func (lm *LogUIManager) refresh() {
	if lm.label == nil {
		return
	}
	if len(lm.entries) == 0 {
		lm.label.Importance = widget.MediumImportance
		lm.label.SetText("")
		setEnabled(lm.olderBtn, false)
		setEnabled(lm.newerBtn, false)
		return
	}
	e := lm.entries[lm.current]
	lm.label.Importance = importanceOf(e.level)
	lm.label.SetText(fmt.Sprintf("[%d/%d] %s", lm.current+1, len(lm.entries), e))
	setEnabled(lm.olderBtn, lm.current > 0)
	setEnabled(lm.newerBtn, lm.current < len(lm.entries)-1)
}

func importanceOf(level slog.Level) widget.Importance {
	switch {
	case level >= slog.LevelError:
		return widget.DangerImportance
	case level >= slog.LevelWarn:
		return widget.WarningImportance
	default:
		return widget.MediumImportance
	}
}

func setEnabled(b *widget.Button, on bool) {
	if b == nil {
		return
	}
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// statusHandler tees slog records at Info and above into the status bar.
type statusHandler struct {
	slog.Handler
	emit  func(level slog.Level, at time.Time, text string)
	attrs []slog.Attr
}

func newStatusHandler(next slog.Handler, emit func(slog.Level, time.Time, string)) *statusHandler {
	return &statusHandler{Handler: next, emit: emit}
}

func (h *statusHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelInfo && h.emit != nil {
		h.emit(r.Level, r.Time, formatRecord(r, h.attrs))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *statusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &statusHandler{Handler: h.Handler.WithAttrs(attrs), emit: h.emit, attrs: merged}
}

func (h *statusHandler) WithGroup(name string) slog.Handler {
	return &statusHandler{Handler: h.Handler.WithGroup(name), emit: h.emit, attrs: h.attrs}
}

// formatRecord renders a record as "message key=value ...".
func formatRecord(r slog.Record, attrs []slog.Attr) string {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range attrs {
		write(a)
	}
	r.Attrs(write)
	return b.String()
}
