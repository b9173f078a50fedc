// Package graphoutput is the sink graph components write user-facing lines
// to. Components receive an Output explicitly; there is no process-wide sink.
package graphoutput

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Kind classifies a line.
type Kind int

const (
	User Kind = iota
	Logging
	Debug
	GraphWarning
	GraphError
)

func (k Kind) String() string {
	switch k {
	case User:
		return "user"
	case Logging:
		return "logging"
	case Debug:
		return "debug"
	case GraphWarning:
		return "warning"
	case GraphError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Output receives lines produced while editing or restoring a graph.
type Output interface {
	AppendLine(line string, kind Kind)
	Clear()
}

// Discard drops everything.
var Discard Output = discard{}

type discard struct{}

func (discard) AppendLine(string, Kind) {}
func (discard) Clear()                  {}

// LogOutput forwards lines to a slog.Logger.
type LogOutput struct {
	logger *slog.Logger
}

// NewLogOutput returns an Output writing to logger, or slog.Default when
// logger is nil.
func NewLogOutput(logger *slog.Logger) *LogOutput {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogOutput{logger: logger}
}

// Level maps a kind to the slog level LogOutput uses for it.
func Level(k Kind) slog.Level {
	switch k {
	case Debug:
		return slog.LevelDebug
	case GraphWarning:
		return slog.LevelWarn
	case GraphError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (o *LogOutput) AppendLine(line string, kind Kind) {
	o.logger.Log(context.Background(), Level(kind), line, "kind", kind.String())
}

// Clear is a no-op; log lines cannot be withdrawn.
func (o *LogOutput) Clear() {}

// Line is one buffered entry.
type Line struct {
	Text string
	Kind Kind
}

// Buffer keeps lines in memory. The zero value is ready to use.
type Buffer struct {
	mu    sync.Mutex
	lines []Line
}

func (b *Buffer) AppendLine(line string, kind Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, Line{Text: line, Kind: kind})
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Lines returns a snapshot of the buffered entries.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Line(nil), b.lines...)
}

// Filter returns the buffered texts of the given kind.
func (b *Buffer) Filter(kind Kind) []string {
	var out []string
	for _, l := range b.Lines() {
		if l.Kind == kind {
			out = append(out, l.Text)
		}
	}
	return out
}

func (b *Buffer) String() string {
	var sb strings.Builder
	for _, l := range b.Lines() {
		fmt.Fprintf(&sb, "[%s] %s\n", l.Kind, l.Text)
	}
	return sb.String()
}
