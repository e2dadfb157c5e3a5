package logging

import (
	"io"
	"strings"
)

// Options selects and configures a Logger implementation.
type Options struct {
	Backend string // "slog" (default) or "zap"
	Level   string
	File    string // zap only
}

// New builds the Logger described by opts. Slog output goes to w.
func New(w io.Writer, opts Options) Logger {
	if strings.EqualFold(opts.Backend, "zap") {
		return NewZapProduction(ZapOptions{Level: opts.Level, File: opts.File})
	}
	return NewJSONSlogLogger(w, opts.Level)
}
