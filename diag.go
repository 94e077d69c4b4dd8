package main

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// diagRing keeps the last few diagnostic lines for the diagnostics panel.
type diagRing struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newDiagRing(size int) *diagRing {
	return &diagRing{max: size}
}

// Write implements zapcore.WriteSyncer.
func (r *diagRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		r.lines = append(r.lines, line)
	}
	if over := len(r.lines) - r.max; over > 0 {
		r.lines = r.lines[over:]
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer.
func (r *diagRing) Sync() error { return nil }

// Lines returns a copy of the buffered lines, oldest first.
func (r *diagRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// newDiagLogger returns a logger whose debug output lands in r.
func newDiagLogger(r *diagRing) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	})
	return zap.New(zapcore.NewCore(enc, r, zapcore.DebugLevel))
}
