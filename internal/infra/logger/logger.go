// Package logger owns the process-wide structured logger. Records are JSON
// lines appended to <workspace>/.xferbot/logs/xferbot.log; until Setup runs
// (and after cleanup) everything is discarded.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Location of the log file relative to the workspace root.
const (
	Dir      = ".xferbot/logs"
	FileName = "xferbot.log"
)

type Config struct {
	Root  string
	Debug bool
}

var (
	mu      sync.RWMutex
	global  = Discard()
	logFile *os.File
	logPath string
)

// Setup opens the workspace log and installs it as the global logger. Debug
// lowers the level to include per-primitive instrument records and adds
// source locations.
func Setup(cfg Config) (func() error, error) {
	root := filepath.Clean(cfg.Root)

	dir := filepath.Join(root, filepath.FromSlash(Dir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		reset()
		return nil, err
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, err
	}

	l := slog.New(newHandler(f, cfg.Debug))

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	cleanup := func() error {
		mu.Lock()
		f := logFile
		mu.Unlock()
		reset()
		if f != nil {
			return f.Close()
		}
		return nil
	}
	return cleanup, nil
}

func newHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// ForRun returns a child of the global logger tagging every record with the
// run it belongs to, so protocol comments and instrument calls of one run
// can be grepped together.
func ForRun(runID, manifest string) *slog.Logger {
	return L().With(
		slog.String("run_id", runID),
		slog.String("manifest", manifest),
	)
}

// Path is the active log file, or "" when logging is discarded.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	global = Discard()
	logFile = nil
	logPath = ""
}
