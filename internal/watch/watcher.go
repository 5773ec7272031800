// Package watch reloads and reports a schedule whenever its spec file
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/msageha/planwright/internal/schedule"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// debounceWindow coalesces the burst of events editors emit per save.
const debounceWindow = 200 * time.Millisecond

// Watcher reloads the spec at path on every change and hands the result
// to OnReload. Validation failures are logged and skipped; the last good
// schedule stays current.
type Watcher struct {
	path     string
	logger   *log.Logger
	logLevel LogLevel
	onReload func(*schedule.Schedule)
}

func New(path string, logLevel LogLevel, onReload func(*schedule.Schedule)) *Watcher {
	return &Watcher{
		path:     path,
		logger:   log.New(os.Stderr, "", log.LstdFlags),
		logLevel: logLevel,
		onReload: onReload,
	}
}

func (w *Watcher) log(level LogLevel, format string, args ...any) {
	if level < w.logLevel {
		return
	}
	labels := map[LogLevel]string{
		LogLevelDebug: "DEBUG",
		LogLevelInfo:  "INFO",
		LogLevelWarn:  "WARN",
		LogLevelError: "ERROR",
	}
	w.logger.Printf("[%s] %s", labels[level], fmt.Sprintf(format, args...))
}

// Run watches until ctx is cancelled. It loads once up front so the
// caller sees the current schedule immediately.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files by rename
	// and the watch would die with the old inode.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.reload()

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			w.log(LogLevelDebug, "fsnotify event=%s file=%s", event.Op, event.Name)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log(LogLevelError, "fsnotify error=%v", err)
		}
	}
}

func (w *Watcher) reload() {
	text, err := os.ReadFile(w.path)
	if err != nil {
		w.log(LogLevelError, "read spec: %v", err)
		return
	}
	s, err := schedule.Load(text)
	if err != nil {
		w.log(LogLevelWarn, "spec rejected: %v", err)
		return
	}
	_, end, _ := s.ProjectDates()
	w.log(LogLevelInfo, "schedule reloaded: %d tasks, project end %s",
		len(s.Order), end.Format("2006-01-02"))
	if w.onReload != nil {
		w.onReload(s)
	}
}
