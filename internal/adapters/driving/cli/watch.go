package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/project"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// watchDebounce batches the bursts of events a single save produces.
const watchDebounce = 300 * time.Millisecond

// watchProject calls onChange each time changes to the project at path
// settle, until ctx is done. A directory project is watched together with its
// Data directory; a file project (archive or index) is watched on its own.
func watchProject(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	match := func(string) bool { return true }
	if info.IsDir() {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		if data := filepath.Join(path, project.DataDir); isDir(data) {
			if err := watcher.Add(data); err != nil {
				return fmt.Errorf("watching %s: %w", data, err)
			}
		}
	} else {
		// Editors replace files on save, so watch the parent.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		match = func(name string) bool { return filepath.Clean(name) == path }
	}
	logger.Debug("watching %s", path)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || !match(event.Name) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// relevant reports whether an event can change the project contents.
// Hidden and temporary files are skipped.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".") && !strings.HasSuffix(base, ".tmp") && !strings.HasSuffix(base, "~")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
