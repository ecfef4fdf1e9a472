// Package watch re-runs a callback when markdown files in a vault change,
// debouncing bursts of filesystem events into a single invocation.
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
)

// Watch observes the vault rooted at root until ctx is cancelled, invoking
// onChange after markdown changes have settled for the debounce interval.
// Newly created subdirectories are picked up automatically.
func Watch(ctx context.Context, root string, ignoreDirs []string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, root, ignoreDirs); err != nil {
		return fmt.Errorf("add directories to watcher: %w", err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !ignoredPath(root, event.Name, ignoreDirs) {
						if err := addDirs(watcher, event.Name, ignoreDirs); err != nil {
							log.Printf("vaultdoctor: watch new directory %s: %v", event.Name, err)
						}
					}
					continue
				}
			}
			if !relevant(root, event, ignoreDirs) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("vaultdoctor: watcher error: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			onChange()
		}
	}
}

// addDirs recursively registers root and its subdirectories, skipping
// hidden and ignored directories.
func addDirs(watcher *fsnotify.Watcher, root string, ignoreDirs []string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || contains(ignoreDirs, d.Name())) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relevant reports whether an event should trigger a re-audit: a markdown
// file created, written, removed, or renamed outside ignored directories.
func relevant(root string, event fsnotify.Event, ignoreDirs []string) bool {
	const ops = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if event.Op&ops == 0 {
		return false
	}
	if !strings.HasSuffix(strings.ToLower(event.Name), ".md") {
		return false
	}
	return !ignoredPath(root, event.Name, ignoreDirs)
}

// ignoredPath reports whether abs falls under a hidden or ignored
// directory relative to root.
func ignoredPath(root, abs string, ignoreDirs []string) bool {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") || contains(ignoreDirs, part) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
