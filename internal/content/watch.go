package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval batches bursts of file events into one reload
const DebounceInterval = 100 * time.Millisecond

// Watch reloads the store whenever markdown or YAML files under the
// content dir change, until ctx is done
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.addDirs(watcher, s.dir); err != nil {
		return err
	}
	s.logger.Info("watching content", "dir", s.dir)

	debounce := time.NewTimer(DebounceInterval)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	var pending []fsnotify.Event

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// New directories need their own watch
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := s.addDirs(watcher, event.Name); err != nil {
						s.logger.Warn("watching new directory", "dir", event.Name, "error", err)
					}
				}
			}

			if !isRelevantFile(event.Name) {
				continue
			}
			pending = append(pending, event)
			debounce.Reset(DebounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", err)

		case <-debounce.C:
			events := pending
			pending = nil
			if len(events) == 0 {
				continue
			}

			s.logger.Debug("content changed", "events", len(events), "first", events[0].Name)
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("reloading content", "error", err)
			}
		}
	}
}

func (s *Store) addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Skip hidden directories
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isRelevantFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".yaml" || ext == ".yml"
}
