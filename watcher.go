package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"cardforge/pkg/card"

	"github.com/fsnotify/fsnotify"
)

// watchConfig reloads calibration coordinates into the live registry when
// the config file is rewritten on disk (an external edit or another
// instance's apply). Debounced, since editors and saves fire bursts of
// events. A malformed file is ignored and leaves the registry untouched.
// Runs until ctx is cancelled.
func watchConfig(ctx context.Context, path string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("config watcher disabled: %v", err)
		return
	}
	defer w.Close()
	// watch the directory: editors replace files, which drops a watch on
	// the file itself
	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	if err := w.Add(dir); err != nil {
		log.Printf("config watcher disabled: %v", err)
		return
	}
	log.Printf("Watching %s for calibration changes ...", path)

	base := filepath.Base(path)
	var dirty bool
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				dirty = true
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher: %v", err)
		case <-ticker.C:
			if !dirty {
				continue
			}
			dirty = false
			cfg := card.LoadConfig(path)
			if cfg.Coords == nil {
				continue
			}
			registry.Restore(cfg.Coords)
			log.Printf("reloaded calibration coordinates from %s", path)
		}
	}
}
