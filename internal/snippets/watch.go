package snippets

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the bursts of events editors produce on save.
const reloadDelay = 200 * time.Millisecond

// ReloadFunc is told the outcome of each reseed.
type ReloadFunc func(count int, err error)

// Watch reseeds the store from seedPath each time the file is written or
// replaced, until ctx is cancelled. The directory is watched rather than
// the file so rename-on-save editors keep working. A bad seed file leaves
// the store unchanged and is reported through onReload.
func (s *Store) Watch(ctx context.Context, seedPath string, onReload ReloadFunc) error {
	abs, err := filepath.Abs(seedPath)
	if err != nil {
		return fmt.Errorf("resolve seed path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	reload := func() {
		snippets, err := LoadSeedFile(abs)
		if err == nil {
			err = s.Seed(ctx, snippets)
		}
		if onReload != nil {
			onReload(len(snippets), err)
		}
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(0, fmt.Errorf("watcher: %w", err))
			}
		}
	}
}
