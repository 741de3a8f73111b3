package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"blinkaway/internal/core/model"
	"blinkaway/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange with the re-read config whenever the settings file is
// written, created or renamed into place. The directory is watched rather than
// the file so atomic replacements are seen. Watch blocks until ctx is done.
func (store *Store) Watch(ctx context.Context, debounce time.Duration, onChange func(model.TimerConfig)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(store.dir); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	fire := func() {
		config, err := store.Read()
		if err != nil {
			logger.Warnf("storage: reload settings: %v", err)
			return
		}
		onChange(config)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	target := settingsFileName
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fire)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("storage: settings watcher: %v", err)
		}
	}
}
