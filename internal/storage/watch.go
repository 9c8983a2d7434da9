package storage

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"boxingday/internal/logx"
	"boxingday/internal/ui/preferences"

	"github.com/fsnotify/fsnotify"
)

const (
	defaultDebounce    = 250 * time.Millisecond
	restartBackoffBase = 250 * time.Millisecond
	restartBackoffMax  = 5 * time.Second
)

// Watcher reloads the settings file when it is edited outside the app.
type Watcher struct {
	configDir string
	path      string
	log       logx.Logger
	debounce  time.Duration
	onChange  func(preferences.Settings)

	mu       sync.Mutex
	lastHash uint64
}

// NewWatcher creates a Watcher for the settings file in configDir.
// onChange receives every successfully parsed settings value whose file
// content differs from the last one seen.
func NewWatcher(configDir string, log logx.Logger, onChange func(preferences.Settings)) *Watcher {
	return &Watcher{
		configDir: configDir,
		path:      SettingsPath(configDir),
		log:       log.With(logx.String("comp", "settings_watch")),
		debounce:  defaultDebounce,
		onChange:  onChange,
	}
}

// SetDebounce changes the quiet period before a reload.
func (watcher *Watcher) SetDebounce(debounce time.Duration) {
	if debounce > 0 {
		watcher.debounce = debounce
	}
}

// Sync records the current file content as seen, so the app's own saves
// do not bounce back through onChange.
func (watcher *Watcher) Sync() {
	raw, err := os.ReadFile(watcher.path)
	if err != nil {
		return
	}
	watcher.mu.Lock()
	watcher.lastHash = hashBytes(raw)
	watcher.mu.Unlock()
}

// Watch blocks until ctx is done, reloading settings after edits. A
// broken fsnotify watcher is recreated with a jittered backoff.
func (watcher *Watcher) Watch(ctx context.Context) error {
	if err := os.MkdirAll(watcher.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	file := filepath.Base(watcher.path)
	backoff := restartBackoffBase
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watcher.debounce, func() {
			if ctx.Err() == nil {
				watcher.reload()
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	wait := func() bool {
		delay := backoff + time.Duration(rng.Int63n(int64(backoff/2)+1))
		if backoff < restartBackoffMax {
			backoff = min(backoff*2, restartBackoffMax)
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
			return true
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		fsWatcher, err := fsnotify.NewWatcher()
		if err != nil {
			watcher.log.Warn("settings watch init failed", logx.Err(err))
			if !wait() {
				return nil
			}
			continue
		}
		if err := fsWatcher.Add(watcher.configDir); err != nil {
			_ = fsWatcher.Close()
			watcher.log.Warn("settings watch add failed", logx.Err(err), logx.String("dir", watcher.configDir))
			if !wait() {
				return nil
			}
			continue
		}

		backoff = restartBackoffBase
		watcher.log.Debug("settings watcher started", logx.String("path", watcher.path))

		broken := false
		for !broken {
			select {
			case <-ctx.Done():
				_ = fsWatcher.Close()
				return nil
			case event, ok := <-fsWatcher.Events:
				if !ok {
					broken = true
					break
				}
				if !strings.EqualFold(filepath.Base(event.Name), file) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-fsWatcher.Errors:
				if !ok {
					broken = true
					break
				}
				if err == nil {
					continue
				}
				watcher.log.Warn("settings watch error", logx.Err(err))
				if strings.Contains(strings.ToLower(err.Error()), "overflow") {
					schedule()
				}
			}
		}

		_ = fsWatcher.Close()
		watcher.log.Warn("settings watcher stopped; restarting")
		if !wait() {
			return nil
		}
	}
}

// reload parses the file and publishes it when its content changed.
func (watcher *Watcher) reload() bool {
	raw, err := os.ReadFile(watcher.path)
	if err != nil {
		watcher.log.Warn("settings reload failed", logx.Err(err))
		return false
	}
	hash := hashBytes(raw)

	watcher.mu.Lock()
	unchanged := hash == watcher.lastHash
	watcher.lastHash = hash
	watcher.mu.Unlock()
	if unchanged {
		watcher.log.Debug("settings unchanged; skipping reload")
		return false
	}

	settings, err := LoadSettings(watcher.configDir)
	if err != nil {
		watcher.log.Warn("settings parse failed", logx.Err(err), logx.String("path", watcher.path))
		return false
	}
	watcher.log.Info("settings reloaded", logx.String("path", watcher.path))
	if watcher.onChange != nil {
		watcher.onChange(settings)
	}
	return true
}

func hashBytes(data []byte) uint64 {
	hash := fnv.New64a()
	_, _ = hash.Write(data)
	return hash.Sum64()
}
