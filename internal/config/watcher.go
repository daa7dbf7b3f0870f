package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Event is sent when the watched configuration file changes
type Event struct {
	Path string
}

// Watch reports changes to the file at path on the returned channel. The
// parent directory is watched so editors that replace the file on save are
// seen. Bursts of events are coalesced over debounce; watcher errors are
// logged to logger. Call stop to tear the watcher down; the channel is
// closed afterwards.
func Watch(path string, debounce time.Duration, logger zerolog.Logger) (<-chan Event, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	fw := &fileWatcher{
		path:     path,
		name:     filepath.Base(path),
		debounce: debounce,
		log:      logger,
		out:      make(chan Event, 1),
	}
	done := make(chan struct{})

	go func() {
		defer close(fw.out)
		fw.run(w.Events, w.Errors, done)
	}()

	stop := func() {
		close(done)
		_ = w.Close()
	}
	return fw.out, stop, nil
}

type fileWatcher struct {
	path     string
	name     string
	debounce time.Duration
	log      zerolog.Logger
	out      chan Event
}

// run coalesces events for the watched file until one of the inputs closes
func (fw *fileWatcher) run(events <-chan fsnotify.Event, errs <-chan error, done <-chan struct{}) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != fw.name || shouldIgnore(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
		case <-timerChan(timer):
			timer = nil
			select {
			case fw.out <- Event{Path: fw.path}:
			default:
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			fw.log.Warn().Err(err).Str("path", fw.path).Msg("config watcher error")
		case <-done:
			return
		}
	}
}

// timerChan returns the timer's channel, or nil if there is no timer
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// shouldIgnore drops events that do not change the file contents
func shouldIgnore(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(ev.Name)
	return strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~")
}
