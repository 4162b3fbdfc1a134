// Package watch monitors a data directory for genealogy file changes so
// the CLI can re-import them without being restarted.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // .ged file written or created
	ChangeRemoved                    // .ged file deleted
)

// Change represents a detected change in the data directory.
type Change struct {
	Kind ChangeKind
	File string // Absolute path
}

// Watcher monitors a directory for .ged file changes using fsnotify.
type Watcher struct {
	Dir     string
	Changes <-chan Change // Read-only external channel

	changes chan Change // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for the given data directory.
func New(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the data directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: editors produce clusters of writes per save.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.emit(file)
				}
				return
			}

			if !isGedcomFile(event.Name) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				pending[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.emit(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func isGedcomFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(filepath.Base(name)), ".ged")
}

func (w *Watcher) emit(file string) {
	kind := ChangeModified
	if _, err := os.Stat(file); os.IsNotExist(err) {
		kind = ChangeRemoved
	}
	w.changes <- Change{Kind: kind, File: file}
}
