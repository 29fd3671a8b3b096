package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// ChangeKind says which kind of prefab file changed.
type ChangeKind int

const (
	SceneChanged ChangeKind = iota + 1
	ScriptChanged
)

func (k ChangeKind) String() string {
	switch k {
	case SceneChanged:
		return "scene"
	case ScriptChanged:
		return "script"
	}
	return "unknown"
}

// Change is one debounced edit of a scene or script file.
type Change struct {
	Path string
	Kind ChangeKind
}

// Classify returns the kind of prefab stored at p, or 0 if p is not one.
func Classify(p string) ChangeKind {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return SceneChanged
	case ".tengo":
		return ScriptChanged
	}
	return 0
}

// Watcher reports edits of scene and script files under the watched
// directories. The caller applies the reload on its own goroutine.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes Changes and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.quit)
		err = w.fs.Close()
		<-w.stopped
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.stopped)
	seen := make(map[string]time.Time)
	for {
		select {
		case <-w.quit:
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// a slow reader only misses errors, never changes
			select {
			case w.Errors <- err:
			default:
			}
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			change, ok := accept(ev, seen, time.Now())
			if !ok {
				continue
			}
			select {
			case w.Changes <- change:
			case <-w.quit:
				return
			}
		}
	}
}

// accept keeps writes of prefab files, dropping repeats of a file inside the
// debounce window.
func accept(ev fsnotify.Event, seen map[string]time.Time, now time.Time) (Change, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return Change{}, false
	}
	kind := Classify(ev.Name)
	if kind == 0 {
		return Change{}, false
	}
	if last, ok := seen[ev.Name]; ok && now.Sub(last) < watchDebounce {
		return Change{}, false
	}
	seen[ev.Name] = now
	return Change{Path: ev.Name, Kind: kind}, true
}
