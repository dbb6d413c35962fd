package asset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads assets when files under the asset root change on disk.
// A reload fires once a file has been quiet for reloadDebounce.
type Watcher struct {
	watcher *fsnotify.Watcher
	server  *Server
	root    string
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewWatcher watches root and every directory below it, including
// directories created later. root must be the on-disk directory the server's
// fs.FS was opened on.
func NewWatcher(server *Server, root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		server:  server,
		root:    root,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		timers:  make(map[string]*time.Timer),
	}
	if err := watcher.addTree(root); err != nil {
		_ = w.Close()
		return nil, err
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()

		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						log.Warn().Err(err).Str("dir", event.Name).Msg("asset watcher could not watch directory")
					}
					continue
				}
			}
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("asset watcher error")
		case <-w.closeCh:
			return
		}
	}
}

// schedule (re)arms the reload timer for name, so a burst of writes yields a
// single reload after the last one.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[name]; ok {
		t.Reset(reloadDebounce)
		return
	}
	w.timers[name] = time.AfterFunc(reloadDebounce, func() { w.fire(name) })
}

func (w *Watcher) fire(name string) {
	w.mu.Lock()
	delete(w.timers, name)
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return
	}
	if n := w.server.ReloadDependents(filepath.ToSlash(rel)); n > 0 {
		log.Info().Str("file", rel).Int("assets", n).Msg("reloading changed assets")
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
