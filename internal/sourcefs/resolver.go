package sourcefs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Resolver reads import targets that are not open client documents from
// disk under a base directory, caching the result and invalidating that
// cache when fsnotify reports the underlying file changed, so an edit made
// outside the editor to an imported library file is picked up on the next
// compile rather than serving stale cached text.
type Resolver struct {
	basePath string
	watcher  *fsnotify.Watcher

	mu    sync.Mutex
	cache map[string]string
}

// NewResolver builds a Resolver rooted at basePath, watches basePath itself
// for changes, and starts its fsnotify watch loop. Callers must call Close
// when done. Use WatchDir for any imported subdirectory fsnotify doesn't
// cover recursively.
func NewResolver(basePath string) (*Resolver, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	r := &Resolver{basePath: basePath, watcher: watcher, cache: map[string]string{}}
	if err := watcher.Add(basePath); err != nil {
		watcher.Close()
		return nil, err
	}
	go r.watchLoop()
	return r, nil
}

// WatchDir adds dir (relative to basePath) to the fsnotify watch set.
func (r *Resolver) WatchDir(dir string) error {
	return r.watcher.Add(filepath.Join(r.basePath, dir))
}

func (r *Resolver) watchLoop() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				r.invalidate(r.relativePath(event.Name))
			}
		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (r *Resolver) relativePath(abs string) string {
	rel, err := filepath.Rel(r.basePath, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

func (r *Resolver) invalidate(path string) {
	r.mu.Lock()
	delete(r.cache, path)
	r.mu.Unlock()
}

// Resolve reads path's contents relative to basePath, consulting the cache
// first.
func (r *Resolver) Resolve(path string) (string, error) {
	r.mu.Lock()
	cached, ok := r.cache[path]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(filepath.Join(r.basePath, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[path] = string(data)
	r.mu.Unlock()
	return string(data), nil
}

// Close stops the watch loop.
func (r *Resolver) Close() error {
	return r.watcher.Close()
}
