package settings

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads settings whenever the file at path changes and hands
// the result to onChange. The parent directory is watched rather than
// the file itself because editors and the settings UI replace the
// file by rename, which drops a watch on the file's inode.
//
// The returned stop function releases the watcher.
func Watch(path string, onChange func(Settings)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch settings dir %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				loaded, loadErr := Load(path)
				if loadErr != nil {
					log.Printf("settings reload failed: %v", loadErr)
					continue
				}
				onChange(loaded)
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("settings watcher error: %v", watchErr)
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}
