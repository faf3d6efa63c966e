package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/crescentlabs/crescentbot/internal/logger"
)

// Watcher observes the knowledge directory for changes to source files
// so the index can be flagged for rebuild.
type Watcher struct {
	fs  *fsnotify.Watcher
	dir string
}

// NewWatcher creates a watcher over the knowledge directory. The docs
// subdirectory is watched too when it exists; fsnotify does not recurse.
func NewWatcher(dir string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	docs := filepath.Join(dir, docsSubdir)
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		if err := fs.Add(docs); err != nil {
			fs.Close()
			return nil, fmt.Errorf("watching %s: %w", docs, err)
		}
	}

	return &Watcher{fs: fs, dir: dir}, nil
}

// Watch emits the path of each changed knowledge source until the
// context is cancelled. Events on files that are not knowledge sources
// (editors' temp files, the index bundle) are dropped.
func (w *Watcher) Watch(ctx context.Context) <-chan string {
	changes := make(chan string)

	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !relevantOp(event.Op) || !isKnowledgeSource(event.Name) {
					continue
				}
				logger.Debug("Knowledge source changed: %s (%s)", event.Name, event.Op)
				select {
				case changes <- event.Name:
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// relevantOp reports whether the event can change loaded content.
func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

// isKnowledgeSource reports whether the path is one of the files the
// loader reads.
func isKnowledgeSource(path string) bool {
	name := filepath.Base(path)
	if name == knowledgeFile {
		return true
	}
	for _, f := range structuredFiles {
		if name == f {
			return true
		}
	}
	return docExtensions[strings.ToLower(filepath.Ext(name))]
}
