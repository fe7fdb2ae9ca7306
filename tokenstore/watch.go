package tokenstore

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies a callback whenever the token file changes on disk,
// letting a long-running process pick up a token written by another process
// (e.g. a companion CLI that completed the handshake interactively) without
// restarting.
type Watcher struct {
	store  *Store
	fsw    *fsnotify.Watcher
	log    *slog.Logger
	cancel context.CancelFunc
}

// NewWatcher creates a Watcher over store's file. Call Start to begin
// watching; the returned Watcher is otherwise inert.
func NewWatcher(store *Store, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Watcher{store: store, fsw: fsw, log: log}, nil
}

// Start watches the token file's directory and invokes onChange with the
// freshly loaded token whenever the file is written. Start returns once the
// watch is registered; the event loop runs in the background until ctx is
// done or Close is called.
func (w *Watcher) Start(ctx context.Context, onChange func(token string)) error {
	dir := filepath.Dir(w.store.path)
	if err := w.fsw.Add(dir); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if event.Name != w.store.path {
					continue
				}
				if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}
				token, err := w.store.Load()
				if err != nil {
					w.log.Warn("failed to reload token file after change", "error", err)
					continue
				}
				onChange(token)
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.log.Warn("token file watch error", "error", err)
			}
		}
	}()

	return nil
}

// Close stops the watch.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.fsw.Close()
}
