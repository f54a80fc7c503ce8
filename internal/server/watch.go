package server

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/agentstation/exseq/pkg/errors"
)

// debounce collapses the bursts of events a single regeneration produces.
const debounce = 200 * time.Millisecond

type watcher struct {
	root     string
	fsw      *fsnotify.Watcher
	logger   *zerolog.Logger
	onChange func(paths []string)
}

func newWatcher(root string, logger *zerolog.Logger, onChange func([]string)) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapIO("watch", root, err)
	}
	w := &watcher{root: root, fsw: fsw, logger: logger, onChange: onChange}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and every non-hidden directory below it.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && ignored(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return errors.WrapIO("watch", p, err)
		}
		return nil
	})
}

// ignored skips dot files, which include the temp files atomic writes
// create next to their target.
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

func (w *watcher) run(ctx context.Context) error {
	defer w.fsw.Close() //nolint:errcheck // shutting down

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ignored(filepath.Base(ev.Name)) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", ev.Name).Msg("Failed to watch new directory")
					}
				}
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				rel = ev.Name
			}
			pending[filepath.ToSlash(rel)] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			w.onChange(paths)
		}
	}
}
