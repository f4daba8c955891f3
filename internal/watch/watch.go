// Package watch re-validates documents whenever they, or their schema,
// change on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/source"
)

// EventCallback is called with the outcome of every re-validation. err is
// nil for a valid document, a *skema.ValidationError for an invalid one, or
// a load error.
type EventCallback func(path string, err error)

// Options configures a watch.
type Options struct {
	SchemaPath string
	Docs       []string
	FullScan   bool
	// Debounce coalesces bursts of writes to the same file. Zero means
	// 100ms.
	Debounce time.Duration
}

// Watch validates every document once, then watches the schema and
// documents until ctx is cancelled. A change to the schema reloads it and
// re-validates all documents; a change to a document re-validates that
// document only.
func Watch(ctx context.Context, v *skema.Validator, opts Options, logger *slog.Logger, cb EventCallback) error {
	node, err := source.LoadSchema(opts.SchemaPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	schemaAbs, err := filepath.Abs(opts.SchemaPath)
	if err != nil {
		return err
	}
	docs := make(map[string]string, len(opts.Docs)) // abs -> as given
	dirs := map[string]struct{}{filepath.Dir(schemaAbs): {}}
	for _, d := range opts.Docs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return err
		}
		docs[abs] = d
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	// Directories are watched rather than files so that editors which
	// replace files by rename keep being observed.
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	check := func(abs string) {
		name := docs[abs]
		val, err := source.ReadFile(name)
		if err == nil {
			err = v.Check(val, node, opts.FullScan)
		}
		if err != nil {
			logger.Debug("watch: invalid", slog.String("path", name), slog.String("error", err.Error()))
		} else {
			logger.Debug("watch: valid", slog.String("path", name))
		}
		if cb != nil {
			cb(name, err)
		}
	}
	checkAll := func() {
		for _, d := range opts.Docs {
			abs, _ := filepath.Abs(d)
			check(abs)
		}
	}

	checkAll()
	logger.Info("watch: started", slog.String("schema", opts.SchemaPath), slog.Int("docs", len(opts.Docs)))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func(abs string) {
		pending[abs] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: watcher error", slog.String("error", err.Error()))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := docs[abs]; ok || abs == schemaAbs {
				schedule(abs)
			}

		case <-timerCh:
			timer, timerCh = nil, nil
			if _, ok := pending[schemaAbs]; ok {
				fresh, err := source.LoadSchema(opts.SchemaPath)
				if err != nil {
					logger.Warn("watch: schema reload failed", slog.String("path", opts.SchemaPath), slog.String("error", err.Error()))
				} else {
					if c := skema.Diff(node, fresh); c != nil {
						logger.Info("watch: schema changed", slog.Any("changes", c.ToValue()))
					}
					node = fresh
					clear(pending)
					checkAll()
					continue
				}
			}
			for abs := range pending {
				if _, ok := docs[abs]; ok {
					check(abs)
				}
			}
			clear(pending)
		}
	}
}

