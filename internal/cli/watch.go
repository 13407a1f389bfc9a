package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/httputil"
)

// defaultDebounce is how long the watcher waits for writes to settle.
const defaultDebounce = 300 * time.Millisecond

// watchCommand creates the watch command that re-renders on every change.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		src      sourceFlags
		out      outputFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [input]",
		Short: "Re-render a treemap whenever its source document changes",
		Long: `Watch a source document and re-render it whenever it is written.

Rapid successive writes are coalesced; the render runs once the file has been
quiet for the debounce period. Stop with Ctrl-C.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSourceFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" || httputil.IsURL(args[0]) {
				return fmt.Errorf("watch needs a local file")
			}
			opts, err := src.options(cmd, c.cfg(), args[0])
			if err != nil {
				return err
			}
			if err := out.apply(cmd, c.cfg(), &opts); err != nil {
				return err
			}
			req := renderRequest{opts: opts, output: out.output, nodelink: out.nodelink}
			return c.runWatch(cmd.Context(), req, src.noCache, debounce)
		},
	}

	src.register(cmd)
	out.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-rendering")

	return cmd
}

// runWatch renders once, then again after every settled change to the input.
func (c *CLI) runWatch(ctx context.Context, req renderRequest, noCache bool, debounce time.Duration) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var mu sync.Mutex
	render := func() {
		mu.Lock()
		defer mu.Unlock()
		p := newProgress(logger)
		paths, cached, err := c.renderOnce(ctx, runner, req)
		if err != nil {
			logger.Error("render failed", "error", err)
			return
		}
		p.done("rendered", "files", len(paths), "cached", cached)
		for _, path := range paths {
			printFile(path)
		}
	}
	render()

	w, err := newFileWatcher(req.opts.Input, debounce, render)
	if err != nil {
		return err
	}
	// Runs before runner.Close, so no render is still using the cache.
	defer w.Close()

	printInfo("Watching %s (Ctrl-C to stop)", req.opts.Input)
	return w.Run(ctx, func(err error) { logger.Warn("watcher error", "error", err) })
}

// fileWatcher calls onChange once a watched file has stopped changing.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temporary file are still seen.
type fileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()

	mu       sync.Mutex
	timer    *time.Timer
	closed   bool
	inflight sync.WaitGroup
}

func newFileWatcher(path string, debounce time.Duration, onChange func()) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &fileWatcher{path: abs, watcher: watcher, debounce: debounce, onChange: onChange}, nil
}

// Run processes events until ctx is done or the watcher is closed.
func (w *fileWatcher) Run(ctx context.Context, onError func(error)) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// relevant reports whether event changes the watched file's content.
func (w *fileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule restarts the debounce timer.
func (w *fileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire runs onChange unless the watcher has been closed. Close waits for a
// running call to return.
func (w *fileWatcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()

	defer w.inflight.Done()
	w.onChange()
}

func (w *fileWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Close stops watching and waits for a change callback that is already
// running.
func (w *fileWatcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.inflight.Wait()
	return w.watcher.Close()
}
