// Package watch observes the archive directory tree for new video files.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"musicarr/internal/domain/consts"
	"musicarr/internal/models"
	"musicarr/internal/utils/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher emits video candidates for files appearing under the archive root.
//
// Candidates flow through a bounded channel. The producer blocks when the
// channel is full rather than dropping: a dropped candidate would have no
// retry trigger, while brief detection stalls are harmless.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher
	out  chan models.VideoCandidate
	wg   sync.WaitGroup
}

// New returns a watcher for root with the given candidate queue size. The
// root and all of its current subdirectories are registered immediately.
func New(root string, queueSize int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	w := &Watcher{
		root: root,
		fsw:  fsw,
		out:  make(chan models.VideoCandidate, queueSize),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to register watch root %q: %w", root, err)
	}

	return w, nil
}

// Candidates returns the channel candidates are emitted on. It is closed
// after Start's context is cancelled and all pending emissions finished.
func (w *Watcher) Candidates() <-chan models.VideoCandidate {
	return w.out
}

// Start begins watching. It returns immediately; candidates arrive on
// Candidates() until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx)
	}()

	go func() {
		w.wg.Wait()
		close(w.out)
	}()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			w.handleCreate(ctx, event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.E("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleCreate(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		logging.D(2, "Stat failed for created path %q: %v", path, err)
		return
	}

	// New channel directory: watch it too.
	if info.IsDir() {
		if err := w.fsw.Add(path); err != nil {
			logging.E("Failed to watch new directory %q: %v", path, err)
		}
		return
	}

	cand, ok := ExtractCandidate(w.root, path)
	if !ok {
		logging.D(2, "Ignoring non-candidate path: %s", path)
		return
	}

	// Settle and emit off the watch loop so a slow write never stalls
	// detection of other files.
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := WaitForSettle(ctx, cand.SourcePath); err != nil {
			if !errors.Is(err, context.Canceled) {
				logging.W("Giving up on unsettled file %q: %v", cand.SourcePath, err)
			}
			return
		}
		select {
		case w.out <- cand:
			logging.D(1, "Detected candidate %s (channel %s)", cand.VideoID, cand.ChannelID)
		case <-ctx.Done():
		}
	}()
}

// WaitForSettle blocks until the file's size has been stable and non-zero
// across two consecutive polls, the file disappears, or the wait budget runs
// out.
func WaitForSettle(ctx context.Context, path string) error {
	ticker := time.NewTicker(consts.SettlePollInterval)
	defer ticker.Stop()

	deadline := time.Now().Add(consts.SettleMaxWait)
	prevSize := int64(-1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("file vanished while settling: %w", err)
		}

		size := info.Size()
		if size > 0 && size == prevSize {
			return nil
		}
		prevSize = size

		if time.Now().After(deadline) {
			return fmt.Errorf("file size still changing after %v", consts.SettleMaxWait)
		}
	}
}
