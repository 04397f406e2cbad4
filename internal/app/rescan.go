package app

import (
	"context"
	"io/fs"
	"path/filepath"

	"musicarr/internal/utils/logging"
	"musicarr/internal/watch"
)

// Rescan walks the archive root once and dispatches every existing video
// file through the pipeline. This is the re-drive mechanism for candidates
// whose earlier attempts ended without a ledger entry (archive outage,
// failed conversion, process restart mid-flight).
func Rescan(ctx context.Context, root string, pipe *Pipeline) {
	found := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.W("Rescan cannot access %q: %v", path, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		cand, ok := watch.ExtractCandidate(root, path)
		if !ok {
			return nil
		}

		found++
		pipe.Dispatch(ctx, cand)
		return nil
	})
	if err != nil {
		logging.W("Rescan stopped early: %v", err)
	}

	logging.I("Rescan dispatched %d candidate(s) from %s", found, root)
}
