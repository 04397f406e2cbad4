package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"musicarr/internal/archive"
	"musicarr/internal/convert"
	"musicarr/internal/database"
	"musicarr/internal/repo"
	"musicarr/internal/utils/logging"
	"musicarr/internal/watch"
)

// candidateQueueSize bounds the watcher-to-pipeline channel.
const candidateQueueSize = 64

// Settings carries the resolved configuration the daemon runs with.
type Settings struct {
	ArchiveDir   string
	MusicDir     string
	DBFile       string
	LogDir       string
	APIURL       string
	APIToken     string
	CookieSource string
	Rescan       bool
}

// Run starts the watch daemon and blocks until ctx is cancelled. Startup
// problems (unreadable directories, unusable ledger path) abort with an
// error before any processing begins.
func Run(ctx context.Context, s Settings) error {
	if err := validateDirs(s); err != nil {
		return err
	}

	if err := logging.SetupLogging(s.LogDir); err != nil {
		fmt.Printf("could not set up log file, proceeding with console only: %v\n", err)
	}
	defer logging.Close()

	dbc, err := database.InitDB(s.DBFile)
	if err != nil {
		return fmt.Errorf("ledger store unusable: %w", err)
	}
	defer dbc.Close()

	store := repo.NewLedgerStore(dbc.DB)

	count, err := store.Count()
	if err != nil {
		return fmt.Errorf("ledger store unusable: %w", err)
	}

	logging.I("Archive directory: %s", s.ArchiveDir)
	logging.I("Music directory: %s", s.MusicDir)
	logging.I("Converted videos recorded so far: %d", count)

	oracle := archive.NewClient(s.APIURL, s.APIToken, &http.Client{})
	converter := convert.NewConverter(s.MusicDir, s.CookieSource)
	pipe := NewPipeline(store, oracle, converter)

	watcher, err := watch.New(s.ArchiveDir, candidateQueueSize)
	if err != nil {
		return fmt.Errorf("cannot watch archive directory: %w", err)
	}
	watcher.Start(ctx)
	logging.I("Watching %s for new videos", s.ArchiveDir)

	if s.Rescan {
		go Rescan(ctx, s.ArchiveDir, pipe)
	}

	for cand := range watcher.Candidates() {
		pipe.Dispatch(ctx, cand)
	}

	// In-flight conversions wind down once their contexts cancel; no ledger
	// entry is ever written for an abandoned attempt.
	pipe.Wait()
	logging.I("musicarr shut down")
	return nil
}

func validateDirs(s Settings) error {
	info, err := os.Stat(s.ArchiveDir)
	if err != nil {
		return fmt.Errorf("archive directory unreadable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive path %q is not a directory", s.ArchiveDir)
	}

	info, err = os.Stat(s.MusicDir)
	if err != nil {
		return fmt.Errorf("music directory missing (is the volume mounted?): %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("music path %q is not a directory", s.MusicDir)
	}

	if s.APIURL == "" || s.APIToken == "" {
		return fmt.Errorf("archive API URL and token are required for playlist checks")
	}
	return nil
}
