// Package app coordinates the detection-filter-convert-record pipeline.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"musicarr/internal/archive"
	"musicarr/internal/models"
	"musicarr/internal/repo"
	"musicarr/internal/utils/logging"
)

// Oracle answers playlist membership and title queries.
type Oracle interface {
	InMusicPlaylist(ctx context.Context, videoID string) (bool, error)
	VideoTitle(ctx context.Context, videoID string) (string, error)
}

// Converter produces the tagged audio file for a candidate.
type Converter interface {
	Convert(ctx context.Context, cand models.VideoCandidate, title string) (models.ConversionResult, error)
}

// Ledger is the durable record of completed conversions.
type Ledger interface {
	Has(videoID string) (bool, error)
	Record(entry models.LedgerEntry) error
}

// Pipeline runs one state machine per candidate: ledger gate, playlist gate,
// conversion, ledger write. Every step before the ledger write is a pure
// read, so abandoning an attempt at any point is safe and a later event
// simply re-drives the same ID.
type Pipeline struct {
	ledger Ledger
	oracle Oracle
	conv   Converter

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(ledger Ledger, oracle Oracle, conv Converter) *Pipeline {
	return &Pipeline{
		ledger:   ledger,
		oracle:   oracle,
		conv:     conv,
		inFlight: make(map[string]struct{}),
	}
}

// Dispatch starts processing a candidate on its own goroutine. A duplicate
// dispatch for an ID already being processed is dropped.
func (p *Pipeline) Dispatch(ctx context.Context, cand models.VideoCandidate) {
	if !p.begin(cand.VideoID) {
		logging.D(1, "Video %s already in flight, dropping duplicate event", cand.VideoID)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.end(cand.VideoID)
		p.process(ctx, cand)
	}()
}

// Wait blocks until all dispatched candidates have finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) begin(videoID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[videoID]; busy {
		return false
	}
	p.inFlight[videoID] = struct{}{}
	return true
}

func (p *Pipeline) end(videoID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, videoID)
}

// process walks one candidate through the state machine. Exactly one
// terminal log line is produced per attempt.
func (p *Pipeline) process(ctx context.Context, cand models.VideoCandidate) {
	done, err := p.ledger.Has(cand.VideoID)
	if err != nil {
		logging.E("Ledger check failed for %s, will retry on a later event: %v", cand.VideoID, err)
		return
	}
	if done {
		logging.I("Skipping %s: already converted", cand.VideoID)
		return
	}

	inMusic, err := p.oracle.InMusicPlaylist(ctx, cand.VideoID)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			logging.I("Skipping %s: video no longer exists in the archive", cand.VideoID)
			return
		}
		logging.W("Skipping %s for now, archive unavailable: %v", cand.VideoID, err)
		return
	}
	if !inMusic {
		logging.I("Skipping %s: not in a MUSIC playlist", cand.VideoID)
		return
	}

	title, err := p.oracle.VideoTitle(ctx, cand.VideoID)
	if err != nil {
		// Naming falls back to the video ID; not worth failing the attempt.
		logging.W("Could not fetch title for %s, using the video ID: %v", cand.VideoID, err)
		title = ""
	}

	result, err := p.conv.Convert(ctx, cand, title)
	if err != nil {
		logging.E("Conversion failed for %s: %v", cand.VideoID, err)
		return
	}

	entry := models.LedgerEntry{
		VideoID:     cand.VideoID,
		ChannelID:   cand.ChannelID,
		Title:       result.Title,
		OutputPath:  result.OutputPath,
		ProcessedAt: time.Now(),
	}
	if err := p.ledger.Record(entry); err != nil {
		if errors.Is(err, repo.ErrAlreadyRecorded) {
			logging.I("Skipping ledger write for %s: already recorded", cand.VideoID)
			return
		}
		logging.E("Failed to record %s in ledger (conversion output kept at %s): %v",
			cand.VideoID, result.OutputPath, err)
		return
	}

	logging.S("Converted %s -> %s", cand.VideoID, result.OutputPath)
}
