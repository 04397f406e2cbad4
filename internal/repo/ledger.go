// Package repo provides stores over the SQLite database.
package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"musicarr/internal/domain/consts"
	"musicarr/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
)

// ErrAlreadyRecorded signals a duplicate ledger insert. Callers should treat
// it as "already done", not as a failure.
var ErrAlreadyRecorded = errors.New("video already recorded in ledger")

// LedgerStore records completed conversions, keyed by video ID.
//
// Record is the only durable mutation in the whole pipeline; the primary key
// constraint guarantees at most one entry per video even under concurrent
// duplicate dispatch.
type LedgerStore struct {
	DB *sql.DB
}

// NewLedgerStore returns a ledger store instance with injected database.
func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{
		DB: db,
	}
}

// Has reports whether a conversion for videoID has already been recorded.
func (ls *LedgerStore) Has(videoID string) (bool, error) {
	query := squirrel.
		Select("1").
		From(consts.DBConverted).
		Where(squirrel.Eq{consts.QConvVideoID: videoID}).
		RunWith(ls.DB)

	var one int
	if err := query.QueryRow().Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed ledger lookup for video %q: %w", videoID, err)
	}
	return true, nil
}

// Record inserts a new ledger entry. Returns ErrAlreadyRecorded when an
// entry for the video already exists.
func (ls *LedgerStore) Record(entry models.LedgerEntry) error {
	if entry.VideoID == "" {
		return errors.New("ledger entry must have a video ID")
	}
	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = time.Now()
	}

	query := squirrel.
		Insert(consts.DBConverted).
		Columns(
			consts.QConvVideoID,
			consts.QConvChannelID,
			consts.QConvTitle,
			consts.QConvOutputPath,
			consts.QConvProcessedAt,
		).
		Values(
			entry.VideoID,
			entry.ChannelID,
			entry.Title,
			entry.OutputPath,
			entry.ProcessedAt,
		).
		RunWith(ls.DB)

	if _, err := query.Exec(); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrAlreadyRecorded
		}
		return fmt.Errorf("failed to record video %q in ledger: %w", entry.VideoID, err)
	}
	return nil
}

// Count returns the number of recorded conversions.
func (ls *LedgerStore) Count() (int64, error) {
	query := squirrel.
		Select("COUNT(*)").
		From(consts.DBConverted).
		RunWith(ls.DB)

	var count int64
	if err := query.QueryRow().Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

// List returns recorded conversions processed at or after since, newest
// first. A zero since returns everything.
func (ls *LedgerStore) List(since time.Time) ([]models.LedgerEntry, error) {
	builder := squirrel.
		Select(
			consts.QConvVideoID,
			consts.QConvChannelID,
			consts.QConvTitle,
			consts.QConvOutputPath,
			consts.QConvProcessedAt,
		).
		From(consts.DBConverted).
		OrderBy(consts.QConvProcessedAt + " DESC")

	if !since.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{consts.QConvProcessedAt: since})
	}

	rows, err := builder.RunWith(ls.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var (
			e                       models.LedgerEntry
			channel, title, outPath sql.NullString
		)
		if err := rows.Scan(&e.VideoID, &channel, &title, &outPath, &e.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.ChannelID = channel.String
		e.Title = title.String
		e.OutputPath = outPath.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading ledger rows: %w", err)
	}
	return entries, nil
}
