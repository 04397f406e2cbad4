// Package models holds shared data types passed between components.
package models

import "time"

// VideoCandidate is a video identity extracted from a filesystem event,
// pending evaluation by the pipeline. Discarded once the attempt finishes.
type VideoCandidate struct {
	ChannelID  string
	VideoID    string
	SourcePath string
}

// LedgerEntry records one completed conversion.
//
// Matches the order of the DB table, do not alter.
type LedgerEntry struct {
	VideoID     string    `json:"video_id" db:"video_id"`
	ChannelID   string    `json:"channel_id" db:"channel_id"`
	Title       string    `json:"title" db:"title"`
	OutputPath  string    `json:"output_path" db:"output_path"`
	ProcessedAt time.Time `json:"processed_at" db:"processed_at"`
}

// ConversionResult describes the outcome of a successful conversion.
type ConversionResult struct {
	OutputPath string
	Title      string
}
