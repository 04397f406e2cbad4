package database

import (
	"database/sql"
	"fmt"
)

// initConvertedTable initializes the converted videos ledger table.
func initConvertedTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS converted_videos (
        video_id TEXT PRIMARY KEY,
        channel_id TEXT,
        title TEXT,
        output_path TEXT,
        processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_converted_processed_at ON converted_videos(processed_at);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create converted_videos table: %w", err)
	}
	return nil
}
