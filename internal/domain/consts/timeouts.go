package consts

import "time"

// Timeouts and wait intervals.
const (
	// ArchiveAPITimeout bounds a single request to the archive API.
	ArchiveAPITimeout = 10 * time.Second

	// ConversionTimeout bounds one yt-dlp extraction run.
	ConversionTimeout = 1 * time.Hour

	// SettlePollInterval is the gap between file size checks while waiting
	// for a freshly written video file to settle.
	SettlePollInterval = 500 * time.Millisecond

	// SettleMaxWait gives up on a file whose size never stabilizes.
	SettleMaxWait = 2 * time.Minute
)
