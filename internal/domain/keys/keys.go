// Package keys holds Viper configuration key names.
package keys

// Directory and file locations
const (
	ArchiveDir string = "archive-dir"
	MusicDir   string = "music-dir"
	DBFile     string = "db-file"
	LogDir     string = "log-dir"
)

// Archive API
const (
	ArchiveAPIURL string = "ta-api-url"
	ArchiveToken  string = "ta-token"
)

// Runtime behavior
const (
	Rescan       string = "rescan"
	CookieSource string = "cookie-source"
	DebugLevel   string = "debug-level"
)

// Ledger subcommand
const (
	LedgerSince string = "since"
)

// Environment variable names (matching the deployment surface).
const (
	EnvArchiveDir    string = "TUBEARCHIVIST_DIR"
	EnvMusicDir      string = "NAVIDROME_DIR"
	EnvDBFile        string = "DB_FILE"
	EnvLogDir        string = "LOG_DIR"
	EnvArchiveAPIURL string = "TA_API_URL"
	EnvArchiveToken  string = "TA_TOKEN"
	EnvCookieSource  string = "COOKIE_SOURCE"
)
