// Package cfg provides configuration and command-line interface setup for musicarr.
package cfg

import (
	"context"

	"musicarr/internal/app"
	"musicarr/internal/domain/keys"
	"musicarr/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "musicarr",
	Short: "musicarr watches a TubeArchivist library and converts MUSIC playlist videos to MP3.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Level = viper.GetInt(keys.DebugLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), settingsFromViper())
	},
	SilenceUsage: true,
}

// Execute parses flags/environment and runs the selected command.
func Execute(ctx context.Context) error {
	initFlags()
	rootCmd.AddCommand(newLedgerCmd())
	return rootCmd.ExecuteContext(ctx)
}

// initFlags declares flags and binds them to Viper keys and environment
// variables. Flags win over environment, environment over defaults.
func initFlags() {
	pf := rootCmd.PersistentFlags()

	pf.String(keys.ArchiveDir, "/youtube", "TubeArchivist video directory to watch")
	pf.String(keys.MusicDir, "/music", "Music library directory to write MP3s into")
	pf.String(keys.DBFile, "/app/data/musicarr.db", "Path of the conversion ledger database")
	pf.String(keys.LogDir, "/app/logs", "Directory to write the log file into")
	pf.String(keys.ArchiveAPIURL, "", "TubeArchivist API base URL (required)")
	pf.String(keys.ArchiveToken, "", "TubeArchivist API token (required)")
	pf.String(keys.CookieSource, "", "Browser to source yt-dlp cookies from (e.g. firefox); empty disables")
	pf.Int(keys.DebugLevel, 0, "Debug log verbosity")

	rootCmd.Flags().Bool(keys.Rescan, false, "Walk the archive once at startup and re-drive every video")

	bindings := map[string]string{
		keys.ArchiveDir:    keys.EnvArchiveDir,
		keys.MusicDir:      keys.EnvMusicDir,
		keys.DBFile:        keys.EnvDBFile,
		keys.LogDir:        keys.EnvLogDir,
		keys.ArchiveAPIURL: keys.EnvArchiveAPIURL,
		keys.ArchiveToken:  keys.EnvArchiveToken,
		keys.CookieSource:  keys.EnvCookieSource,
	}

	for key, env := range bindings {
		viper.BindPFlag(key, pf.Lookup(key))
		viper.BindEnv(key, env)
	}

	viper.BindPFlag(keys.DebugLevel, pf.Lookup(keys.DebugLevel))
	viper.BindPFlag(keys.Rescan, rootCmd.Flags().Lookup(keys.Rescan))
}

func settingsFromViper() app.Settings {
	return app.Settings{
		ArchiveDir:   viper.GetString(keys.ArchiveDir),
		MusicDir:     viper.GetString(keys.MusicDir),
		DBFile:       viper.GetString(keys.DBFile),
		LogDir:       viper.GetString(keys.LogDir),
		APIURL:       viper.GetString(keys.ArchiveAPIURL),
		APIToken:     viper.GetString(keys.ArchiveToken),
		CookieSource: viper.GetString(keys.CookieSource),
		Rescan:       viper.GetBool(keys.Rescan),
	}
}
