package cfg

import (
	"fmt"
	"time"

	"musicarr/internal/database"
	"musicarr/internal/domain/keys"
	"musicarr/internal/parsing"
	"musicarr/internal/repo"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newLedgerCmd returns the read-only ledger inspection command.
func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List recorded conversions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var since time.Time

			if s, err := cmd.Flags().GetString(keys.LedgerSince); err == nil && s != "" {
				parsed, err := parsing.ParseDate(s)
				if err != nil {
					return err
				}
				since = parsed
			}

			dbc, err := database.InitDB(viper.GetString(keys.DBFile))
			if err != nil {
				return fmt.Errorf("ledger store unusable: %w", err)
			}
			defer dbc.Close()

			entries, err := repo.NewLedgerStore(dbc.DB).List(since)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No conversions recorded.")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s\t%s\t%s\t%s\n",
					e.ProcessedAt.Format("2006-01-02 15:04:05"),
					e.VideoID,
					e.Title,
					e.OutputPath,
				)
			}
			return nil
		},
	}

	cmd.Flags().String(keys.LedgerSince, "", "Only list conversions at or after this date")
	return cmd
}
