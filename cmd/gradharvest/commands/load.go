package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"gradharvest/lib/util/serviceutil"
	"gradharvest/services/analytics"
	"gradharvest/services/refine"
)

var loadIn *string
var loadDb *string

func init() {
	loadIn = loadCmd.Flags().String("in", defaultRefined, "Cleaned rows to load.")
	loadDb = loadCmd.Flags().String("db", defaultDb, "The database to load applicants into.")
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Loads cleaned rows into the analytics database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		rows, err := refine.LoadRows(pick(cmd, "in", *loadIn, cfg.Refined))
		if err != nil {
			serviceutil.Fatal("failed to load cleaned rows", err)
		}

		database, err := openDatabase(cmd, cfg, *loadDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		t1 := time.Now()
		err = analytics.NewService(database).Load(cmd.Context(), rows)
		if err != nil {
			serviceutil.Fatal("failed to load applicants", err)
		}
		t2 := time.Now()

		slog.Info("loaded applicants", "rows", len(rows), "seconds", t2.Sub(t1).Seconds())
	},
}
