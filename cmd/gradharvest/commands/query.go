package commands

import (
	"os"

	"github.com/spf13/cobra"

	"gradharvest/lib/util/serviceutil"
	"gradharvest/services/analytics"
)

var queryDb *string
var queryTerm *string

func init() {
	queryDb = queryCmd.Flags().String("db", defaultDb, "The database to query.")
	queryTerm = queryCmd.Flags().String("term", defaultTerm, "Term label the term-scoped queries run against.")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Runs the fixed query set and prints the results.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database, err := openDatabase(cmd, cfg, *queryDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		term := pick(cmd, "term", *queryTerm, cfg.Term)
		year := cfg.Year
		if cmd.Flags().Changed("term") {
			year = termYear(term)
		}

		results, err := analytics.NewService(database).Collect(cmd.Context(), term, year)
		if err != nil {
			serviceutil.Fatal("failed to run queries", err)
		}
		analytics.Render(os.Stdout, results)
	},
}
