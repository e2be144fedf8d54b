package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"gradharvest/lib/util/serviceutil"
	"gradharvest/services/refine"
)

var refineIn *string
var refineOut *string
var refineAux *string

func init() {
	refineIn = refineCmd.Flags().String("in", defaultOut, "Scraped records to clean, .json or .jsonl.")
	refineOut = refineCmd.Flags().String("out", defaultRefined, "Cleaned output file.")
	refineAux = refineCmd.Flags().String("aux", "", "Optional external normalization file.")
	rootCmd.AddCommand(refineCmd)
}

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Cleans scraped records into analysis-ready rows.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		records, err := refine.LoadRecords(pick(cmd, "in", *refineIn, cfg.Out))
		if err != nil {
			serviceutil.Fatal("failed to load records", err)
		}
		rows := refine.Clean(records)

		aux := pick(cmd, "aux", *refineAux, cfg.Aux)
		if aux != "" {
			auxRows, err := refine.LoadAux(aux)
			if err != nil {
				serviceutil.Fatal("failed to load normalization file", err)
			}
			applied := refine.ApplyAux(cmd.Context(), rows, auxRows)
			slog.Info("applied external normalization", "rows", applied)
		}

		out := pick(cmd, "out", *refineOut, cfg.Refined)
		err = refine.WriteRows(out, rows)
		if err != nil {
			serviceutil.Fatal("failed to write cleaned rows", err)
		}
		slog.Info("refined records", "records", len(records), "out", out)
	},
}
