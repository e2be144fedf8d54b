package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gradharvest/lib/util/serviceutil"
	"gradharvest/services/refine"
)

var auditIn *string

func init() {
	auditIn = auditCmd.Flags().String("in", defaultOut, "Canonical record file to audit.")
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Checks a canonical record file for structural damage.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		report, err := refine.Audit(cmd.Context(), pick(cmd, "in", *auditIn, cfg.Out))
		if err != nil {
			serviceutil.Fatal("failed to audit records", err)
		}

		for _, line := range report.Describe() {
			fmt.Println(line)
		}
		if !report.Clean() {
			os.Exit(1)
		}
	},
}
