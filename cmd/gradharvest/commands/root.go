package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gradharvest/lib/telemetry"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "gradharvest",
	Short: "gradharvest scrapes, cleans and analyzes graduate admissions results.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
