package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"gradharvest/lib/restyutil"
	"gradharvest/lib/scrapers/gradcafe"
	"gradharvest/lib/util/serviceutil"
	"gradharvest/services/harvest"
)

var harvestQuery *string
var harvestPages *int
var harvestStart *int
var harvestDelay *int
var harvestJitter *int
var harvestLog *string
var harvestOut *string

func init() {
	harvestQuery = harvestCmd.Flags().StringP("query", "q", defaultQuery, "Search query to harvest results for.")
	harvestPages = harvestCmd.Flags().Int("pages", defaultPages, "Number of result pages to fetch.")
	harvestStart = harvestCmd.Flags().Int("start", defaultStartPage, "Page number to start from.")
	harvestDelay = harvestCmd.Flags().Int("delay", defaultDelayMs, "Pause between page fetches in milliseconds.")
	harvestJitter = harvestCmd.Flags().Int("jitter", 0, "Upper bound of extra random pause in milliseconds.")
	harvestLog = harvestCmd.Flags().String("log", defaultLog, "Append-only record log.")
	harvestOut = harvestCmd.Flags().String("out", defaultOut, "Canonical output file.")
	rootCmd.AddCommand(harvestCmd)
}

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Scrapes admissions results into the record log and canonical file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if *verbose {
			gradcafe.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/gradcafe"))
		}
		if len(cfg.CardSelectors) > 0 {
			gradcafe.SetCardSelectors(cfg.CardSelectors)
		}

		client, err := gradcafe.NewClient(gradcafe.ClientOptions{})
		if err != nil {
			serviceutil.Fatal("failed to initialize client", err)
		}

		store := harvest.NewStore(pick(cmd, "log", *harvestLog, cfg.Log))
		var notifier *harvest.Notifier
		if cfg.Smtp != nil {
			notifier = harvest.NewNotifier(*cfg.Smtp)
		}
		service := harvest.NewService(store, client, notifier)

		summary, err := service.Run(cmd.Context(), harvest.RunParams{
			Query:         pick(cmd, "query", *harvestQuery, cfg.Query),
			StartPage:     pickInt(cmd, "start", *harvestStart, cfg.StartPage),
			Pages:         pickInt(cmd, "pages", *harvestPages, cfg.Pages),
			Delay:         time.Duration(pickInt(cmd, "delay", *harvestDelay, cfg.DelayMs)) * time.Millisecond,
			Jitter:        time.Duration(pickInt(cmd, "jitter", *harvestJitter, cfg.JitterMs)) * time.Millisecond,
			CanonicalPath: pick(cmd, "out", *harvestOut, cfg.Out),
		})
		if err != nil {
			serviceutil.Fatal("harvest run failed", err)
		}

		slog.Info("harvest finished",
			"run_id", summary.RunId,
			"new", summary.NewRecords,
			"total", summary.TotalRecords,
			"pages_fetched", summary.PagesFetched,
			"pages_failed", summary.PagesFailed,
			"seconds", summary.Duration.Seconds(),
		)
	},
}
