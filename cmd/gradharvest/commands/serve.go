package commands

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"gradharvest/lib/restyutil"
	"gradharvest/lib/scrapers/gradcafe"
	"gradharvest/lib/util/serviceutil"
	"gradharvest/services/analytics"
	"gradharvest/services/dashboard"
	"gradharvest/services/harvest"
	"gradharvest/services/refine"
)

var servePort *int
var serveDb *string

func init() {
	servePort = serveCmd.Flags().Int("port", defaultPort, "Port to serve the dashboard on.")
	serveDb = serveCmd.Flags().String("db", defaultDb, "The database backing the dashboard.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analytics dashboard.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database, err := openDatabase(cmd, cfg, *serveDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		store := analytics.NewService(database)

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

		harvestStore := harvest.NewStore(cfg.Log)
		var notifier *harvest.Notifier
		if cfg.Smtp != nil {
			notifier = harvest.NewNotifier(*cfg.Smtp)
		}
		harvester := harvest.NewService(harvestStore, client, notifier)

		refresh := func(ctx context.Context) error {
			records, err := refine.LoadRecords(cfg.Out)
			if err != nil {
				return err
			}
			rows := refine.Clean(records)
			if cfg.Aux != "" {
				auxRows, err := refine.LoadAux(cfg.Aux)
				if err != nil {
					return err
				}
				refine.ApplyAux(ctx, rows, auxRows)
			}
			return store.Load(ctx, rows)
		}

		pull := func(ctx context.Context) error {
			_, err := harvester.Run(ctx, harvest.RunParams{
				Query:         cfg.Query,
				StartPage:     cfg.StartPage,
				Pages:         cfg.Pages,
				Delay:         time.Duration(cfg.DelayMs) * time.Millisecond,
				Jitter:        time.Duration(cfg.JitterMs) * time.Millisecond,
				CanonicalPath: cfg.Out,
			})
			if err != nil {
				return err
			}
			return refresh(ctx)
		}

		// load whatever is already on disk, an empty dashboard is fine on a
		// fresh install
		err = refresh(cmd.Context())
		if err != nil {
			slog.Warn("no canonical data loaded yet", "err", err)
		}

		service := dashboard.NewService(dashboard.Options{
			Analytics: store,
			Term:      cfg.Term,
			Year:      cfg.Year,
			Pull:      pull,
			Refresh:   refresh,
		})

		mux := http.NewServeMux()
		service.Routes(mux)
		serviceutil.StartHttpServer(cmd.Context(), pickInt(cmd, "port", *servePort, cfg.Port), mux)
	},
}
