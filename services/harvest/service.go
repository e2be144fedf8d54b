package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gradharvest/lib/scrapers/gradcafe"
)

// Fetcher is the page source for a run. Satisfied by gradcafe.Client,
// swapped out in tests.
type Fetcher interface {
	PageUrl(query string, page int) string
	FetchPage(ctx context.Context, pageUrl string) (int, []byte, error)
}

type RunParams struct {
	Query     string
	StartPage int
	Pages     int
	// mandatory pause between page fetches
	Delay time.Duration
	// upper bound of extra random pause added to Delay
	Jitter time.Duration
	// where the merged JSON array is written after the run
	CanonicalPath string
}

// Summary describes one finished run.
type Summary struct {
	RunId        string
	Query        string
	PagesFetched int
	PagesFailed  int
	NewRecords   int
	TotalRecords int
	Duration     time.Duration
}

type Service struct {
	store    *Store
	fetcher  Fetcher
	notifier *Notifier
}

// notifier may be nil, in which case run summaries are not emailed
func NewService(store *Store, fetcher Fetcher, notifier *Notifier) Service {
	return Service{
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
	}
}

// Run fetches the configured page window, appends whatever is new to the
// log and rewrites the canonical output. Failed pages are skipped, the run
// carries on; only an unreadable or unwritable log stops it. Cancelling the
// context stops the run between pages.
func (s Service) Run(ctx context.Context, params RunParams) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	start := time.Now()
	summary := Summary{
		RunId: uuid.NewString(),
		Query: params.Query,
	}
	span.SetAttributes(
		attribute.String("run_id", summary.RunId),
		attribute.String("query", params.Query),
	)

	seeded, err := s.store.SeedFromLog(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to seed dedup keys")
		return summary, fmt.Errorf("seed dedup keys: %w", err)
	}
	slog.InfoContext(
		ctx, "starting run",
		"run_id", summary.RunId,
		"query", params.Query,
		"start_page", params.StartPage,
		"pages", params.Pages,
		"seeded", seeded,
	)

	for page := params.StartPage; page < params.StartPage+params.Pages; page++ {
		if page > params.StartPage {
			err := s.politeWait(ctx, params)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "run cancelled")
				return summary, err
			}
		}

		pageUrl := s.fetcher.PageUrl(params.Query, page)
		added, ok, err := s.harvestPage(ctx, pageUrl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to persist records")
			return summary, err
		}
		if ok {
			summary.PagesFetched++
		} else {
			summary.PagesFailed++
		}
		summary.NewRecords += added
	}

	total, err := s.store.WriteCanonical(ctx, params.CanonicalPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write canonical output")
		return summary, err
	}
	summary.TotalRecords = total
	summary.Duration = time.Since(start)

	slog.InfoContext(
		ctx, "run complete",
		"run_id", summary.RunId,
		"new", summary.NewRecords,
		"total", summary.TotalRecords,
		"failed_pages", summary.PagesFailed,
		"seconds", summary.Duration.Seconds(),
	)

	if s.notifier != nil {
		err := s.notifier.RunCompleted(ctx, summary)
		if err != nil {
			slog.WarnContext(ctx, "failed to send run summary", "err", err)
		}
	}

	return summary, nil
}

// harvestPage fetches and extracts one page. The bool reports whether the
// page yielded usable content; only log write failures return an error.
func (s Service) harvestPage(ctx context.Context, pageUrl string) (int, bool, error) {
	ctx, span := tracer.Start(ctx, "harvestPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	status, body, err := s.fetcher.FetchPage(ctx, pageUrl)
	if err != nil {
		slog.WarnContext(ctx, "fetch failed, skipping page", "url", pageUrl, "err", err)
		return 0, false, nil
	}
	if status < 200 || status >= 300 {
		slog.WarnContext(ctx, "unexpected status, skipping page", "url", pageUrl, "status", status)
		return 0, false, nil
	}

	candidates, err := gradcafe.Extract(ctx, pageUrl, body)
	if err != nil {
		slog.WarnContext(ctx, "failed to parse page, skipping", "url", pageUrl, "err", err)
		return 0, false, nil
	}

	fresh := s.store.FilterNew(candidates)
	err = s.store.Append(ctx, fresh)
	if err != nil {
		return 0, false, err
	}

	slog.InfoContext(
		ctx, "page harvested",
		"url", pageUrl,
		"rows", len(candidates),
		"new", len(fresh),
	)
	span.SetAttributes(
		attribute.Int("rows", len(candidates)),
		attribute.Int("new", len(fresh)),
	)
	return len(fresh), true, nil
}

func (s Service) politeWait(ctx context.Context, params RunParams) error {
	delay := params.Delay
	if params.Jitter > 0 {
		extra, err := random.IntRange(0, int(params.Jitter.Milliseconds()))
		if err == nil {
			delay += time.Duration(extra) * time.Millisecond
		}
	}
	if delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
