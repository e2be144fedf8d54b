package dashboard

import (
	"context"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/codes"

	"gradharvest/lib/telemetry"
	"gradharvest/services/analytics"
)

var tracer = telemetry.Tracer("gradharvest.services.dashboard")

//go:embed index.html
var indexHtml string

type Options struct {
	Analytics analytics.Service
	// full term label the queries run against, e.g. "Fall 2025"
	Term string
	Year string
	// Pull runs the whole scrape, refine and load chain.
	Pull func(ctx context.Context) error
	// Refresh reloads analytics from the current canonical file.
	Refresh func(ctx context.Context) error
}

type Service struct {
	analytics analytics.Service
	term      string
	year      string
	pull      func(ctx context.Context) error
	refresh   func(ctx context.Context) error
	tmpl      *template.Template

	mu          sync.Mutex
	pullRunning bool
}

func NewService(options Options) *Service {
	return &Service{
		analytics: options.Analytics,
		term:      options.Term,
		year:      options.Year,
		pull:      options.Pull,
		refresh:   options.Refresh,
		tmpl:      template.Must(template.New("index").Parse(indexHtml)),
	}
}

func (s *Service) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("POST /pull", s.handlePull)
	mux.HandleFunc("POST /update", s.handleUpdate)
}

type indexData struct {
	Term        string
	PullRunning bool
	Blocks      []analytics.Block
}

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleIndex")
	defer span.End()

	results, err := s.analytics.Collect(ctx, s.term, s.year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	running := s.pullRunning
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = s.tmpl.Execute(w, indexData{
		Term:        s.term,
		PullRunning: running,
		Blocks:      analytics.Blocks(results),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// handlePull starts the scrape chain in the background. Only one pull may be
// in flight, a second request while it runs is turned away.
func (s *Service) handlePull(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "handlePull")
	defer span.End()

	s.mu.Lock()
	if s.pullRunning {
		s.mu.Unlock()
		http.Error(w, "a pull is already running", http.StatusConflict)
		return
	}
	s.pullRunning = true
	s.mu.Unlock()

	go func() {
		// detached from the request context so the pull survives the redirect
		ctx := context.Background()
		defer func() {
			s.mu.Lock()
			s.pullRunning = false
			s.mu.Unlock()
		}()

		err := s.pull(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "background pull failed", "err", err)
			return
		}
		slog.InfoContext(ctx, "background pull finished")
	}()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleUpdate")
	defer span.End()

	err := s.refresh(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
