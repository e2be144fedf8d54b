package analytics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Averages holds mean scores, each computed over its non-null subset. A nil
// field means no row carried that score at all.
type Averages struct {
	Gpa   *float64 `db:"gpa"`
	Gre   *float64 `db:"gre"`
	GreV  *float64 `db:"gre_v"`
	GreAw *float64 `db:"gre_aw"`
}

type ProgramStats struct {
	Program       string  `db:"program"`
	Total         int     `db:"total"`
	Accepted      int     `db:"accepted"`
	AcceptancePct float64 `db:"acceptance_pct"`
}

type BucketStats struct {
	Bucket        string  `db:"bucket"`
	Total         int     `db:"total"`
	Accepted      int     `db:"accepted"`
	AcceptancePct float64 `db:"acceptance_pct"`
}

func (s Service) CountByTerm(ctx context.Context, term string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM applicants WHERE term = ?", term)
	return count, err
}

func (s Service) PercentInternational(ctx context.Context) (float64, error) {
	var pct float64
	err := s.db.GetContext(ctx, &pct, `
		SELECT COALESCE(ROUND(
			100.0 * SUM(CASE WHEN us_or_international = 'International' THEN 1 ELSE 0 END)
			/ NULLIF(COUNT(*), 0), 2), 0)
		FROM applicants`)
	return pct, err
}

func (s Service) AverageScores(ctx context.Context) (Averages, error) {
	var avg Averages
	err := s.db.GetContext(ctx, &avg, `
		SELECT
			ROUND(AVG(gpa), 2) AS gpa,
			ROUND(AVG(gre), 2) AS gre,
			ROUND(AVG(gre_v), 2) AS gre_v,
			ROUND(AVG(gre_aw), 2) AS gre_aw
		FROM applicants`)
	return avg, err
}

func (s Service) AmericanAverageGpa(ctx context.Context, term string) (*float64, error) {
	var avg *float64
	err := s.db.GetContext(ctx, &avg, `
		SELECT ROUND(AVG(gpa), 2) FROM applicants
		WHERE us_or_international = 'American' AND term = ?`, term)
	return avg, err
}

func (s Service) AcceptancePercent(ctx context.Context, term string) (float64, error) {
	var pct float64
	err := s.db.GetContext(ctx, &pct, `
		SELECT COALESCE(ROUND(
			100.0 * SUM(CASE WHEN status = 'Accepted' THEN 1 ELSE 0 END)
			/ NULLIF(COUNT(*), 0), 2), 0)
		FROM applicants WHERE term = ?`, term)
	return pct, err
}

func (s Service) AcceptedAverageGpa(ctx context.Context, term string) (*float64, error) {
	var avg *float64
	err := s.db.GetContext(ctx, &avg, `
		SELECT ROUND(AVG(gpa), 2) FROM applicants
		WHERE term = ? AND status = 'Accepted'`, term)
	return avg, err
}

func (s Service) CountJhuMastersCs(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM applicants
		WHERE LOWER(university_norm) LIKE '%johns hopkins%'
		AND LOWER(program_norm) LIKE '%computer science%'
		AND LOWER(degree) LIKE '%master%'`)
	return count, err
}

func (s Service) CountGeorgetownPhdCsAccepts(ctx context.Context, year string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM applicants
		WHERE LOWER(university_norm) LIKE '%georgetown%'
		AND LOWER(program_norm) LIKE '%computer science%'
		AND LOWER(degree) LIKE '%phd%'
		AND status = 'Accepted'
		AND term LIKE '%' || ?`, year)
	return count, err
}

// TopPrograms lists the highest-volume programs with their acceptance rates.
func (s Service) TopPrograms(ctx context.Context, limit int) ([]ProgramStats, error) {
	stats := []ProgramStats{}
	err := s.db.SelectContext(ctx, &stats, `
		SELECT
			program_norm AS program,
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'Accepted' THEN 1 ELSE 0 END) AS accepted,
			COALESCE(ROUND(
				100.0 * SUM(CASE WHEN status = 'Accepted' THEN 1 ELSE 0 END)
				/ NULLIF(COUNT(*), 0), 2), 0) AS acceptance_pct
		FROM applicants
		WHERE program_norm != ''
		GROUP BY program_norm
		ORDER BY total DESC, program_norm ASC
		LIMIT ?`, limit)
	return stats, err
}

// GpaBuckets breaks acceptance rates down by GPA band, rows without a GPA
// collected into their own bucket.
func (s Service) GpaBuckets(ctx context.Context) ([]BucketStats, error) {
	stats := []BucketStats{}
	err := s.db.SelectContext(ctx, &stats, `
		SELECT
			CASE
				WHEN gpa IS NULL THEN 'no gpa'
				WHEN gpa < 3.0 THEN '< 3.0'
				WHEN gpa < 3.5 THEN '3.0 - 3.49'
				WHEN gpa < 3.8 THEN '3.5 - 3.79'
				ELSE '>= 3.8'
			END AS bucket,
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'Accepted' THEN 1 ELSE 0 END) AS accepted,
			COALESCE(ROUND(
				100.0 * SUM(CASE WHEN status = 'Accepted' THEN 1 ELSE 0 END)
				/ NULLIF(COUNT(*), 0), 2), 0) AS acceptance_pct
		FROM applicants
		GROUP BY bucket
		ORDER BY MIN(COALESCE(gpa, -1))`)
	return stats, err
}

const topProgramLimit = 10

// Results bundles the full fixed query set for rendering.
type Results struct {
	Term                  string
	Year                  string
	TermCount             int
	PercentInternational  float64
	Averages              Averages
	AmericanAvgGpa        *float64
	AcceptancePercent     float64
	AcceptedAvgGpa        *float64
	JhuMastersCs          int
	GeorgetownPhdCsAccept int
	TopPrograms           []ProgramStats
	GpaBuckets            []BucketStats
}

// Collect runs every query against the loaded data. term is the full label
// ("Fall 2025"), year its 4-digit year.
func (s Service) Collect(ctx context.Context, term, year string) (Results, error) {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()
	span.SetAttributes(
		attribute.String("term", term),
		attribute.String("year", year),
	)

	fail := func(name string, err error) (Results, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Results{}, fmt.Errorf("%s: %w", name, err)
	}

	results := Results{Term: term, Year: year}
	var err error

	results.TermCount, err = s.CountByTerm(ctx, term)
	if err != nil {
		return fail("count by term", err)
	}
	results.PercentInternational, err = s.PercentInternational(ctx)
	if err != nil {
		return fail("percent international", err)
	}
	results.Averages, err = s.AverageScores(ctx)
	if err != nil {
		return fail("average scores", err)
	}
	results.AmericanAvgGpa, err = s.AmericanAverageGpa(ctx, term)
	if err != nil {
		return fail("american average gpa", err)
	}
	results.AcceptancePercent, err = s.AcceptancePercent(ctx, term)
	if err != nil {
		return fail("acceptance percent", err)
	}
	results.AcceptedAvgGpa, err = s.AcceptedAverageGpa(ctx, term)
	if err != nil {
		return fail("accepted average gpa", err)
	}
	results.JhuMastersCs, err = s.CountJhuMastersCs(ctx)
	if err != nil {
		return fail("jhu masters cs", err)
	}
	results.GeorgetownPhdCsAccept, err = s.CountGeorgetownPhdCsAccepts(ctx, year)
	if err != nil {
		return fail("georgetown phd cs accepts", err)
	}
	results.TopPrograms, err = s.TopPrograms(ctx, topProgramLimit)
	if err != nil {
		return fail("top programs", err)
	}
	results.GpaBuckets, err = s.GpaBuckets(ctx)
	if err != nil {
		return fail("gpa buckets", err)
	}

	return results, nil
}
