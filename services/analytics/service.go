package analytics

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gradharvest/lib/telemetry"
	"gradharvest/services/refine"
)

var tracer = telemetry.Tracer("gradharvest.services.analytics")

// rows per insert statement, kept well under sqlite's bound variable limit
const insertBatchSize = 500

type Service struct {
	db *sqlx.DB
}

func NewService(database *sqlx.DB) Service {
	return Service{db: database}
}

const insertApplicantSql = `
INSERT INTO applicants (
	p_id, program, university, comments, date_added, url, status, term,
	us_or_international, gpa, gre, gre_v, gre_aw, degree,
	program_norm, university_norm
) VALUES (
	:p_id, :program, :university, :comments, :date_added, :url, :status, :term,
	:us_or_international, :gpa, :gre, :gre_v, :gre_aw, :degree,
	:program_norm, :university_norm
)`

// Load replaces the applicants table with the given refined rows.
func (s Service) Load(ctx context.Context, rows []refine.Row) error {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "DELETE FROM applicants")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("truncate applicants: %w", err)
	}

	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		_, err = tx.NamedExecContext(ctx, insertApplicantSql, rows[start:end])
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("insert applicants: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
