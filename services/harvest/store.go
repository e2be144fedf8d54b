package harvest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gradharvest/lib/scrapers/gradcafe"
)

// generous bound for a single log line, a record is usually well under 4kb
const maxLogLineBytes = 1 << 20

// Store owns the append-only record log and the dedup keys derived from it.
// The log is the source of truth: runs append to it and the canonical output
// is always rebuilt from it in full.
type Store struct {
	logPath string
	seen    map[gradcafe.Key]struct{}
}

func NewStore(logPath string) *Store {
	return &Store{
		logPath: logPath,
		seen:    map[gradcafe.Key]struct{}{},
	}
}

// SeedFromLog loads the dedup keys of every previously accepted record.
// Malformed lines are skipped, a missing log is just an empty seed.
func (s *Store) SeedFromLog(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "store:SeedFromLog")
	defer span.End()

	seeded := 0
	err := s.scanLog(ctx, func(rec gradcafe.Record) {
		s.seen[rec.Key()] = struct{}{}
		seeded++
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read log")
		return 0, err
	}

	span.SetAttributes(attribute.Int("seeded", seeded))
	return seeded, nil
}

// FilterNew returns the candidates whose key has never been accepted, in
// input order, first occurrence winning within the batch. Accepted keys are
// marked seen immediately, so feeding the same batch twice yields nothing
// the second time.
func (s *Store) FilterNew(candidates []gradcafe.Record) []gradcafe.Record {
	var out []gradcafe.Record
	for _, rec := range candidates {
		key := rec.Key()
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// Append writes records to the log, one JSON object per line. The write is
// flushed before returning so an interrupted run keeps its progress.
func (s *Store) Append(ctx context.Context, records []gradcafe.Record) error {
	if len(records) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "store:Append")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	file, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open log")
		return fmt.Errorf("open record log: %w", err)
	}
	defer file.Close()

	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		line = append(line, '\n')
		_, err = file.Write(line)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to append record")
			return fmt.Errorf("append record: %w", err)
		}
	}
	return nil
}

// Rebuild reads the entire log back as one ordered collection. The log is
// never mutated; lines that fail to parse are skipped.
func (s *Store) Rebuild(ctx context.Context) ([]gradcafe.Record, error) {
	ctx, span := tracer.Start(ctx, "store:Rebuild")
	defer span.End()

	records := []gradcafe.Record{}
	err := s.scanLog(ctx, func(rec gradcafe.Record) {
		records = append(records, rec)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read log")
		return nil, err
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

// WriteCanonical rebuilds the log and writes it out as a single indented
// JSON array, returning the total number of records written.
func (s *Store) WriteCanonical(ctx context.Context, path string) (int, error) {
	records, err := s.Rebuild(ctx)
	if err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode canonical output: %w", err)
	}
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return 0, fmt.Errorf("write canonical output: %w", err)
	}
	return len(records), nil
}

func (s *Store) scanLog(ctx context.Context, accept func(gradcafe.Record)) error {
	file, err := os.Open(s.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	skipped := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec gradcafe.Record
		err := json.Unmarshal(line, &rec)
		if err != nil {
			skipped++
			continue
		}
		accept(rec)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if skipped > 0 {
		slog.WarnContext(ctx, "skipped malformed log lines", "path", s.logPath, "count", skipped)
	}
	return nil
}
