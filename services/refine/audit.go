package refine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// every key a serialized record must carry
var requiredKeys = []string{
	"program",
	"university",
	"comments",
	"date_added",
	"entry_url",
	"status",
	"accept_date",
	"reject_date",
	"start_term",
	"start_year",
	"intl_american",
	"gre_total",
	"gre_verbal",
	"gre_aw",
	"degree",
	"gpa",
}

// string fields checked for leaked markup
var markupCheckedKeys = []string{"program", "university", "comments"}

const (
	missingKeySampleSize = 1000
	markupSampleSize     = 2000
)

type KeyFinding struct {
	Record int
	Key    string
}

type MarkupFinding struct {
	Record int
	Key    string
	Value  string
}

// AuditReport summarizes structural problems in a scraped record file.
type AuditReport struct {
	Records        int
	MissingKeys    []KeyFinding
	MarkupLeaks    []MarkupFinding
	missingSampled int
	markupSampled  int
}

func (r AuditReport) Clean() bool {
	return len(r.MissingKeys) == 0 && len(r.MarkupLeaks) == 0
}

// Describe renders the report as human-readable lines, one per finding.
func (r AuditReport) Describe() []string {
	lines := []string{
		fmt.Sprintf("audited %d records (%d sampled for keys, %d for markup)",
			r.Records, r.missingSampled, r.markupSampled),
	}
	for _, finding := range r.MissingKeys {
		lines = append(lines, fmt.Sprintf("record %d: missing key %q", finding.Record, finding.Key))
	}
	for _, finding := range r.MarkupLeaks {
		lines = append(lines, fmt.Sprintf("record %d: markup in %q: %s", finding.Record, finding.Key, finding.Value))
	}
	return lines
}

// Audit checks a scraped record file for structural damage: records missing
// part of the key set, and html markup leaking into text fields. Both checks
// sample from the front of the file to keep huge archives cheap to audit.
func Audit(ctx context.Context, path string) (AuditReport, error) {
	_, span := tracer.Start(ctx, "Audit")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	raw, err := os.ReadFile(path)
	if err != nil {
		return AuditReport{}, fmt.Errorf("read records: %w", err)
	}
	var records []map[string]json.RawMessage
	err = json.Unmarshal(raw, &records)
	if err != nil {
		return AuditReport{}, fmt.Errorf("decode records: %w", err)
	}

	report := AuditReport{Records: len(records)}
	for i, record := range records {
		if i < missingKeySampleSize {
			report.missingSampled++
			for _, key := range requiredKeys {
				if _, ok := record[key]; !ok {
					report.MissingKeys = append(report.MissingKeys, KeyFinding{Record: i, Key: key})
				}
			}
		}
		if i < markupSampleSize {
			report.markupSampled++
			for _, key := range markupCheckedKeys {
				value := stringValue(record[key])
				if strings.ContainsAny(value, "<>") {
					report.MarkupLeaks = append(report.MarkupLeaks, MarkupFinding{
						Record: i,
						Key:    key,
						Value:  clip(value, 80),
					})
				}
			}
		}
		if i >= missingKeySampleSize && i >= markupSampleSize {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("records", report.Records),
		attribute.Int("missing_keys", len(report.MissingKeys)),
		attribute.Int("markup_leaks", len(report.MarkupLeaks)),
	)
	return report, nil
}

func stringValue(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var value *string
	err := json.Unmarshal(raw, &value)
	if err != nil || value == nil {
		return ""
	}
	return *value
}

func clip(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
