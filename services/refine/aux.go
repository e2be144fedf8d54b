package refine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"

	"gradharvest/lib/textutil"
)

// AuxRow is one externally produced standardization suggestion, aligned by
// position with the cleaned rows.
type AuxRow struct {
	Program    string
	University string
}

// Suggestion files in the wild spell the keys with both underscores and
// hyphens, so decoding accepts either.
func (a *AuxRow) UnmarshalJSON(raw []byte) error {
	var fields map[string]string
	err := json.Unmarshal(raw, &fields)
	if err != nil {
		return err
	}
	a.Program = firstValue(fields, "llm_generated_program", "llm-generated-program")
	a.University = firstValue(fields, "llm_generated_university", "llm-generated-university")
	return nil
}

func firstValue(fields map[string]string, keys ...string) string {
	for _, key := range keys {
		if value, ok := fields[key]; ok {
			return value
		}
	}
	return ""
}

// LoadAux reads a standardization suggestion file.
func LoadAux(path string) ([]AuxRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aux rows: %w", err)
	}
	var rows []AuxRow
	err = json.Unmarshal(raw, &rows)
	if err != nil {
		return nil, fmt.Errorf("decode aux rows: %w", err)
	}
	return rows, nil
}

// minimum name similarity for an aux suggestion to be trusted
const sameProgramThreshold = 0.85

// ApplyAux overlays standardization suggestions onto rows by position,
// skipping suggestions that clearly describe a different program. Returns
// how many rows were updated.
func ApplyAux(ctx context.Context, rows []Row, aux []AuxRow) int {
	_, span := tracer.Start(ctx, "ApplyAux")
	defer span.End()

	applied := 0
	for i := range rows {
		if i >= len(aux) {
			break
		}
		suggestion := aux[i]
		if suggestion.Program == "" && suggestion.University == "" {
			continue
		}
		if suggestion.Program != "" && !sameProgram(rows[i].Program, suggestion.Program) {
			continue
		}

		if suggestion.Program != "" {
			rows[i].ProgramNorm = suggestion.Program
		}
		if suggestion.University != "" {
			rows[i].UniversityNorm = suggestion.University
			rows[i].University = suggestion.University
		}
		applied++
	}

	span.SetAttributes(
		attribute.Int("rows", len(rows)),
		attribute.Int("applied", applied),
	)
	return applied
}

// sameProgram guards against aux files drifting out of alignment with the
// rows they were generated from. Exact and substring matches on normalized
// names pass outright, as do abbreviations the suggestion expands ("CS PhD"
// against "Computer Science PhD"); everything else needs high string
// similarity.
func sameProgram(scraped, suggested string) bool {
	if scraped == "" {
		return true
	}
	left := textutil.NormalizeName(scraped)
	right := textutil.NormalizeName(suggested)
	if left == right {
		return true
	}
	if strings.Contains(left, right) || strings.Contains(right, left) {
		return true
	}
	if isSubsequence(left, right) {
		return true
	}
	return matchr.JaroWinkler(left, right, false) > sameProgramThreshold
}

// isSubsequence reports whether every rune of short appears in long in the
// same order, the shape an abbreviation keeps when it is expanded.
func isSubsequence(short, long string) bool {
	if len(short) > len(long) {
		return false
	}
	rest := long
	for _, c := range short {
		i := strings.IndexRune(rest, c)
		if i < 0 {
			return false
		}
		rest = rest[i+1:]
	}
	return true
}
