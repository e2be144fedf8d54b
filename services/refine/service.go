package refine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"gradharvest/lib/scrapers/gradcafe"
	"gradharvest/lib/telemetry"
	"gradharvest/lib/textutil"
)

var tracer = telemetry.Tracer("gradharvest.services.refine")

// Row is one cleaned, analysis-ready record. Numeric fields stay nil when
// the scraped value was absent or unparseable.
type Row struct {
	Pid            int      `db:"p_id" json:"p_id"`
	Program        string   `db:"program" json:"program"`
	University     string   `db:"university" json:"university"`
	Comments       string   `db:"comments" json:"comments"`
	DateAdded      string   `db:"date_added" json:"date_added"`
	Url            string   `db:"url" json:"url"`
	Status         string   `db:"status" json:"status"`
	Term           string   `db:"term" json:"term"`
	Citizenship    string   `db:"us_or_international" json:"us_or_international"`
	Gpa            *float64 `db:"gpa" json:"gpa"`
	Gre            *float64 `db:"gre" json:"gre"`
	GreV           *float64 `db:"gre_v" json:"gre_v"`
	GreAw          *float64 `db:"gre_aw" json:"gre_aw"`
	Degree         string   `db:"degree" json:"degree"`
	ProgramNorm    string   `db:"program_norm" json:"llm_generated_program"`
	UniversityNorm string   `db:"university_norm" json:"llm_generated_university"`
}

// Clean turns scraped records into analysis-ready rows. Row ids are assigned
// in input order starting at 1. The normalized program and university
// default to the scraped values until ApplyAux overlays better ones.
func Clean(records []gradcafe.Record) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row := Row{
			Pid:            i + 1,
			Program:        deref(rec.Program),
			Comments:       deref(rec.Comments),
			DateAdded:      toDate(deref(rec.DateAdded)),
			Url:            deref(rec.SourceUrl),
			Status:         deref(rec.Status),
			Term:           buildTerm(rec),
			Citizenship:    normalizeNationality(deref(rec.Citizenship)),
			Gpa:            toFloat(rec.Gpa),
			Gre:            toFloat(rec.GreTotal),
			GreV:           toFloat(rec.GreVerbal),
			GreAw:          toFloat(rec.GreAw),
			Degree:         deref(rec.Degree),
			ProgramNorm:    deref(rec.Program),
			UniversityNorm: deref(rec.University),
		}
		// the displayed university always mirrors the normalized one
		row.University = row.UniversityNorm
		rows = append(rows, row)
	}
	return rows
}

// date layouts accepted from scraped text, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2-1-2006",
	"Jan 2, 2006",
	"1/2/06",
}

// toDate parses a scraped date into ISO form, empty when nothing matches.
func toDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}

var floatSentinels = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"none": {},
	"null": {},
}

// toFloat converts a scraped numeric string, treating the usual absence
// sentinels and unparseable values as nil.
func toFloat(value *string) *float64 {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if _, isSentinel := floatSentinels[strings.ToLower(v)]; isSentinel {
		return nil
	}
	v = strings.NewReplacer(",", "", "$", "").Replace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

func normalizeTerm(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return ""
	case "fall", "fa", "f":
		return "Fall"
	case "spring", "sp", "spr":
		return "Spring"
	case "summer", "su", "sum":
		return "Summer"
	case "winter", "wi", "win", "w":
		return "Winter"
	}
	return textutil.TitleFirst(value)
}

// buildTerm assembles the best "Fall 2025" style label the record supports,
// falling back to whichever of term or year exists and finally to a year
// recovered from a decision date.
func buildTerm(rec gradcafe.Record) string {
	term := normalizeTerm(deref(rec.StartTerm))
	year := strings.TrimSpace(deref(rec.StartYear))
	if !isDigits(year) {
		year = ""
	}

	switch {
	case term != "" && year != "":
		return term + " " + year
	case term != "":
		return term
	case year != "":
		return year
	}

	if date := toDate(deref(rec.AcceptDate)); date != "" {
		return date[:4]
	}
	if date := toDate(deref(rec.RejectDate)); date != "" {
		return date[:4]
	}
	return ""
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func normalizeNationality(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return ""
	}
	switch {
	case strings.Contains(v, "american"), v == "us", v == "usa", v == "u.s.", v == "u.s.a.":
		return "American"
	case strings.Contains(v, "intern"), v == "int", v == "intl":
		return "International"
	case strings.Contains(v, "other"):
		return "Other"
	}
	return ""
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
