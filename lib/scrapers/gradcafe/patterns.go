package gradcafe

import (
	"regexp"
	"strings"

	"gradharvest/lib/textutil"
)

// Field patterns seen across the forum's markup generations. Postings embed
// stats in free text ("GPA: 3.8 GRE 320 Fall 2025") regardless of layout, so
// extraction works on text blobs rather than markup.
var (
	gpaRegex       = regexp.MustCompile(`(?i)\bGPA[:\s]*([0-4](?:\.\d{1,2})?)\b`)
	greTotalRegex  = regexp.MustCompile(`(?i)\bGRE(?:\s*Total)?[:\s]*([12]\d{2,3})\b`)
	greVerbalRegex = regexp.MustCompile(`(?i)\bGRE-?V(?:erbal)?[:\s]*([12]\d{2})\b`)
	greAwRegex     = regexp.MustCompile(`(?i)\bGRE-?AW[:\s]*([0-6](?:\.\d)?)\b`)
	termRegex      = regexp.MustCompile(`(?i)\b(Fall|Spring|Summer|Winter)\b`)
	yearRegex      = regexp.MustCompile(`\b(20\d{2})\b`)
	statusRegex    = regexp.MustCompile(`(?i)\b(accepted|rejected|waitlisted|interview|offer)\b`)
	intlRegex      = regexp.MustCompile(`(?i)\b(international|american|domestic|us citizen)\b`)
	degreeRegex    = regexp.MustCompile(`(?i)\b(Ph\.?D|PhD|Masters|MS|M\.S\.|MSc|PsyD|MEng)\b`)
	dateRegex      = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|[A-Z][a-z]{2}\s+\d{1,2},\s*\d{4})\b`)
)

func firstMatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func normalizeStatus(value string) string {
	if value == "" {
		return ""
	}
	l := strings.ToLower(value)
	switch {
	case strings.Contains(l, "accept") || strings.Contains(l, "offer"):
		return "Accepted"
	case strings.Contains(l, "reject") || strings.Contains(l, "denied"):
		return "Rejected"
	case strings.Contains(l, "wait"):
		return "Waitlisted"
	case strings.Contains(l, "interview"):
		return "Interview"
	}
	return textutil.TitleFirst(value)
}

func normalizeDegree(value string) string {
	if value == "" {
		return ""
	}
	l := strings.ToLower(value)
	if strings.Contains(l, "ph") {
		return "PhD"
	}
	if strings.Contains(l, "psy") {
		return "PsyD"
	}
	switch l {
	case "ms", "m.s.", "m.sc", "msc", "masters", "master":
		return "Masters"
	}
	return textutil.TitleFirst(value)
}

func normalizeCitizenship(value string) string {
	if value == "" {
		return ""
	}
	l := strings.ToLower(value)
	switch {
	case strings.Contains(l, "inter"):
		return "International"
	case strings.Contains(l, "amer") || strings.Contains(l, "domestic") || strings.Contains(l, "us"):
		return "American"
	}
	return textutil.TitleFirst(value)
}

type patternField struct {
	name      string
	re        *regexp.Regexp
	normalize func(string) string
	slot      func(*Record) **string
}

// patternFields is the fill order for blob extraction. Each entry only ever
// writes a field that is still unset, so values parsed from dedicated
// markup always win over ones fished out of free text.
var patternFields = []patternField{
	{"status", statusRegex, normalizeStatus, func(r *Record) **string { return &r.Status }},
	{"degree", degreeRegex, normalizeDegree, func(r *Record) **string { return &r.Degree }},
	{"start_term", termRegex, nil, func(r *Record) **string { return &r.StartTerm }},
	{"start_year", yearRegex, nil, func(r *Record) **string { return &r.StartYear }},
	{"intl_american", intlRegex, normalizeCitizenship, func(r *Record) **string { return &r.Citizenship }},
	{"gpa", gpaRegex, nil, func(r *Record) **string { return &r.Gpa }},
	{"gre_total", greTotalRegex, nil, func(r *Record) **string { return &r.GreTotal }},
	{"gre_verbal", greVerbalRegex, nil, func(r *Record) **string { return &r.GreVerbal }},
	{"gre_aw", greAwRegex, nil, func(r *Record) **string { return &r.GreAw }},
	{"date_added", dateRegex, nil, func(r *Record) **string { return &r.DateAdded }},
}

// fillFromText runs every pattern over a text blob and assigns whatever is
// missing. Malformed text is never an error, fields just stay nil.
func fillFromText(rec *Record, blob string) {
	if blob == "" {
		return
	}
	for _, field := range patternFields {
		slot := field.slot(rec)
		if *slot != nil {
			continue
		}
		match := firstMatch(field.re, blob)
		if match == "" {
			continue
		}
		if field.normalize != nil {
			match = field.normalize(match)
		}
		*slot = optional(match)
	}
}
