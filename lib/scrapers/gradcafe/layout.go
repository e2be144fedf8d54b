package gradcafe

import (
	"github.com/PuerkitoBio/goquery"

	"gradharvest/lib/htmlutil"
	"gradharvest/lib/textutil"
)

const (
	colUniversity = "university"
	colProgram    = "program"
	colDateAdded  = "date_added"
	colStatus     = "status"
	colComments   = "comments"
)

// headerKeywords maps column labels to semantic columns. Matching is
// substring based on normalized labels, so "Date  Added" and "dateadded"
// both land on date_added. A later matching header overrides an earlier one.
var headerKeywords = []struct {
	column   string
	matchers []string
}{
	{colUniversity, []string{"school", "university", "institution", "college"}},
	{colProgram, []string{"program", "major"}},
	{colDateAdded, []string{"added", "date"}},
	{colStatus, []string{"decision", "status"}},
	{colComments, []string{"comment", "note"}},
}

// tableLayout is a qualifying results table along with its column mapping
// and whether the header labels had to be taken from the first body row.
type tableLayout struct {
	table          *goquery.Selection
	columns        map[string]int
	headerFromBody bool
}

// detectTable scans tables in document order and returns the first one whose
// headers look like admissions results. A table qualifies when it maps both
// a university and a program column, or a status column. The second return
// is false when no table qualifies and card parsing should take over.
func detectTable(doc *goquery.Document) (tableLayout, bool) {
	var found tableLayout
	ok := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		labels, fromBody := headerLabels(table)
		if len(labels) == 0 {
			return true
		}
		columns := classifyHeaders(labels)
		if !qualifies(columns) {
			return true
		}
		found = tableLayout{
			table:          table,
			columns:        columns,
			headerFromBody: fromBody,
		}
		ok = true
		return false
	})

	return found, ok
}

func headerLabels(table *goquery.Selection) ([]string, bool) {
	var labels []string

	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		labels = append(labels, htmlutil.Text(th))
	})
	if len(labels) > 0 {
		return labels, false
	}

	table.Find("tbody tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		labels = append(labels, htmlutil.Text(cell))
	})
	return labels, len(labels) > 0
}

func classifyHeaders(labels []string) map[string]int {
	columns := map[string]int{}
	for i, label := range labels {
		for _, kw := range headerKeywords {
			if textutil.MatchName(label, kw.matchers) {
				columns[kw.column] = i
			}
		}
	}
	return columns
}

func qualifies(columns map[string]int) bool {
	_, hasUniversity := columns[colUniversity]
	_, hasProgram := columns[colProgram]
	_, hasStatus := columns[colStatus]
	return (hasUniversity && hasProgram) || hasStatus
}
