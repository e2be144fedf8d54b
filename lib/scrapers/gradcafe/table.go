package gradcafe

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gradharvest/lib/htmlutil"
)

// buildTableRows turns the body rows of a qualifying table into records.
// Rows that look presentational (header cells, fewer than two cells) are
// skipped, as is the first body row when it supplied the header labels.
func buildTableRows(layout tableLayout, sourceUrl string) []Record {
	var out []Record

	rows := layout.table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = layout.table.Find("tr")
	}

	rows.Each(func(i int, tr *goquery.Selection) {
		if layout.headerFromBody && i == 0 {
			return
		}
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		if tr.Find("th").Length() > 0 {
			return
		}

		texts := make([]string, cells.Length())
		cells.Each(func(j int, cell *goquery.Selection) {
			texts[j] = htmlutil.Text(cell)
		})
		cellText := func(column string) string {
			j, ok := layout.columns[column]
			if !ok || j >= len(texts) {
				return ""
			}
			return texts[j]
		}

		rec := newRecord(sourceUrl)
		rec.University = optional(cellText(colUniversity))
		rec.Program = optional(cellText(colProgram))
		rec.DateAdded = optional(cellText(colDateAdded))
		rec.Comments = optional(cellText(colComments))
		if status := cellText(colStatus); status != "" {
			rec.Status = optional(normalizeStatus(status))
		}

		// whatever the mapped columns did not cover is fished out of the
		// row's combined text
		fillFromText(&rec, strings.Join(texts, " "))

		if rec.HasSignal() {
			out = append(out, rec)
		}
	})

	return out
}
