package gradcafe

import (
	"github.com/PuerkitoBio/goquery"

	"gradharvest/lib/htmlutil"
	"gradharvest/lib/textutil"
)

// cardSelectors is the fallback chain for result fragments on pages without
// a recognizable table, ordered most specific first. The first selector that
// matches anything wins. The chain is data more than logic, the forum's
// markup generations simply differ this much.
var cardSelectors = []string{
	"div[role='row']",
	"article",
	"ul li",
	"div.tw-flex.tw-items-center, div.tw-inline-flex.tw-items-center",
	".result-row, .c-result, .result, article, .search-result, .post, tr.result",
	`div[class*="result"], section[class*="result"]`,
}

// SetCardSelectors replaces the card fallback chain, most specific first.
// Useful when the site ships a markup generation this package has not
// caught up with yet.
func SetCardSelectors(selectors []string) {
	if len(selectors) == 0 {
		return
	}
	cardSelectors = selectors
}

// class hints for fields inside a card, tried before any text heuristics
var cardFieldSelectors = struct {
	university string
	program    string
	comments   string
	date       string
	status     string
}{
	university: ".university, .institution, .c-institution, .inst, .td-institution",
	program:    ".program, .c-program, .td-program",
	comments:   ".comments, .c-comments, .td-comments",
	date:       ".date, .c-date, time, .td-date",
	status:     ".status, .c-decision, .decision, .td-decision",
}

func findCardBlocks(doc *goquery.Document) *goquery.Selection {
	for _, selector := range cardSelectors {
		blocks := doc.Find(selector)
		if blocks.Length() > 0 {
			return blocks
		}
	}
	return nil
}

// buildCardRows extracts records from non-tabular result fragments. Fields
// come from class-hinted sub-elements when present, then from patterns over
// the card's full text. A university is always inferred from the leading
// text segment as a last resort.
func buildCardRows(doc *goquery.Document, sourceUrl string) []Record {
	blocks := findCardBlocks(doc)
	if blocks == nil {
		return nil
	}

	var out []Record
	blocks.Each(func(_ int, block *goquery.Selection) {
		blob := htmlutil.Text(block)

		rec := newRecord(sourceUrl)
		rec.University = optional(htmlutil.Text(block.Find(cardFieldSelectors.university).First()))
		rec.Program = optional(htmlutil.Text(block.Find(cardFieldSelectors.program).First()))
		rec.Comments = optional(htmlutil.Text(block.Find(cardFieldSelectors.comments).First()))
		rec.DateAdded = optional(htmlutil.Text(block.Find(cardFieldSelectors.date).First()))
		if status := htmlutil.Text(block.Find(cardFieldSelectors.status).First()); status != "" {
			rec.Status = optional(normalizeStatus(status))
		}

		if rec.University == nil {
			rec.University = optional(textutil.FirstSegment(blob))
		}

		fillFromText(&rec, blob)

		if rec.Degree == nil {
			if m := firstMatch(degreeRegex, deref(rec.Program)); m != "" {
				rec.Degree = optional(normalizeDegree(m))
			}
		}

		if rec.HasSignal() {
			out = append(out, rec)
		}
	})

	return out
}
