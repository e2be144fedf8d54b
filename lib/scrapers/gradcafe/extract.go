package gradcafe

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Extract parses one fetched page and returns every candidate record on it.
// Table parsing wins when a qualifying table exists, otherwise the card
// fallback chain runs. A page with nothing extractable yields an empty
// slice, never an error.
func Extract(ctx context.Context, sourceUrl string, page []byte) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(attribute.String("url", sourceUrl))

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var records []Record
	layout, ok := detectTable(doc)
	if ok {
		records = buildTableRows(layout, sourceUrl)
		span.SetAttributes(attribute.String("layout", "table"))
	} else {
		records = buildCardRows(doc, sourceUrl)
		span.SetAttributes(attribute.String("layout", "cards"))
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}
