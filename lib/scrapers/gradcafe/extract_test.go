package gradcafe

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPrefersTableOverCards(t *testing.T) {
	page := []byte(`
		<article>Stanford — PhD — Accepted</article>
		<table>
			<thead><tr><th>School</th><th>Program</th></tr></thead>
			<tbody><tr><td>MIT</td><td>CS</td></tr></tbody>
		</table>`)

	records, err := Extract(context.Background(), "https://example.test/survey/?page=1", page)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, records, 1)
	require.Equal(t, "MIT", deref(records[0].University))
}

func TestExtractFallsBackToCards(t *testing.T) {
	page := []byte(`<article>Stanford — PhD — Accepted</article>`)

	records, err := Extract(context.Background(), "https://example.test/survey/?page=1", page)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, records, 1)
	require.Equal(t, "Stanford", deref(records[0].University))
}

func TestExtractEmptyPage(t *testing.T) {
	records, err := Extract(context.Background(), "https://example.test/survey/?page=9", nil)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, records)
}

func TestExtractedRecordsSerializeFullKeySet(t *testing.T) {
	page := []byte(`
		<table>
			<thead><tr><th>School</th><th>Program</th></tr></thead>
			<tbody><tr><td>MIT</td><td>CS</td></tr></tbody>
		</table>`)

	records, err := Extract(context.Background(), "https://example.test/survey/?page=1", page)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, records, 1)

	data, err := json.Marshal(records[0])
	if err != nil {
		t.Fatal(err)
	}
	var asMap map[string]json.RawMessage
	err = json.Unmarshal(data, &asMap)
	if err != nil {
		t.Fatal(err)
	}

	wantKeys := []string{
		"program", "university", "comments", "date_added", "entry_url",
		"status", "accept_date", "reject_date", "start_term", "start_year",
		"intl_american", "gre_total", "gre_verbal", "gre_aw", "degree", "gpa",
	}
	for _, key := range wantKeys {
		require.Contains(t, asMap, key)
	}
	// unfilled fields serialize as explicit nulls
	require.Equal(t, "null", string(asMap["gpa"]))
	require.Equal(t, "null", string(asMap["status"]))
}
