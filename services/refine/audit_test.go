package refine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeAuditFixture(t *testing.T, raw string) string {
	path := filepath.Join(t.TempDir(), "records.json")
	err := os.WriteFile(path, []byte(raw), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func fullRecordJson() string {
	return `{
		"program": "Computer Science", "university": "MIT", "comments": "solid",
		"date_added": "3/1/2024", "entry_url": "https://x/survey/?page=1",
		"status": "Accepted", "accept_date": null, "reject_date": null,
		"start_term": "Fall", "start_year": "2024", "intl_american": null,
		"gre_total": null, "gre_verbal": null, "gre_aw": null,
		"degree": "PhD", "gpa": "3.9"
	}`
}

func TestAuditCleanFile(t *testing.T) {
	path := writeAuditFixture(t, "["+fullRecordJson()+","+fullRecordJson()+"]")

	report, err := Audit(context.Background(), path)
	require.NoError(t, err)
	require.True(t, report.Clean())
	require.Equal(t, 2, report.Records)
	require.Empty(t, report.MissingKeys)
	require.Empty(t, report.MarkupLeaks)
}

func TestAuditFlagsMissingKeys(t *testing.T) {
	// second record lost its gpa and status keys entirely
	damaged := `{
		"program": "History", "university": "Yale", "comments": null,
		"date_added": null, "entry_url": "https://x/survey/?page=2",
		"accept_date": null, "reject_date": null,
		"start_term": null, "start_year": null, "intl_american": null,
		"gre_total": null, "gre_verbal": null, "gre_aw": null,
		"degree": null
	}`
	path := writeAuditFixture(t, "["+fullRecordJson()+","+damaged+"]")

	report, err := Audit(context.Background(), path)
	require.NoError(t, err)
	require.False(t, report.Clean())

	keys := []string{}
	for _, finding := range report.MissingKeys {
		require.Equal(t, 1, finding.Record)
		keys = append(keys, finding.Key)
	}
	require.ElementsMatch(t, []string{"status", "gpa"}, keys)
}

func TestAuditFlagsMarkupLeaks(t *testing.T) {
	leaky := `{
		"program": "<span>Computer Science</span>", "university": "MIT", "comments": "fine",
		"date_added": null, "entry_url": "https://x/survey/?page=1",
		"status": null, "accept_date": null, "reject_date": null,
		"start_term": null, "start_year": null, "intl_american": null,
		"gre_total": null, "gre_verbal": null, "gre_aw": null,
		"degree": null, "gpa": null
	}`
	path := writeAuditFixture(t, "["+leaky+"]")

	report, err := Audit(context.Background(), path)
	require.NoError(t, err)
	require.False(t, report.Clean())
	require.Len(t, report.MarkupLeaks, 1)
	require.Equal(t, 0, report.MarkupLeaks[0].Record)
	require.Equal(t, "program", report.MarkupLeaks[0].Key)
	require.Contains(t, report.MarkupLeaks[0].Value, "<span>")
}

func TestAuditMissingFile(t *testing.T) {
	_, err := Audit(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestAuditDescribe(t *testing.T) {
	report := AuditReport{
		Records:     3,
		MissingKeys: []KeyFinding{{Record: 1, Key: "gpa"}},
		MarkupLeaks: []MarkupFinding{{Record: 2, Key: "comments", Value: "<b>no</b>"}},
	}
	lines := report.Describe()
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], `missing key "gpa"`)
	require.Contains(t, lines[2], "<b>no</b>")
}
