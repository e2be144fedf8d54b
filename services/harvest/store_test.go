package harvest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"gradharvest/lib/scrapers/gradcafe"
	"gradharvest/lib/telemetry"
)

func strptr(s string) *string {
	return &s
}

func makeRecord(url, program, university string) gradcafe.Record {
	rec := gradcafe.Record{SourceUrl: strptr(url)}
	if program != "" {
		rec.Program = strptr(program)
	}
	if university != "" {
		rec.University = strptr(university)
	}
	return rec
}

func TestSeedFromLogSkipsMalformedLines(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/harvest")
	defer cleanup()

	logPath := filepath.Join(t.TempDir(), "records.jsonl")
	valid1, _ := json.Marshal(makeRecord("https://x.test/?page=1", "CS", "MIT"))
	valid2, _ := json.Marshal(makeRecord("https://x.test/?page=1", "Math", "UCLA"))
	content := string(valid1) + "\n{{{ not json\n" + string(valid2) + "\n"
	err := os.WriteFile(logPath, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore(logPath)
	seeded, err := store.SeedFromLog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 2, seeded)

	// everything seeded is considered already harvested
	fresh := store.FilterNew([]gradcafe.Record{
		makeRecord("https://x.test/?page=1", "CS", "MIT"),
		makeRecord("https://x.test/?page=1", "Math", "UCLA"),
	})
	require.Empty(t, fresh)
}

func TestSeedFromLogMissingFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/harvest")
	defer cleanup()

	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist.jsonl"))
	seeded, err := store.SeedFromLog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	require.Zero(t, seeded)
}

func TestFilterNewDedupsWithinBatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/harvest")
	defer cleanup()

	store := NewStore(filepath.Join(t.TempDir(), "records.jsonl"))

	first := makeRecord("https://x.test/?page=1", "CS", "MIT")
	duplicate := makeRecord("https://x.test/?page=1", "CS", "MIT")
	duplicate.Comments = strptr("different comment, same identity")
	other := makeRecord("https://x.test/?page=1", "Physics", "Cornell")

	fresh := store.FilterNew([]gradcafe.Record{first, duplicate, other})
	require.Len(t, fresh, 2)
	// first occurrence wins, input order is preserved
	require.Nil(t, fresh[0].Comments)
	require.Equal(t, "Physics", *fresh[1].Program)

	// a second pass over the same batch yields nothing
	require.Empty(t, store.FilterNew([]gradcafe.Record{first, duplicate, other}))
}

func TestAppendRebuildRoundTrip(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/harvest")
	defer cleanup()

	logPath := filepath.Join(t.TempDir(), "records.jsonl")
	store := NewStore(logPath)

	batch1 := []gradcafe.Record{
		makeRecord("https://x.test/?page=1", "CS", "MIT"),
		makeRecord("https://x.test/?page=1", "Math", "UCLA"),
	}
	batch2 := []gradcafe.Record{
		makeRecord("https://x.test/?page=2", "Physics", "Cornell"),
	}
	ctx := context.Background()
	err := store.Append(ctx, batch1)
	if err != nil {
		t.Fatal(err)
	}
	err = store.Append(ctx, batch2)
	if err != nil {
		t.Fatal(err)
	}

	// a torn write from an interrupted run must not break later reads
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = file.WriteString(`{"program": "truncat`)
	if err != nil {
		t.Fatal(err)
	}
	file.Close()

	rebuilt, err := store.Rebuild(ctx)
	if err != nil {
		t.Fatal(err)
	}
	diff := cmp.Diff(append(batch1, batch2...), rebuilt)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteCanonical(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/harvest")
	defer cleanup()

	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "records.jsonl"))
	ctx := context.Background()

	err := store.Append(ctx, []gradcafe.Record{
		makeRecord("https://x.test/?page=1", "CS", "MIT"),
	})
	if err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "records.json")
	total, err := store.WriteCanonical(ctx, outPath)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, total)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var parsed []map[string]any
	err = json.Unmarshal(data, &parsed)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, parsed, 1)
	require.Equal(t, "MIT", parsed[0]["university"])
	// nil fields survive as explicit nulls
	require.Contains(t, parsed[0], "gpa")
	require.Nil(t, parsed[0]["gpa"])
}

func TestWriteCanonicalEmptyStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/harvest")
	defer cleanup()

	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "records.jsonl"))

	outPath := filepath.Join(dir, "records.json")
	total, err := store.WriteCanonical(context.Background(), outPath)
	if err != nil {
		t.Fatal(err)
	}
	require.Zero(t, total)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	require.JSONEq(t, "[]", string(data))
}

func TestRepeatedExtractionAddsNothing(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/harvest")
	defer cleanup()

	page := []byte(`
		<table>
			<thead><tr><th>School</th><th>Program</th><th>Decision</th></tr></thead>
			<tbody>
				<tr><td>MIT</td><td>CS</td><td>Accepted</td></tr>
				<tr><td>UCLA</td><td>Math</td><td>Rejected</td></tr>
			</tbody>
		</table>`)
	pageUrl := "https://x.test/survey/?page=1"
	ctx := context.Background()

	store := NewStore(filepath.Join(t.TempDir(), "records.jsonl"))

	candidates, err := gradcafe.Extract(ctx, pageUrl, page)
	if err != nil {
		t.Fatal(err)
	}
	fresh := store.FilterNew(candidates)
	require.Len(t, fresh, 2)
	err = store.Append(ctx, fresh)
	if err != nil {
		t.Fatal(err)
	}

	// the same page again produces identical keys and therefore nothing new
	candidates, err = gradcafe.Extract(ctx, pageUrl, page)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, store.FilterNew(candidates))

	rebuilt, err := store.Rebuild(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rebuilt, 2)
}
