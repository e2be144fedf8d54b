package gradcafe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const resultsTablePage = `
<html><body>
<table>
	<thead><tr>
		<th>School</th><th>Program</th><th>Date Added</th><th>Decision</th><th>Notes</th>
	</tr></thead>
	<tbody>
		<tr>
			<td>MIT</td>
			<td>Computer Science</td>
			<td>3/1/2024</td>
			<td>Accepted</td>
			<td>GPA: 3.9 Fall 2024 international</td>
		</tr>
		<tr>
			<td>UCLA</td>
			<td>Statistics MS</td>
			<td></td>
			<td>Rejected via portal</td>
			<td>posted Jan 5, 2024</td>
		</tr>
		<tr><td>only one meaningful cell</td></tr>
		<tr><td></td><td></td><td></td><td></td><td></td></tr>
	</tbody>
</table>
</body></html>`

func TestBuildTableRows(t *testing.T) {
	doc := mustParse(t, resultsTablePage)
	layout, ok := detectTable(doc)
	require.True(t, ok)

	rows := buildTableRows(layout, "https://example.test/survey/?page=1")
	require.Len(t, rows, 2)

	first := rows[0]
	diff := cmp.Diff(Record{
		University:  optional("MIT"),
		Program:     optional("Computer Science"),
		DateAdded:   optional("3/1/2024"),
		Status:      optional("Accepted"),
		Comments:    optional("GPA: 3.9 Fall 2024 international"),
		SourceUrl:   optional("https://example.test/survey/?page=1"),
		Gpa:         optional("3.9"),
		StartTerm:   optional("Fall"),
		StartYear:   optional("2024"),
		Citizenship: optional("International"),
	}, first)
	if diff != "" {
		t.Fatal(diff)
	}

	second := rows[1]
	require.Equal(t, "UCLA", deref(second.University))
	require.Equal(t, "Rejected", deref(second.Status))
	// the empty date cell falls back to a date found in the row text
	require.Equal(t, "Jan 5, 2024", deref(second.DateAdded))
	require.Equal(t, "Masters", deref(second.Degree))
}

func TestBuildTableRowsSkipsHeaderLikeRows(t *testing.T) {
	doc := mustParse(t, `
		<table>
			<tbody>
				<tr><td>School</td><td>Program</td><td>Decision</td></tr>
				<tr><th>sticky</th><td>section header</td><td>row</td></tr>
				<tr><td>Cornell</td><td>Physics</td><td>Interview</td></tr>
			</tbody>
		</table>`)
	layout, ok := detectTable(doc)
	require.True(t, ok)
	require.True(t, layout.headerFromBody)

	rows := buildTableRows(layout, "https://example.test/survey/?page=2")
	require.Len(t, rows, 1)
	require.Equal(t, "Cornell", deref(rows[0].University))
	require.Equal(t, "Interview", deref(rows[0].Status))
}

func TestBuildTableRowsOutOfRangeColumn(t *testing.T) {
	// the mapped comments column does not exist on the short row
	doc := mustParse(t, `
		<table>
			<thead><tr><th>School</th><th>Program</th><th>Comment</th></tr></thead>
			<tbody><tr><td>Duke</td><td>Economics</td></tr></tbody>
		</table>`)
	layout, ok := detectTable(doc)
	require.True(t, ok)

	rows := buildTableRows(layout, "https://example.test/survey/?page=3")
	require.Len(t, rows, 1)
	require.Equal(t, "Duke", deref(rows[0].University))
	require.Nil(t, rows[0].Comments)
}
