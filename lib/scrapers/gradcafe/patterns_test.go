package gradcafe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFillFromText(t *testing.T) {
	testCases := []struct {
		name string
		blob string
		want Record
	}{
		{
			name: "labeled stats",
			blob: "GPA: 3.85 GRE 298 GRE-V 162 GRE-AW 4.5",
			want: Record{
				Gpa:       optional("3.85"),
				GreTotal:  optional("298"),
				GreVerbal: optional("162"),
				GreAw:     optional("4.5"),
			},
		},
		{
			name: "old scale gre total",
			blob: "GRE Total: 1460",
			want: Record{
				GreTotal: optional("1460"),
			},
		},
		{
			name: "term year and citizenship",
			blob: "starting Fall 2025, international applicant",
			want: Record{
				StartTerm:   optional("Fall"),
				StartYear:   optional("2025"),
				Citizenship: optional("International"),
			},
		},
		{
			name: "status and degree",
			blob: "PhD offer came through!",
			want: Record{
				Status: optional("Accepted"),
				Degree: optional("PhD"),
			},
		},
		{
			name: "numeric date",
			blob: "posted 3/1/2024",
			want: Record{
				DateAdded: optional("3/1/2024"),
				StartYear: optional("2024"),
			},
		},
		{
			name: "textual date",
			blob: "posted Jan 31, 2025",
			want: Record{
				DateAdded: optional("Jan 31, 2025"),
				StartYear: optional("2025"),
			},
		},
		{
			name: "bare numbers are not scores",
			blob: "ranked 3.9 out of 350 applicants",
			want: Record{},
		},
		{
			name: "empty blob",
			blob: "",
			want: Record{},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var rec Record
			fillFromText(&rec, test.blob)
			diff := cmp.Diff(test.want, rec)
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestFillFromTextKeepsExistingValues(t *testing.T) {
	rec := Record{Status: optional("Rejected")}
	fillFromText(&rec, "Accepted with GPA: 3.5")
	require.Equal(t, "Rejected", deref(rec.Status))
	require.Equal(t, "3.5", deref(rec.Gpa))
}

func TestNormalizeStatus(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Accepted", "Accepted"},
		{"offer received", "Accepted"},
		{"REJECTED via email", "Rejected"},
		{"denied", "Rejected"},
		{"Wait listed", "Waitlisted"},
		{"Interview scheduled", "Interview"},
		{"pending", "Pending"},
		{"", ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.want, normalizeStatus(test.in), "input: %q", test.in)
	}
}

func TestNormalizeDegree(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Ph.D", "PhD"},
		{"phd", "PhD"},
		{"PsyD", "PsyD"},
		{"MS", "Masters"},
		{"masters", "Masters"},
		{"msc", "Masters"},
		{"", ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.want, normalizeDegree(test.in), "input: %q", test.in)
	}
}

func TestNormalizeCitizenship(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"International", "International"},
		{"american", "American"},
		{"domestic", "American"},
		{"US Citizen", "American"},
		{"", ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.want, normalizeCitizenship(test.in), "input: %q", test.in)
	}
}

func TestGreTotalDoesNotEatVerbal(t *testing.T) {
	var rec Record
	fillFromText(&rec, "GRE-V 165")
	require.Nil(t, rec.GreTotal)
	require.Equal(t, "165", deref(rec.GreVerbal))
}
