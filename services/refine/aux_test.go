package refine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadAuxAcceptsBothKeySpellings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aux.json")
	raw := `[
		{"llm_generated_program": "Computer Science", "llm_generated_university": "Massachusetts Institute of Technology"},
		{"llm-generated-program": "Electrical Engineering", "llm-generated-university": "Stanford University"}
	]`
	err := os.WriteFile(path, []byte(raw), 0644)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := LoadAux(path)
	require.NoError(t, err)

	want := []AuxRow{
		{Program: "Computer Science", University: "Massachusetts Institute of Technology"},
		{Program: "Electrical Engineering", University: "Stanford University"},
	}
	diff := cmp.Diff(want, rows)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestApplyAux(t *testing.T) {
	ctx := context.Background()
	rows := []Row{
		{Pid: 1, Program: "CS PhD", University: "MIT", ProgramNorm: "CS PhD", UniversityNorm: "MIT"},
		{Pid: 2, Program: "History", University: "UCLA", ProgramNorm: "History", UniversityNorm: "UCLA"},
		{Pid: 3, Program: "Biology", University: "Yale", ProgramNorm: "Biology", UniversityNorm: "Yale"},
	}
	aux := []AuxRow{
		{Program: "Computer Science PhD", University: "Massachusetts Institute of Technology"},
		// drifted: this suggestion describes a different program entirely
		{Program: "Mathematics", University: "Somewhere Else"},
		{University: "Yale University"},
	}

	applied := ApplyAux(ctx, rows, aux)
	require.Equal(t, 2, applied)

	require.Equal(t, "Computer Science PhD", rows[0].ProgramNorm)
	require.Equal(t, "Massachusetts Institute of Technology", rows[0].UniversityNorm)
	require.Equal(t, "Massachusetts Institute of Technology", rows[0].University)

	// the drifted suggestion left row 2 untouched
	require.Equal(t, "History", rows[1].ProgramNorm)
	require.Equal(t, "UCLA", rows[1].UniversityNorm)

	// a university-only suggestion applies without a program check
	require.Equal(t, "Biology", rows[2].ProgramNorm)
	require.Equal(t, "Yale University", rows[2].UniversityNorm)
}

func TestApplyAuxShorterThanRows(t *testing.T) {
	ctx := context.Background()
	rows := []Row{
		{Pid: 1, Program: "CS", ProgramNorm: "CS"},
		{Pid: 2, Program: "Math", ProgramNorm: "Math"},
	}
	aux := []AuxRow{{Program: "Computer Science (CS)"}}

	applied := ApplyAux(ctx, rows, aux)
	require.Equal(t, 1, applied)
	require.Equal(t, "Computer Science (CS)", rows[0].ProgramNorm)
	require.Equal(t, "Math", rows[1].ProgramNorm)
}

func TestApplyAuxEmptySuggestionsCountNothing(t *testing.T) {
	ctx := context.Background()
	rows := []Row{{Pid: 1, Program: "CS", ProgramNorm: "CS"}}
	applied := ApplyAux(ctx, rows, []AuxRow{{}})
	require.Equal(t, 0, applied)
	require.Equal(t, "CS", rows[0].ProgramNorm)
}

func TestSameProgram(t *testing.T) {
	testCases := []struct {
		name      string
		scraped   string
		suggested string
		want      bool
	}{
		{"exact", "Computer Science", "Computer Science", true},
		{"case and punctuation", "computer science!", "Computer Science", true},
		{"containment", "CS", "Computer Science (CS)", true},
		{"abbreviation expanded", "CS PhD", "Computer Science PhD", true},
		{"minor variation", "Computer Sciences", "Computer Science", true},
		{"different subject", "History", "Mathematics", false},
		{"empty scraped trusts the suggestion", "", "Anything", true},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, sameProgram(test.scraped, test.suggested))
		})
	}
}
