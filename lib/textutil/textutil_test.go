package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("Date  Added", []string{"added"}))
	require.True(t, MatchName(" School / University ", []string{"school", "university"}))
	require.False(t, MatchName("Notes", []string{"decision", "status"}))
}

func TestCollapse(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"  MIT \n Computer\tScience ", "MIT Computer Science"},
		{"already clean", "already clean"},
		{"\n\t ", ""},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, Collapse(tc.in))
	}
}

func TestFirstSegment(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Stanford — PhD Computer Science — Accepted", "Stanford"},
		{"• UCLA • Masters", "UCLA"},
		{"Cornell  |  Statistics", "Cornell"},
		{"NoSeparatorsHere", "NoSeparatorsHere"},
		{"", ""},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, FirstSegment(tc.in))
	}
}

func TestTitleFirst(t *testing.T) {
	require.Equal(t, "Pending", TitleFirst("PENDING"))
	require.Equal(t, "Deferred", TitleFirst(" deferred "))
	require.Equal(t, "", TitleFirst(""))
}
