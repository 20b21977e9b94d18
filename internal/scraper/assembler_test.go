package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rec(id CandidateID) CaseRecord {
	return CaseRecord{ID: id, Title: "case"}
}

func TestAssembleOrdersDescending(t *testing.T) {
	t.Parallel()

	// Completion order of concurrent fetches is arbitrary; output must not be.
	shuffles := [][]CaseRecord{
		{rec(95), rec(97), rec(96)},
		{rec(96), rec(95), rec(97)},
		{rec(97), rec(96), rec(95)},
	}
	for _, in := range shuffles {
		out := Assemble(in, 3)
		require.Len(t, out, 3)
		require.Equal(t, CandidateID(97), out[0].ID)
		require.Equal(t, CandidateID(96), out[1].ID)
		require.Equal(t, CandidateID(95), out[2].ID)
	}
}

func TestAssembleDeduplicates(t *testing.T) {
	t.Parallel()

	out := Assemble([]CaseRecord{rec(10), rec(10), rec(9)}, 0)
	require.Len(t, out, 2)
	require.Equal(t, CandidateID(10), out[0].ID)
	require.Equal(t, CandidateID(9), out[1].ID)
}

func TestAssembleTruncates(t *testing.T) {
	t.Parallel()

	out := Assemble([]CaseRecord{rec(1), rec(5), rec(3), rec(4)}, 2)
	require.Len(t, out, 2)
	require.Equal(t, CandidateID(5), out[0].ID)
	require.Equal(t, CandidateID(4), out[1].ID)
}

func TestAssembleNoLimit(t *testing.T) {
	t.Parallel()

	out := Assemble([]CaseRecord{rec(2), rec(1)}, 0)
	require.Len(t, out, 2)

	require.Empty(t, Assemble(nil, 10))
}
