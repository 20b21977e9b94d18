package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescendingSourceWindows(t *testing.T) {
	t.Parallel()

	s := NewDescendingSource(100, 0, 3)
	require.Equal(t, CandidateID(100), s.NextCandidate())

	require.Equal(t, []CandidateID{100, 99, 98}, s.Next())
	require.Equal(t, CandidateID(97), s.NextCandidate())
	require.Equal(t, []CandidateID{97, 96, 95}, s.Next())
}

func TestDescendingSourceFloorInclusive(t *testing.T) {
	t.Parallel()

	s := NewDescendingSource(92, 90, 10)

	// The floor ID itself must be probed.
	require.Equal(t, []CandidateID{92, 91, 90}, s.Next())
	require.Empty(t, s.Next())
	require.Empty(t, s.Next())
}

func TestDescendingSourceExhaustion(t *testing.T) {
	t.Parallel()

	s := NewDescendingSource(5, 4, 2)
	require.Equal(t, []CandidateID{5, 4}, s.Next())
	require.Empty(t, s.Next())
	require.Equal(t, CandidateID(3), s.NextCandidate())
}

func TestDescendingSourceDefaults(t *testing.T) {
	t.Parallel()

	s := NewDescendingSource(100, -5, 0)
	window := s.Next()
	require.Len(t, window, 50)
	require.Equal(t, CandidateID(100), window[0])
	require.Equal(t, CandidateID(51), window[49])
}
