package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/blastcore/internal/model"
)

func TestHyperSort_GroupsByDecodedPairAndOrdersByDecreasingSize(t *testing.T) {
	// two matches for (q0,s0), one for (q1,s0), no frame folding (nFrames=1)
	matches := []model.Match{
		{QryID: 1, SubjID: 0, QryStart: 5},
		{QryID: 0, SubjID: 0, QryStart: 0},
		{QryID: 0, SubjID: 0, QryStart: 1},
	}

	out, intervals := HyperSort(matches, 1, 1)
	require.Len(t, out, 3)
	require.Len(t, intervals, 2)

	// the (0,0) bucket has 2 items, so it sorts first
	require.Equal(t, int64(0), intervals[0].TrueQryID)
	require.Equal(t, 0, intervals[0].Start)
	require.Equal(t, 2, intervals[0].End)
	require.Equal(t, int64(1), intervals[1].TrueQryID)
	require.Equal(t, 2, intervals[1].Start)
	require.Equal(t, 3, intervals[1].End)

	// order within the (0,0) bucket is preserved
	require.Equal(t, 0, out[0].QryStart)
	require.Equal(t, 1, out[1].QryStart)
}

func TestHyperSort_DecodesFrames(t *testing.T) {
	// query 0 in frame 2 of 3, and query 0 in frame 0 of 3, share trueQryID
	matches := []model.Match{
		{QryID: model.EncodeFrame(0, 2, 3), SubjID: 0},
		{QryID: model.EncodeFrame(0, 0, 3), SubjID: 0},
	}
	_, intervals := HyperSort(matches, 3, 1)
	require.Len(t, intervals, 1)
	require.Equal(t, int64(0), intervals[0].TrueQryID)
	require.Equal(t, 0, intervals[0].Start)
	require.Equal(t, 2, intervals[0].End)
}

func TestHyperSort_Empty(t *testing.T) {
	out, intervals := HyperSort(nil, 1, 1)
	require.Nil(t, out)
	require.Nil(t, intervals)
}
