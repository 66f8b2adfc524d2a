package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railalert.transitlab.org/internal/graph"
)

func TestFindPathsSingleTransfer(t *testing.T) {
	g, err := graph.New(testNetwork())
	require.NoError(t, err)

	paths := findPaths(g, "A", "D", DefaultMaxTransfers, DefaultMaxPaths)
	require.NotEmpty(t, paths)

	best := paths[0]
	require.Len(t, best, 2)
	assert.Equal(t, pathLeg{LineID: "east", FromStationID: "A", ToStationID: "B"}, best[0])
	assert.Equal(t, pathLeg{LineID: "north", FromStationID: "B", ToStationID: "D"}, best[1])
}

func TestFindPathsReverseDirection(t *testing.T) {
	g, err := graph.New(testNetwork())
	require.NoError(t, err)

	paths := findPaths(g, "D", "A", DefaultMaxTransfers, DefaultMaxPaths)
	require.NotEmpty(t, paths)

	best := paths[0]
	require.Len(t, best, 2)
	assert.Equal(t, pathLeg{LineID: "north", FromStationID: "D", ToStationID: "B"}, best[0])
	assert.Equal(t, pathLeg{LineID: "east", FromStationID: "B", ToStationID: "A"}, best[1])
}

func TestFindPathsTransferBound(t *testing.T) {
	g, err := graph.New(testNetwork())
	require.NoError(t, err)

	paths := findPaths(g, "A", "D", 0, DefaultMaxPaths)
	assert.Empty(t, paths, "A to D needs one transfer")
}

func TestFindPathsUnknownOrigin(t *testing.T) {
	g, err := graph.New(testNetwork())
	require.NoError(t, err)

	assert.Empty(t, findPaths(g, "Z", "D", DefaultMaxTransfers, DefaultMaxPaths))
}

func TestFindPathsSameLine(t *testing.T) {
	g, err := graph.New(testNetwork())
	require.NoError(t, err)

	paths := findPaths(g, "A", "C", DefaultMaxTransfers, DefaultMaxPaths)
	require.NotEmpty(t, paths)
	assert.Equal(t, []pathLeg{{LineID: "east", FromStationID: "A", ToStationID: "C"}}, paths[0])
}
