package vs30

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateDepths(t *testing.T) {
	extents := aggregateDepths([]sptMeasurementDepth{
		{BoreholeID: 1, Depth: 4.5},
		{BoreholeID: 1, Depth: 12.0},
		{BoreholeID: 1, Depth: 7.5},
		{BoreholeID: 2, Depth: 3.0},
	})

	require.Len(t, extents, 2)
	require.Equal(t, DepthExtent{Shallowest: 4.5, Deepest: 12.0}, extents[1])
	require.Equal(t, DepthExtent{Shallowest: 3.0, Deepest: 3.0}, extents[2])
}

func TestAggregateDepthsSingleMeasurement(t *testing.T) {
	extents := aggregateDepths([]sptMeasurementDepth{{BoreholeID: 7, Depth: 6.25}})

	extent, ok := extents[7]
	require.True(t, ok)
	require.Equal(t, extent.Shallowest, extent.Deepest)
	require.Equal(t, 6.25, extent.Deepest)
}

func TestAggregateDepthsEmpty(t *testing.T) {
	extents := aggregateDepths(nil)
	require.Empty(t, extents)
}
