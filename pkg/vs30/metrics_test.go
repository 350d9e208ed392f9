package vs30

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ucgmsim/nzgd-map/pkg/common/models"
)

func TestLogResidual(t *testing.T) {
	residual := logResidual(float64Ptr(250), float64Ptr(200))
	require.NotNil(t, residual)
	require.InDelta(t, 0.22314, *residual, 1e-5)
}

func TestLogResidualNilPropagation(t *testing.T) {
	require.Nil(t, logResidual(nil, float64Ptr(200)))
	require.Nil(t, logResidual(float64Ptr(250), nil))
	require.Nil(t, logResidual(float64Ptr(0), float64Ptr(200)))
	require.Nil(t, logResidual(float64Ptr(-5), float64Ptr(200)))
	require.Nil(t, logResidual(float64Ptr(250), float64Ptr(0)))
}

func TestGWLResidual(t *testing.T) {
	residual := gwlResidual(float64Ptr(3.5), float64Ptr(2.0))
	require.NotNil(t, residual)
	require.InDelta(t, 1.5, *residual, 1e-12)

	require.Nil(t, gwlResidual(nil, float64Ptr(2.0)))
	require.Nil(t, gwlResidual(float64Ptr(3.5), nil))
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	require.Equal(t, 1.0, percentile(values, 0))
	require.Equal(t, 3.0, percentile(values, 50))
	require.Equal(t, 5.0, percentile(values, 100))
	require.InDelta(t, 2.5, percentile(values, 37.5), 1e-12)

	require.Equal(t, 7.0, percentile([]float64{7}, 99.9))
	require.True(t, math.IsNaN(percentile(nil, 50)))
}

func clipFixture() []models.UnifiedRecord {
	records := make([]models.UnifiedRecord, 0, 1002)
	records = append(records, models.UnifiedRecord{Vs30: float64Ptr(1)})
	for i := 0; i < 1000; i++ {
		records = append(records, models.UnifiedRecord{Vs30: float64Ptr(300)})
	}
	records = append(records, models.UnifiedRecord{Vs30: float64Ptr(5000)})
	return records
}

func TestClipVs30ClampsOutliers(t *testing.T) {
	records := clipFixture()
	clipVs30(records, 0.1, 99.9)

	first, last := records[0], records[len(records)-1]
	require.Greater(t, *first.Vs30, 1.0)
	require.Less(t, *last.Vs30, 5000.0)
	require.Equal(t, 300.0, *records[500].Vs30)
}

func TestClipVs30Deterministic(t *testing.T) {
	a, b := clipFixture(), clipFixture()
	clipVs30(a, 0.1, 99.9)
	clipVs30(b, 0.1, 99.9)

	for i := range a {
		require.Equal(t, *a[i].Vs30, *b[i].Vs30, "row %d", i)
	}
}

func TestClipVs30SkipsNil(t *testing.T) {
	records := []models.UnifiedRecord{
		{Vs30: nil},
		{Vs30: float64Ptr(300)},
	}
	clipVs30(records, 0.1, 99.9)
	require.Nil(t, records[0].Vs30)
}

func TestAvailabilityInsufficientDepth(t *testing.T) {
	state := availability(float64Ptr(250), float64Ptr(3), 5, "boore_2011")

	require.Equal(t, models.Vs30InsufficientDepth, state.Kind)
	require.Nil(t, state.Value)
	require.Contains(t, state.Reason, "boore_2011")
	require.Contains(t, state.Reason, "5 m")
}

func TestAvailabilityComputationFailed(t *testing.T) {
	state := availability(nil, float64Ptr(12), 5, "boore_2011")
	require.Equal(t, models.Vs30ComputationFailed, state.Kind)
	require.Nil(t, state.Value)

	state = availability(float64Ptr(0), float64Ptr(12), 5, "boore_2011")
	require.Equal(t, models.Vs30ComputationFailed, state.Kind)
}

func TestAvailabilityAvailable(t *testing.T) {
	state := availability(float64Ptr(250), float64Ptr(12), 5, "boore_2011")

	require.Equal(t, models.Vs30Available, state.Kind)
	require.NotNil(t, state.Value)
	require.Equal(t, 250.0, *state.Value)
	require.Empty(t, state.Reason)
}

func TestAvailabilityUnknownDepthTrustsEstimate(t *testing.T) {
	// No measured depth extent means the depth gate cannot fire.
	state := availability(float64Ptr(250), nil, 5, "boore_2011")
	require.Equal(t, models.Vs30Available, state.Kind)
}

func TestDeriveMetrics(t *testing.T) {
	records := []models.UnifiedRecord{
		{
			Vs30:                   float64Ptr(250),
			ModelVs30Foster2019:    float64Ptr(200),
			MeasuredGWL:            float64Ptr(3.5),
			ModelGWLWesterhoff2019: float64Ptr(2.0),
			DeepestDepth:           float64Ptr(12),
		},
		{
			Vs30:         float64Ptr(300),
			DeepestDepth: float64Ptr(3),
		},
	}

	deriveMetrics(records, 5, "boore_2011")

	require.InDelta(t, 0.22314, *records[0].Vs30LogResidual, 1e-5)
	require.InDelta(t, 1.5, *records[0].GWLResidual, 1e-12)
	require.Equal(t, models.Vs30Available, records[0].Vs30Availability.Kind)

	require.Nil(t, records[1].Vs30LogResidual)
	require.Equal(t, models.Vs30InsufficientDepth, records[1].Vs30Availability.Kind)
}
