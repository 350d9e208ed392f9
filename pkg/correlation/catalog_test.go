package correlation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ucgmsim/nzgd-map/pkg/common/models"
)

func testCatalog() *Catalog {
	return NewCatalog(
		map[string]int64{"boore_2004": 1, "boore_2011": 2},
		map[string]int64{"andrus_2007_pleistocene": 1, "andrus_2007_holocene": 2, "mcgann_2015": 3},
		map[string]int64{"brandenberg_2010": 1, "kwak_2015": 2},
		map[string]int64{"Auto": 1, "Safety": 2, "Standard": 3},
	)
}

func TestResolveSelection(t *testing.T) {
	cat := testCatalog()

	resolved, err := cat.ResolveSelection(models.CorrelationSelection{
		VsToVs30Correlation: "boore_2011",
		CPTToVsCorrelation:  "mcgann_2015",
		SPTToVsCorrelation:  "brandenberg_2010",
		HammerType:          "Auto",
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), resolved.VsToVs30ID)
	require.Equal(t, int64(3), resolved.CPTToVsID)
	require.Equal(t, int64(1), resolved.SPTToVsID)
	require.Equal(t, int64(1), resolved.HammerTypeID)
	require.Equal(t, "boore_2011", resolved.Names.VsToVs30Correlation)
}

func TestResolveSelectionRejectsUnknownName(t *testing.T) {
	cat := testCatalog()

	_, err := cat.ResolveSelection(models.CorrelationSelection{
		VsToVs30Correlation: "boore_2011",
		CPTToVsCorrelation:  "mcgann_2015",
		SPTToVsCorrelation:  "brandenberg_2010",
		HammerType:          "Hydraulic",
	})
	require.Error(t, err)

	var unknown *UnknownCorrelationError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, AxisHammerType, unknown.Axis)
	require.Equal(t, "Hydraulic", unknown.Name)
}

func TestResolveSelectionNoFallback(t *testing.T) {
	// A misspelled name must abort, never resolve to some default id.
	cat := testCatalog()

	_, err := cat.ResolveVsToVs30("boore_2012")
	var unknown *UnknownCorrelationError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, AxisVsToVs30, unknown.Axis)
}

func TestResolveIsCaseSensitive(t *testing.T) {
	cat := testCatalog()

	_, err := cat.ResolveHammerType("auto")
	require.Error(t, err)

	_, err = cat.ResolveHammerType("Auto")
	require.NoError(t, err)
}

func TestMinimumDepth(t *testing.T) {
	cat := testCatalog()

	require.Equal(t, 5.0, cat.MinimumDepth("boore_2011"))
	require.Equal(t, 10.0, cat.MinimumDepth("boore_2004"))

	// Unconfigured correlations fall back to the most conservative threshold.
	require.Equal(t, 10.0, cat.MinimumDepth("future_correlation"))
}

func TestNamesAreSorted(t *testing.T) {
	cat := testCatalog()

	require.Equal(t, []string{"andrus_2007_holocene", "andrus_2007_pleistocene", "mcgann_2015"}, cat.CPTToVsNames())
	require.Equal(t, []string{"Auto", "Safety", "Standard"}, cat.HammerTypeNames())
}
