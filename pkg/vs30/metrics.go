package vs30

import (
	"fmt"
	"math"
	"sort"

	"github.com/ucgmsim/nzgd-map/pkg/common/models"
)

// logResidual computes ln(vs30) - ln(model). The log domain makes this
// undefined for non-positive values; those propagate as nil, never as a
// panic or NaN.
func logResidual(vs30, model *float64) *float64 {
	if vs30 == nil || model == nil {
		return nil
	}
	if *vs30 <= 0 || *model <= 0 {
		return nil
	}
	residual := math.Log(*vs30) - math.Log(*model)
	if math.IsNaN(residual) || math.IsInf(residual, 0) {
		return nil
	}
	return &residual
}

// gwlResidual is the linear groundwater-level residual; nil propagates from
// either operand.
func gwlResidual(measured, model *float64) *float64 {
	if measured == nil || model == nil {
		return nil
	}
	residual := *measured - *model
	return &residual
}

// percentile computes the pth percentile (0-100) of sorted values using
// linear interpolation between closest ranks. The caller sorts; sorting here
// on every call would hide an O(n log n) in a loop.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower < 0 {
		lower = 0
	}
	if upper >= len(sorted) {
		upper = len(sorted) - 1
	}
	if lower == upper {
		return sorted[lower]
	}
	fraction := rank - float64(lower)
	return sorted[lower] + fraction*(sorted[upper]-sorted[lower])
}

// clipVs30 clamps display vs30 values to the [lowPct, highPct] percentile
// band of the current result set. This is outlier suppression for rendering,
// not data correction: clipped values stay valid rows. Percentiles come from
// a sorted copy, so repeated runs over the same table clip identically.
func clipVs30(records []models.UnifiedRecord, lowPct, highPct float64) {
	values := make([]float64, 0, len(records))
	for i := range records {
		if records[i].Vs30 != nil {
			values = append(values, *records[i].Vs30)
		}
	}
	if len(values) == 0 {
		return
	}
	sort.Float64s(values)

	low := percentile(values, lowPct)
	high := percentile(values, highPct)

	for i := range records {
		if records[i].Vs30 == nil {
			continue
		}
		if *records[i].Vs30 < low {
			clipped := low
			records[i].Vs30 = &clipped
		} else if *records[i].Vs30 > high {
			clipped := high
			records[i].Vs30 = &clipped
		}
	}
}

// availability classifies a record's Vs30 into the three-way state. A record
// too shallow for the selected correlation is explicitly non-computable even
// when an estimate row exists; a deep-enough record with a nil or zero vs30
// is a failed computation.
func availability(vs30, deepestDepth *float64, minDepth float64, correlationName string) models.Vs30Availability {
	if deepestDepth != nil && *deepestDepth < minDepth {
		return models.Vs30Availability{
			Kind: models.Vs30InsufficientDepth,
			Reason: fmt.Sprintf(
				"unable to estimate Vs30: the %s velocity to Vs30 correlation requires a depth of at least %.0f m",
				correlationName, minDepth),
		}
	}
	if vs30 == nil || *vs30 <= 0 {
		return models.Vs30Availability{
			Kind:   models.Vs30ComputationFailed,
			Reason: "Vs30 calculation failed even though the record depth is sufficient",
		}
	}
	value := *vs30
	return models.Vs30Availability{Kind: models.Vs30Available, Value: &value}
}

// deriveMetrics fills the residuals for every unified row, applies display
// clipping across the result set, then classifies availability. Residuals
// use the unclipped vs30; the availability state reports the clipped value
// the caller will render.
func deriveMetrics(records []models.UnifiedRecord, minDepth float64, correlationName string) {
	for i := range records {
		records[i].Vs30LogResidual = logResidual(records[i].Vs30, records[i].ModelVs30Foster2019)
		records[i].GWLResidual = gwlResidual(records[i].MeasuredGWL, records[i].ModelGWLWesterhoff2019)
	}
	clipVs30(records, 0.1, 99.9)
	for i := range records {
		records[i].Vs30Availability = availability(records[i].Vs30, records[i].DeepestDepth, minDepth, correlationName)
	}
}
