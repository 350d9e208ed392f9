package vs30

// DepthExtent is the shallowest and deepest measured depth of one borehole.
type DepthExtent struct {
	Shallowest float64
	Deepest    float64
}

// aggregateDepths reduces raw SPT measurement rows to a per-borehole depth
// extent. A borehole with a single measurement yields shallowest == deepest;
// boreholes absent from the result simply have no measurements and keep a
// nil extent after the left join in the unifier.
func aggregateDepths(measurements []sptMeasurementDepth) map[int64]DepthExtent {
	extents := make(map[int64]DepthExtent)
	for _, m := range measurements {
		extent, seen := extents[m.BoreholeID]
		if !seen {
			extents[m.BoreholeID] = DepthExtent{Shallowest: m.Depth, Deepest: m.Depth}
			continue
		}
		if m.Depth < extent.Shallowest {
			extent.Shallowest = m.Depth
		}
		if m.Depth > extent.Deepest {
			extent.Deepest = m.Depth
		}
		extents[m.BoreholeID] = extent
	}
	return extents
}
