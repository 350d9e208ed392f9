package models

import "time"

// Usage events published to Kafka
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // extraction, validation, download
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// CorrelationSelection carries the four display names a caller picked. All
// four resolve before any extraction query runs; hammer type only enters the
// SPT predicate but a bad name must still fail the whole request up front.
type CorrelationSelection struct {
	VsToVs30Correlation string `json:"vs_to_vs30_correlation"`
	CPTToVsCorrelation  string `json:"cpt_to_vs_correlation"`
	SPTToVsCorrelation  string `json:"spt_to_vs_correlation"`
	HammerType          string `json:"hammer_type"`
}

// Record type discriminators for the unified table
const (
	TypeCodeCPT  = 0
	TypeCodeSCPT = 1
	TypeCodeBH   = 2
)

type Vs30AvailabilityKind string

const (
	Vs30Available         Vs30AvailabilityKind = "available"
	Vs30InsufficientDepth Vs30AvailabilityKind = "insufficient_depth"
	Vs30ComputationFailed Vs30AvailabilityKind = "computation_failed"
)

// Vs30Availability is the three-way state rendered next to every record.
// Insufficient depth means the selected velocity-to-Vs30 correlation cannot
// be applied at all, which is distinct from a computation that ran and
// produced nothing.
type Vs30Availability struct {
	Kind   Vs30AvailabilityKind `json:"kind"`
	Value  *float64             `json:"value,omitempty"`
	Reason string               `json:"reason,omitempty"`
}

// UnifiedRecord is one row of the merged CPT+SPT table. Shared columns are
// plain values; columns that only exist for one record type are pointers and
// stay nil on rows of the other type.
type UnifiedRecord struct {
	NZGDID     int64  `json:"nzgd_id"`
	RecordName string `json:"record_name"`
	TypePrefix string `json:"type_prefix"`
	// CPT=0, SCPT=1, BH=2; nil for prefixes outside the enumeration
	TypeNumberCode *int64 `json:"type_number_code"`

	OriginalReference *string `json:"original_reference"`
	InvestigationDate *string `json:"investigation_date"`
	PublishedDate     *string `json:"published_date"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Region    string  `json:"region"`
	District  string  `json:"district"`
	Suburb    string  `json:"suburb"`
	City      string  `json:"city"`

	Vs30                      *float64 `json:"vs30"`
	Vs30StdDev                *float64 `json:"vs30_stddev"`
	ModelVs30Foster2019       *float64 `json:"model_vs30_foster_2019"`
	ModelVs30StdDevFoster2019 *float64 `json:"model_vs30_stddev_foster_2019"`
	ModelGWLWesterhoff2019    *float64 `json:"model_gwl_westerhoff_2019"`
	MeasuredGWL               *float64 `json:"measured_gwl"`

	ShallowestDepth *float64 `json:"shallowest_depth"`
	DeepestDepth    *float64 `json:"deepest_depth"`

	// CPT-only
	CPTTipNetAreaRatio *float64 `json:"cpt_tip_net_area_ratio"`
	// SPT-only
	SPTEfficiency       *float64 `json:"spt_efficiency"`
	SPTBoreholeDiameter *float64 `json:"spt_borehole_diameter"`

	Vs30LogResidual  *float64         `json:"vs30_log_residual"`
	GWLResidual      *float64         `json:"gwl_residual"`
	Vs30Availability Vs30Availability `json:"vs30_availability"`
}
