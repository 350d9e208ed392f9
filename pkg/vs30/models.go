package vs30

// Scan targets for the extraction and per-record queries. These mirror the
// columns the queries project, not whole tables: the estimate tables are one
// row per (record, correlation combination) and only the columns needed
// downstream are ever carried through a join.

// cptExtractionRow is one CPT estimate joined to its record, report, and
// location metadata.
type cptExtractionRow struct {
	CPTID                     int64    `gorm:"column:cpt_id"`
	NZGDID                    int64    `gorm:"column:nzgd_id"`
	Vs30                      *float64 `gorm:"column:vs30"`
	Vs30StdDev                *float64 `gorm:"column:vs30_stddev"`
	TypePrefix                string   `gorm:"column:type_prefix"`
	OriginalReference         *string  `gorm:"column:original_reference"`
	InvestigationDate         *string  `gorm:"column:investigation_date"`
	PublishedDate             *string  `gorm:"column:published_date"`
	Latitude                  float64  `gorm:"column:latitude"`
	Longitude                 float64  `gorm:"column:longitude"`
	ModelVs30Foster2019       *float64 `gorm:"column:model_vs30_foster_2019"`
	ModelVs30StdDevFoster2019 *float64 `gorm:"column:model_vs30_stddev_foster_2019"`
	ModelGWLWesterhoff2019    *float64 `gorm:"column:model_gwl_westerhoff_2019"`
	TipNetAreaRatio           *float64 `gorm:"column:tip_net_area_ratio"`
	MeasuredGWL               *float64 `gorm:"column:measured_gwl"`
	DeepestDepth              *float64 `gorm:"column:deepest_depth"`
	ShallowestDepth           *float64 `gorm:"column:shallowest_depth"`
	RegionName                string   `gorm:"column:region_name"`
	DistrictName              string   `gorm:"column:district_name"`
	SuburbName                string   `gorm:"column:suburb_name"`
	CityName                  string   `gorm:"column:city_name"`
}

// sptExtractionRow is one SPT estimate joined to its record, report, and
// location metadata. Depth extent is not stored on sptreport; it comes from
// the depth aggregator.
type sptExtractionRow struct {
	SPTID                     int64    `gorm:"column:spt_id"`
	Vs30                      *float64 `gorm:"column:vs30"`
	Vs30StdDev                *float64 `gorm:"column:vs30_stddev"`
	TypePrefix                string   `gorm:"column:type_prefix"`
	OriginalReference         *string  `gorm:"column:original_reference"`
	InvestigationDate         *string  `gorm:"column:investigation_date"`
	PublishedDate             *string  `gorm:"column:published_date"`
	Latitude                  float64  `gorm:"column:latitude"`
	Longitude                 float64  `gorm:"column:longitude"`
	ModelVs30Foster2019       *float64 `gorm:"column:model_vs30_foster_2019"`
	ModelVs30StdDevFoster2019 *float64 `gorm:"column:model_vs30_stddev_foster_2019"`
	ModelGWLWesterhoff2019    *float64 `gorm:"column:model_gwl_westerhoff_2019"`
	MeasuredGWL               *float64 `gorm:"column:measured_gwl"`
	Efficiency                *float64 `gorm:"column:efficiency"`
	BoreholeDiameter          *float64 `gorm:"column:borehole_diameter"`
	RegionName                string   `gorm:"column:region_name"`
	DistrictName              string   `gorm:"column:district_name"`
	SuburbName                string   `gorm:"column:suburb_name"`
	CityName                  string   `gorm:"column:city_name"`
}

// sptMeasurementDepth is the minimal projection the depth aggregator needs.
type sptMeasurementDepth struct {
	BoreholeID int64   `gorm:"column:borehole_id"`
	Depth      float64 `gorm:"column:depth"`
}

// CPTMeasurement is one raw cone-push sample for a record detail page or
// download.
type CPTMeasurement struct {
	CPTID  int64   `gorm:"column:cpt_id" json:"cpt_id"`
	NZGDID int64   `gorm:"column:nzgd_id" json:"nzgd_id"`
	Depth  float64 `gorm:"column:depth" json:"depth"`
	QC     float64 `gorm:"column:qc" json:"qc"`
	FS     float64 `gorm:"column:fs" json:"fs"`
	U2     float64 `gorm:"column:u2" json:"u2"`
}

// SPTMeasurement is one blow-count sample.
type SPTMeasurement struct {
	BoreholeID int64   `gorm:"column:borehole_id" json:"borehole_id"`
	Depth      float64 `gorm:"column:depth" json:"depth"`
	N          int64   `gorm:"column:n" json:"n"`
}

// SPTSoilType is one logged soil layer for a borehole.
type SPTSoilType struct {
	BoreholeID int64   `gorm:"column:borehole_id" json:"borehole_id"`
	TopDepth   float64 `gorm:"column:top_depth" json:"top_depth"`
	SoilType   string  `gorm:"column:soil_type" json:"soil_type"`
}

// CPTVs30Estimate is one precomputed estimate for a single record, with the
// correlation names joined in. A record carries one estimate per correlation
// combination, so detail pages list several of these.
type CPTVs30Estimate struct {
	CPTID                int64    `gorm:"column:cpt_id" json:"cpt_id"`
	NZGDID               int64    `gorm:"column:nzgd_id" json:"nzgd_id"`
	Vs30                 *float64 `gorm:"column:vs30" json:"vs30"`
	Vs30StdDev           *float64 `gorm:"column:vs30_stddev" json:"vs30_stddev"`
	CPTToVsCorrelation   string   `gorm:"column:cpt_to_vs_correlation" json:"cpt_to_vs_correlation"`
	VsToVs30Correlation  string   `gorm:"column:vs_to_vs30_correlation" json:"vs_to_vs30_correlation"`
	TipNetAreaRatio      *float64 `gorm:"column:tip_net_area_ratio" json:"tip_net_area_ratio"`
	MeasuredGWL          *float64 `gorm:"column:measured_gwl" json:"measured_gwl"`
	DeepestDepth         *float64 `gorm:"column:deepest_depth" json:"deepest_depth"`
	ShallowestDepth      *float64 `gorm:"column:shallowest_depth" json:"shallowest_depth"`
	ModelVs30Foster2019  *float64 `gorm:"column:model_vs30_foster_2019" json:"model_vs30_foster_2019"`
	ModelGWLWesterhoff   *float64 `gorm:"column:model_gwl_westerhoff_2019" json:"model_gwl_westerhoff_2019"`
	TypePrefix           string   `gorm:"column:type_prefix" json:"type_prefix"`
	Region               string   `gorm:"column:region" json:"region"`
	District             string   `gorm:"column:district" json:"district"`
	Suburb               string   `gorm:"column:suburb" json:"suburb"`
	City                 string   `gorm:"column:city" json:"city"`
}

// SPTVs30Estimate mirrors CPTVs30Estimate for borehole records.
type SPTVs30Estimate struct {
	BoreholeID          int64    `gorm:"column:borehole_id" json:"borehole_id"`
	Vs30                *float64 `gorm:"column:vs30" json:"vs30"`
	Vs30StdDev          *float64 `gorm:"column:vs30_stddev" json:"vs30_stddev"`
	SPTToVsCorrelation  string   `gorm:"column:spt_to_vs_correlation" json:"spt_to_vs_correlation"`
	VsToVs30Correlation string   `gorm:"column:vs_to_vs30_correlation" json:"vs_to_vs30_correlation"`
	HammerType          string   `gorm:"column:hammer_type" json:"hammer_type"`
	Efficiency          *float64 `gorm:"column:efficiency" json:"efficiency"`
	BoreholeDiameter    *float64 `gorm:"column:borehole_diameter" json:"borehole_diameter"`
	MeasuredGWL         *float64 `gorm:"column:measured_gwl" json:"measured_gwl"`
	ModelVs30Foster2019 *float64 `gorm:"column:model_vs30_foster_2019" json:"model_vs30_foster_2019"`
	ModelGWLWesterhoff  *float64 `gorm:"column:model_gwl_westerhoff_2019" json:"model_gwl_westerhoff_2019"`
	UsedEfficiency      *int64   `gorm:"column:spt_vs30_calculation_used_efficiency" json:"used_efficiency"`
	UsedSoilInfo        *int64   `gorm:"column:spt_vs30_calculation_used_soil_info" json:"used_soil_info"`
	TypePrefix          string   `gorm:"column:type_prefix" json:"type_prefix"`
	Region              string   `gorm:"column:region" json:"region"`
	District            string   `gorm:"column:district" json:"district"`
	Suburb              string   `gorm:"column:suburb" json:"suburb"`
	City                string   `gorm:"column:city" json:"city"`
}
