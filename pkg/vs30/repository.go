package vs30

import (
	"context"

	"gorm.io/gorm"
)

// Repository issues the read-only extraction queries against the NZGD
// store. Every query is a plain SELECT; the pipeline never writes.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// The CPT estimate table holds one row per (cpt, correlation combination),
// which makes it by far the largest table in the store. Filtering is staged
// through CTEs so each predicate narrows the previous stage's output rather
// than forcing one unordered scan: the velocity-to-Vs30 axis goes first
// because it has only two distinct values and halves the rows immediately.
// Only the columns needed downstream are projected; the vs30_id primary key
// never enters the join. All four location joins are inner joins, so rows
// with missing location references drop out of the result.
const cptExtractionQuery = `
WITH filtered_data AS (
    SELECT cpt_id, nzgd_id, cpt_to_vs_correlation_id, vs_to_vs30_correlation_id, vs30, vs30_stddev
    FROM cptvs30estimates
    WHERE vs_to_vs30_correlation_id = ?
), second_filter AS (
    SELECT cpt_id, nzgd_id, vs30, vs30_stddev
    FROM filtered_data
    WHERE cpt_to_vs_correlation_id = ?
)
SELECT
    sf.cpt_id, sf.nzgd_id, sf.vs30, sf.vs30_stddev,
    n.type_prefix, n.original_reference, n.investigation_date, n.published_date,
    n.latitude, n.longitude, n.model_vs30_foster_2019, n.model_vs30_stddev_foster_2019,
    n.model_gwl_westerhoff_2019, cr.tip_net_area_ratio, cr.measured_gwl,
    cr.deepest_depth, cr.shallowest_depth,
    r.name AS region_name,
    d.name AS district_name,
    sub.name AS suburb_name,
    cty.name AS city_name
FROM second_filter AS sf
JOIN nzgdrecord AS n
    ON sf.nzgd_id = n.nzgd_id
JOIN region AS r
    ON n.region_id = r.region_id
JOIN district AS d
    ON n.district_id = d.district_id
JOIN suburb AS sub
    ON n.suburb_id = sub.suburb_id
JOIN city AS cty
    ON n.city_id = cty.city_id
JOIN cptreport AS cr
    ON sf.cpt_id = cr.cpt_id`

// The SPT table is much smaller but gets the same staged treatment for
// consistency: velocity-to-Vs30, then SPT-to-velocity, then hammer type.
// The sptreport join is keyed by borehole identity, which for SPT records
// coincides with the record's NZGD id.
const sptExtractionQuery = `
WITH filtered_data AS (
    SELECT spt_id, spt_to_vs_correlation_id, hammer_type_id, vs30, vs30_stddev
    FROM sptvs30estimates
    WHERE vs_to_vs30_correlation_id = ?
), second_filter AS (
    SELECT spt_id, hammer_type_id, vs30, vs30_stddev
    FROM filtered_data
    WHERE spt_to_vs_correlation_id = ?
), third_filter AS (
    SELECT spt_id, vs30, vs30_stddev
    FROM second_filter
    WHERE hammer_type_id = ?
)
SELECT
    tf.spt_id, tf.vs30, tf.vs30_stddev,
    n.type_prefix, n.original_reference, n.investigation_date, n.published_date,
    n.latitude, n.longitude, n.model_vs30_foster_2019, n.model_vs30_stddev_foster_2019,
    n.model_gwl_westerhoff_2019, sr.measured_gwl, sr.efficiency, sr.borehole_diameter,
    r.name AS region_name,
    d.name AS district_name,
    sub.name AS suburb_name,
    cty.name AS city_name
FROM third_filter AS tf
JOIN nzgdrecord AS n
    ON tf.spt_id = n.nzgd_id
JOIN sptreport AS sr
    ON tf.spt_id = sr.borehole_id
JOIN region AS r
    ON n.region_id = r.region_id
JOIN district AS d
    ON n.district_id = d.district_id
JOIN suburb AS sub
    ON n.suburb_id = sub.suburb_id
JOIN city AS cty
    ON n.city_id = cty.city_id`

// ExtractCPT returns every CPT estimate under the two resolved correlation
// ids. An empty result is valid: the combination may simply have no
// precomputed rows.
func (r *Repository) ExtractCPT(ctx context.Context, vsToVs30ID, cptToVsID int64) ([]cptExtractionRow, error) {
	var rows []cptExtractionRow
	err := r.db.WithContext(ctx).Raw(cptExtractionQuery, vsToVs30ID, cptToVsID).Scan(&rows).Error
	return rows, err
}

// ExtractSPT returns every SPT estimate under the resolved correlation and
// hammer-type ids.
func (r *Repository) ExtractSPT(ctx context.Context, vsToVs30ID, sptToVsID, hammerTypeID int64) ([]sptExtractionRow, error) {
	var rows []sptExtractionRow
	err := r.db.WithContext(ctx).Raw(sptExtractionQuery, vsToVs30ID, sptToVsID, hammerTypeID).Scan(&rows).Error
	return rows, err
}

// AllSPTMeasurementDepths feeds the depth aggregator. Depth extent is not
// stored on the SPT estimate table, so it is derived from the raw rows.
func (r *Repository) AllSPTMeasurementDepths(ctx context.Context) ([]sptMeasurementDepth, error) {
	var rows []sptMeasurementDepth
	err := r.db.WithContext(ctx).Raw("SELECT borehole_id, depth FROM sptmeasurements").Scan(&rows).Error
	return rows, err
}

// CPTMeasurementsForRecord returns raw cone-push samples for one NZGD id.
// Several cpt_ids can come back: some NZGD records contain multiple CPT
// investigations.
func (r *Repository) CPTMeasurementsForRecord(ctx context.Context, nzgdID int64) ([]CPTMeasurement, error) {
	var rows []CPTMeasurement
	err := r.db.WithContext(ctx).Raw(`
SELECT cptmeasurements.depth, cptmeasurements.qc, cptmeasurements.fs, cptmeasurements.u2,
       cptmeasurements.cpt_id, cptreport.nzgd_id
FROM cptmeasurements
JOIN cptreport ON cptmeasurements.cpt_id = cptreport.cpt_id
WHERE cptreport.nzgd_id = ?
ORDER BY cptmeasurements.depth`, nzgdID).Scan(&rows).Error
	return rows, err
}

func (r *Repository) SPTMeasurementsForRecord(ctx context.Context, nzgdID int64) ([]SPTMeasurement, error) {
	var rows []SPTMeasurement
	err := r.db.WithContext(ctx).Raw(`
SELECT borehole_id, depth, n
FROM sptmeasurements
WHERE borehole_id = ?
ORDER BY depth`, nzgdID).Scan(&rows).Error
	return rows, err
}

func (r *Repository) SPTSoilTypesForRecord(ctx context.Context, nzgdID int64) ([]SPTSoilType, error) {
	var rows []SPTSoilType
	err := r.db.WithContext(ctx).Raw(`
SELECT borehole_id, top_depth, soil_type
FROM sptsoiltypes
WHERE borehole_id = ?
ORDER BY top_depth`, nzgdID).Scan(&rows).Error
	return rows, err
}

// CPTVs30sForRecord returns every precomputed estimate for one record across
// all correlation combinations, with the correlation names joined in for
// display.
func (r *Repository) CPTVs30sForRecord(ctx context.Context, nzgdID int64) ([]CPTVs30Estimate, error) {
	var rows []CPTVs30Estimate
	err := r.db.WithContext(ctx).Raw(`
SELECT
    cptvs30estimates.cpt_id,
    cptvs30estimates.nzgd_id,
    cptvs30estimates.vs30,
    cptvs30estimates.vs30_stddev,
    cptreport.tip_net_area_ratio,
    cptreport.measured_gwl,
    cptreport.deepest_depth,
    cptreport.shallowest_depth,
    cpttovscorrelation.name AS cpt_to_vs_correlation,
    vstovs30correlation.name AS vs_to_vs30_correlation,
    nzgdrecord.type_prefix,
    nzgdrecord.model_vs30_foster_2019,
    nzgdrecord.model_gwl_westerhoff_2019,
    region.name AS region,
    district.name AS district,
    suburb.name AS suburb,
    city.name AS city
FROM cptvs30estimates
JOIN cpttovscorrelation
    ON cptvs30estimates.cpt_to_vs_correlation_id = cpttovscorrelation.cpt_to_vs_correlation_id
JOIN vstovs30correlation
    ON cptvs30estimates.vs_to_vs30_correlation_id = vstovs30correlation.vs_to_vs30_correlation_id
JOIN cptreport
    ON cptvs30estimates.cpt_id = cptreport.cpt_id
JOIN nzgdrecord
    ON cptvs30estimates.nzgd_id = nzgdrecord.nzgd_id
JOIN region
    ON nzgdrecord.region_id = region.region_id
JOIN district
    ON nzgdrecord.district_id = district.district_id
JOIN suburb
    ON nzgdrecord.suburb_id = suburb.suburb_id
JOIN city
    ON nzgdrecord.city_id = city.city_id
WHERE cptvs30estimates.nzgd_id = ?`, nzgdID).Scan(&rows).Error
	return rows, err
}

func (r *Repository) SPTVs30sForRecord(ctx context.Context, nzgdID int64) ([]SPTVs30Estimate, error) {
	var rows []SPTVs30Estimate
	err := r.db.WithContext(ctx).Raw(`
SELECT
    sptvs30estimates.spt_id AS borehole_id,
    sptvs30estimates.vs30,
    sptvs30estimates.vs30_stddev,
    sptvs30estimates.spt_vs30_calculation_used_efficiency,
    sptvs30estimates.spt_vs30_calculation_used_soil_info,
    spttovscorrelation.name AS spt_to_vs_correlation,
    vstovs30correlation.name AS vs_to_vs30_correlation,
    spttovs30hammertype.name AS hammer_type,
    sptreport.efficiency,
    sptreport.borehole_diameter,
    sptreport.measured_gwl,
    nzgdrecord.type_prefix,
    nzgdrecord.model_vs30_foster_2019,
    nzgdrecord.model_gwl_westerhoff_2019,
    region.name AS region,
    district.name AS district,
    suburb.name AS suburb,
    city.name AS city
FROM sptvs30estimates
JOIN spttovscorrelation
    ON sptvs30estimates.spt_to_vs_correlation_id = spttovscorrelation.correlation_id
JOIN vstovs30correlation
    ON sptvs30estimates.vs_to_vs30_correlation_id = vstovs30correlation.vs_to_vs30_correlation_id
JOIN spttovs30hammertype
    ON sptvs30estimates.hammer_type_id = spttovs30hammertype.hammer_id
JOIN sptreport
    ON sptvs30estimates.spt_id = sptreport.borehole_id
JOIN nzgdrecord
    ON sptvs30estimates.spt_id = nzgdrecord.nzgd_id
JOIN region
    ON nzgdrecord.region_id = region.region_id
JOIN district
    ON nzgdrecord.district_id = district.district_id
JOIN suburb
    ON nzgdrecord.suburb_id = suburb.suburb_id
JOIN city
    ON nzgdrecord.city_id = city.city_id
WHERE sptvs30estimates.spt_id = ?`, nzgdID).Scan(&rows).Error
	return rows, err
}
