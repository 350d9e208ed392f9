package vs30

import (
	"fmt"

	"github.com/ucgmsim/nzgd-map/pkg/common/models"
	"github.com/ucgmsim/nzgd-map/pkg/filterexpr"
)

// RecordName builds the stable external identifier used in URLs and
// downloads. It must stay reproducible: the detail routes parse it back.
func RecordName(typePrefix string, nzgdID int64) string {
	return fmt.Sprintf("%s_%d", typePrefix, nzgdID)
}

// TypeNumberCode maps a record's type prefix onto the fixed discriminator
// enumeration. Prefixes outside the enumeration get nil rather than a
// made-up code.
func TypeNumberCode(typePrefix string) *int64 {
	var code int64
	switch typePrefix {
	case "CPT":
		code = models.TypeCodeCPT
	case "SCPT":
		code = models.TypeCodeSCPT
	case "BH":
		code = models.TypeCodeBH
	default:
		return nil
	}
	return &code
}

// unify concatenates the CPT and depth-augmented SPT extraction results into
// the shared unified schema. Type-specific columns keep a type prefix and
// stay nil on rows of the other type.
func unify(cptRows []cptExtractionRow, sptRows []sptExtractionRow, depths map[int64]DepthExtent) []models.UnifiedRecord {
	records := make([]models.UnifiedRecord, 0, len(cptRows)+len(sptRows))

	for _, row := range cptRows {
		records = append(records, models.UnifiedRecord{
			NZGDID:                    row.NZGDID,
			RecordName:                RecordName(row.TypePrefix, row.NZGDID),
			TypePrefix:                row.TypePrefix,
			TypeNumberCode:            TypeNumberCode(row.TypePrefix),
			OriginalReference:         row.OriginalReference,
			InvestigationDate:         row.InvestigationDate,
			PublishedDate:             row.PublishedDate,
			Latitude:                  row.Latitude,
			Longitude:                 row.Longitude,
			Region:                    row.RegionName,
			District:                  row.DistrictName,
			Suburb:                    row.SuburbName,
			City:                      row.CityName,
			Vs30:                      row.Vs30,
			Vs30StdDev:                row.Vs30StdDev,
			ModelVs30Foster2019:       row.ModelVs30Foster2019,
			ModelVs30StdDevFoster2019: row.ModelVs30StdDevFoster2019,
			ModelGWLWesterhoff2019:    row.ModelGWLWesterhoff2019,
			MeasuredGWL:               row.MeasuredGWL,
			ShallowestDepth:           row.ShallowestDepth,
			DeepestDepth:              row.DeepestDepth,
			CPTTipNetAreaRatio:        row.TipNetAreaRatio,
		})
	}

	for _, row := range sptRows {
		record := models.UnifiedRecord{
			NZGDID:                    row.SPTID,
			RecordName:                RecordName(row.TypePrefix, row.SPTID),
			TypePrefix:                row.TypePrefix,
			TypeNumberCode:            TypeNumberCode(row.TypePrefix),
			OriginalReference:         row.OriginalReference,
			InvestigationDate:         row.InvestigationDate,
			PublishedDate:             row.PublishedDate,
			Latitude:                  row.Latitude,
			Longitude:                 row.Longitude,
			Region:                    row.RegionName,
			District:                  row.DistrictName,
			Suburb:                    row.SuburbName,
			City:                      row.CityName,
			Vs30:                      row.Vs30,
			Vs30StdDev:                row.Vs30StdDev,
			ModelVs30Foster2019:       row.ModelVs30Foster2019,
			ModelVs30StdDevFoster2019: row.ModelVs30StdDevFoster2019,
			ModelGWLWesterhoff2019:    row.ModelGWLWesterhoff2019,
			MeasuredGWL:               row.MeasuredGWL,
			SPTEfficiency:             row.Efficiency,
			SPTBoreholeDiameter:       row.BoreholeDiameter,
		}
		// Left join onto the aggregated depths: boreholes with zero
		// measurements keep a nil extent rather than being dropped.
		if extent, ok := depths[row.SPTID]; ok {
			shallowest, deepest := extent.Shallowest, extent.Deepest
			record.ShallowestDepth = &shallowest
			record.DeepestDepth = &deepest
		}
		records = append(records, record)
	}

	return records
}

// unifiedColumn declares one queryable column of the unified table: its
// name, its filter type, and how to read it off a record. The filter
// validator's schema and the live row accessor both come from this table,
// so the two cannot drift.
type unifiedColumn struct {
	name  string
	typ   filterexpr.Type
	value func(*models.UnifiedRecord) filterexpr.Value
}

func numberColumn(v float64) filterexpr.Value { return filterexpr.NumberValue(v) }

var unifiedColumns = []unifiedColumn{
	{"nzgd_id", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return numberColumn(float64(r.NZGDID))
	}},
	{"record_name", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringValue(r.RecordName)
	}},
	{"type_prefix", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringValue(r.TypePrefix)
	}},
	{"type_number_code", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		if r.TypeNumberCode == nil {
			return filterexpr.NullValue(filterexpr.TypeNumber)
		}
		return numberColumn(float64(*r.TypeNumberCode))
	}},
	{"original_reference", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringPtr(r.OriginalReference)
	}},
	{"investigation_date", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringPtr(r.InvestigationDate)
	}},
	{"published_date", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringPtr(r.PublishedDate)
	}},
	{"latitude", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return numberColumn(r.Latitude)
	}},
	{"longitude", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return numberColumn(r.Longitude)
	}},
	{"region", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringValue(r.Region)
	}},
	{"district", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringValue(r.District)
	}},
	{"suburb", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringValue(r.Suburb)
	}},
	{"city", filterexpr.TypeString, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.StringValue(r.City)
	}},
	{"vs30", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.Vs30)
	}},
	{"vs30_stddev", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.Vs30StdDev)
	}},
	{"model_vs30_foster_2019", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.ModelVs30Foster2019)
	}},
	{"model_vs30_stddev_foster_2019", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.ModelVs30StdDevFoster2019)
	}},
	{"model_gwl_westerhoff_2019", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.ModelGWLWesterhoff2019)
	}},
	{"measured_gwl", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.MeasuredGWL)
	}},
	{"shallowest_depth", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.ShallowestDepth)
	}},
	{"deepest_depth", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.DeepestDepth)
	}},
	{"cpt_tip_net_area_ratio", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.CPTTipNetAreaRatio)
	}},
	{"spt_efficiency", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.SPTEfficiency)
	}},
	{"spt_borehole_diameter", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.SPTBoreholeDiameter)
	}},
	{"vs30_log_residual", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.Vs30LogResidual)
	}},
	{"gwl_residual", filterexpr.TypeNumber, func(r *models.UnifiedRecord) filterexpr.Value {
		return filterexpr.NumberPtr(r.GWLResidual)
	}},
}

// FilterSchema exposes the unified table's queryable columns to the filter
// validator.
func FilterSchema() filterexpr.Schema {
	schema := make(filterexpr.Schema, len(unifiedColumns))
	for _, col := range unifiedColumns {
		schema[col.name] = col.typ
	}
	return schema
}

func rowAccessor(record *models.UnifiedRecord) filterexpr.Row {
	return func(column string) filterexpr.Value {
		for _, col := range unifiedColumns {
			if col.name == column {
				return col.value(record)
			}
		}
		// Compile rejects unknown columns, so this is unreachable for
		// validated filters.
		return filterexpr.NullValue(filterexpr.TypeString)
	}
}
