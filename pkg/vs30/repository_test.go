package vs30

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var fixtureSchema = []string{
	`CREATE TABLE cptvs30estimates (
		cpt_id INTEGER, nzgd_id INTEGER,
		cpt_to_vs_correlation_id INTEGER, vs_to_vs30_correlation_id INTEGER,
		vs30 REAL, vs30_stddev REAL)`,
	`CREATE TABLE sptvs30estimates (
		spt_id INTEGER,
		spt_to_vs_correlation_id INTEGER, vs_to_vs30_correlation_id INTEGER,
		hammer_type_id INTEGER, vs30 REAL, vs30_stddev REAL,
		spt_vs30_calculation_used_efficiency INTEGER,
		spt_vs30_calculation_used_soil_info INTEGER)`,
	`CREATE TABLE nzgdrecord (
		nzgd_id INTEGER PRIMARY KEY, type_prefix TEXT,
		original_reference TEXT, investigation_date TEXT, published_date TEXT,
		latitude REAL, longitude REAL,
		model_vs30_foster_2019 REAL, model_vs30_stddev_foster_2019 REAL,
		model_gwl_westerhoff_2019 REAL,
		region_id INTEGER, district_id INTEGER, suburb_id INTEGER, city_id INTEGER)`,
	`CREATE TABLE cptreport (
		cpt_id INTEGER PRIMARY KEY, nzgd_id INTEGER,
		tip_net_area_ratio REAL, measured_gwl REAL,
		deepest_depth REAL, shallowest_depth REAL)`,
	`CREATE TABLE sptreport (
		borehole_id INTEGER PRIMARY KEY,
		efficiency REAL, borehole_diameter REAL, measured_gwl REAL)`,
	`CREATE TABLE sptmeasurements (borehole_id INTEGER, depth REAL, n INTEGER)`,
	`CREATE TABLE sptsoiltypes (borehole_id INTEGER, top_depth REAL, soil_type TEXT)`,
	`CREATE TABLE region (region_id INTEGER PRIMARY KEY, name TEXT)`,
	`CREATE TABLE district (district_id INTEGER PRIMARY KEY, name TEXT)`,
	`CREATE TABLE suburb (suburb_id INTEGER PRIMARY KEY, name TEXT)`,
	`CREATE TABLE city (city_id INTEGER PRIMARY KEY, name TEXT)`,
}

// Two CPT records and one borehole, with estimate rows spread across every
// correlation combination so the staged predicates have something to narrow.
// nzgd_id 300 references a region that does not exist.
var fixtureRows = []string{
	`INSERT INTO region VALUES (1, 'Canterbury')`,
	`INSERT INTO district VALUES (1, 'Christchurch City')`,
	`INSERT INTO suburb VALUES (1, 'Riccarton')`,
	`INSERT INTO city VALUES (1, 'Christchurch')`,

	`INSERT INTO nzgdrecord VALUES (100, 'CPT', 'ref-100', '2016-03-01', '2016-04-01',
		-43.53, 172.63, 210, 0.3, 2.1, 1, 1, 1, 1)`,
	`INSERT INTO nzgdrecord VALUES (300, 'CPT', 'ref-300', '2017-05-01', '2017-06-01',
		-43.60, 172.70, 190, 0.3, 1.8, 99, 1, 1, 1)`,
	`INSERT INTO nzgdrecord VALUES (200, 'BH', 'ref-200', '2015-01-01', '2015-02-01',
		-43.55, 172.65, 230, 0.3, 2.5, 1, 1, 1, 1)`,

	`INSERT INTO cptreport VALUES (10, 100, 0.8, 1.5, 15.0, 0.5)`,
	`INSERT INTO cptreport VALUES (30, 300, 0.8, 1.2, 12.0, 0.5)`,
	`INSERT INTO sptreport VALUES (200, 0.72, 150, 2.0)`,

	// cpt_id 10: all four (vs_to_vs30, cpt_to_vs) combinations
	`INSERT INTO cptvs30estimates VALUES (10, 100, 1, 1, 250, 25)`,
	`INSERT INTO cptvs30estimates VALUES (10, 100, 1, 2, 260, 26)`,
	`INSERT INTO cptvs30estimates VALUES (10, 100, 2, 1, 270, 27)`,
	`INSERT INTO cptvs30estimates VALUES (10, 100, 2, 2, 280, 28)`,
	// cpt_id 30 only has the (1, 1) combination
	`INSERT INTO cptvs30estimates VALUES (30, 300, 1, 1, 240, 24)`,

	// borehole 200: two hammer types under the same correlation pair
	`INSERT INTO sptvs30estimates VALUES (200, 1, 1, 1, 310, 31, 1, 0)`,
	`INSERT INTO sptvs30estimates VALUES (200, 1, 1, 2, 320, 32, 0, 1)`,

	`INSERT INTO sptmeasurements VALUES (200, 1.5, 7)`,
	`INSERT INTO sptmeasurements VALUES (200, 11.0, 22)`,
}

func testRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "nzgd.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	for _, stmt := range fixtureSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, stmt := range fixtureRows {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return NewRepository(db)
}

func TestExtractCPTNarrowsPerStage(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	// Five estimate rows total; the first predicate keeps the three with
	// vs_to_vs30 id 1, the second keeps the two of those with cpt_to_vs
	// id 1, and the location join drops the record with the dangling
	// region reference.
	rows, err := repo.ExtractCPT(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(100), rows[0].NZGDID)
	require.Equal(t, 250.0, *rows[0].Vs30)
	require.Equal(t, "Canterbury", rows[0].RegionName)
	require.Equal(t, 15.0, *rows[0].DeepestDepth)
}

func TestExtractCPTSelectsPerCombination(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	rows, err := repo.ExtractCPT(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 280.0, *rows[0].Vs30)
}

func TestExtractCPTEmptyCombination(t *testing.T) {
	repo := testRepository(t)

	// No estimates exist under these ids; an empty table is a valid
	// result, not an error.
	rows, err := repo.ExtractCPT(context.Background(), 3, 1)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestExtractSPTNarrowsByHammerType(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	rows, err := repo.ExtractSPT(ctx, 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(200), rows[0].SPTID)
	require.Equal(t, 310.0, *rows[0].Vs30)
	require.Equal(t, 0.72, *rows[0].Efficiency)

	rows, err = repo.ExtractSPT(ctx, 1, 1, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 320.0, *rows[0].Vs30)
}

func TestExtractSPTEmptyCombination(t *testing.T) {
	repo := testRepository(t)

	rows, err := repo.ExtractSPT(context.Background(), 2, 1, 1)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestAllSPTMeasurementDepths(t *testing.T) {
	repo := testRepository(t)

	depths, err := repo.AllSPTMeasurementDepths(context.Background())
	require.NoError(t, err)
	require.Len(t, depths, 2)

	extents := aggregateDepths(depths)
	require.Equal(t, DepthExtent{Shallowest: 1.5, Deepest: 11.0}, extents[200])
}
