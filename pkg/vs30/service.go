package vs30

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ucgmsim/nzgd-map/pkg/common/kafka"
	"github.com/ucgmsim/nzgd-map/pkg/common/logger"
	"github.com/ucgmsim/nzgd-map/pkg/common/models"
	"github.com/ucgmsim/nzgd-map/pkg/correlation"
	"github.com/ucgmsim/nzgd-map/pkg/filterexpr"
	"github.com/ucgmsim/nzgd-map/pkg/observability/metrics"
)

type Service struct {
	repo     *Repository
	catalog  *correlation.Catalog
	cache    *redis.Client
	cacheTTL time.Duration
	producer *kafka.Producer

	sourceFilesBaseURL string
}

type Option func(*Service)

// WithCache enables the Redis extraction-result cache. The unified table
// only changes when a new snapshot is deployed, so a keyed-by-selection
// cache turns repeat map loads into a single GET.
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = client
		s.cacheTTL = ttl
	}
}

func WithProducer(producer *kafka.Producer) Option {
	return func(s *Service) {
		s.producer = producer
	}
}

func WithSourceFilesBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.sourceFilesBaseURL = baseURL
	}
}

func NewService(repo *Repository, catalog *correlation.Catalog, opts ...Option) *Service {
	svc := &Service{repo: repo, catalog: catalog}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// ExtractResult is the analysis-ready unified table for one correlation
// selection, plus the counts the rendering layer reports.
type ExtractResult struct {
	Selection models.CorrelationSelection `json:"selection"`
	Records   []models.UnifiedRecord      `json:"records"`
	// Row counts before the ad-hoc filter; CPT/SPT split makes silent
	// inner-join exclusions observable.
	CPTCount   int `json:"cpt_count"`
	SPTCount   int `json:"spt_count"`
	TotalCount int `json:"total_count"`
}

// Extract runs the full pipeline: resolve the selection, run both staged
// extractions, aggregate SPT depths, unify, derive metrics, and optionally
// apply a validated ad-hoc filter. An empty table is a valid outcome.
func (s *Service) Extract(ctx context.Context, sel models.CorrelationSelection, filter string) (ExtractResult, error) {
	resolved, err := s.catalog.ResolveSelection(sel)
	if err != nil {
		metrics.IncExtractionFailed()
		return ExtractResult{}, err
	}

	result, err := s.extractResolved(ctx, resolved)
	if err != nil {
		metrics.IncExtractionFailed()
		return ExtractResult{}, err
	}

	if strings.TrimSpace(filter) != "" {
		compiled, verr := filterexpr.Compile(filter, FilterSchema())
		if verr != nil {
			return ExtractResult{}, verr
		}
		result.Records = applyFilter(compiled, result.Records)
	}

	metrics.IncExtractions()
	s.publishExtractionEvent(ctx, sel, result)
	return result, nil
}

func (s *Service) extractResolved(ctx context.Context, resolved correlation.ResolvedSelection) (ExtractResult, error) {
	if cached, ok := s.cacheLookup(ctx, resolved); ok {
		return cached, nil
	}

	start := time.Now()
	cptRows, err := s.repo.ExtractCPT(ctx, resolved.VsToVs30ID, resolved.CPTToVsID)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("cpt extraction: %w", err)
	}
	sptRows, err := s.repo.ExtractSPT(ctx, resolved.VsToVs30ID, resolved.SPTToVsID, resolved.HammerTypeID)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("spt extraction: %w", err)
	}
	measurementDepths, err := s.repo.AllSPTMeasurementDepths(ctx)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("spt depth aggregation: %w", err)
	}

	records := unify(cptRows, sptRows, aggregateDepths(measurementDepths))
	deriveMetrics(records, s.catalog.MinimumDepth(resolved.Names.VsToVs30Correlation), resolved.Names.VsToVs30Correlation)

	logger.Log.WithFields(map[string]interface{}{
		"vs_to_vs30":  resolved.Names.VsToVs30Correlation,
		"cpt_to_vs":   resolved.Names.CPTToVsCorrelation,
		"spt_to_vs":   resolved.Names.SPTToVsCorrelation,
		"hammer_type": resolved.Names.HammerType,
		"cpt_rows":    len(cptRows),
		"spt_rows":    len(sptRows),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Extraction completed")

	result := ExtractResult{
		Selection:  resolved.Names,
		Records:    records,
		CPTCount:   len(cptRows),
		SPTCount:   len(sptRows),
		TotalCount: len(records),
	}
	s.cacheStore(ctx, resolved, result)
	return result, nil
}

func applyFilter(filter *filterexpr.Filter, records []models.UnifiedRecord) []models.UnifiedRecord {
	filtered := make([]models.UnifiedRecord, 0, len(records))
	for i := range records {
		matched, err := filter.Match(rowAccessor(&records[i]))
		if err != nil {
			// The expression already type-checked; an evaluation
			// error means an internal bug, not bad user input.
			logger.Log.WithError(err).Warn("Filter evaluation error, excluding row")
			continue
		}
		if matched {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

// Validate checks an ad-hoc filter expression against the unified schema
// without touching data.
func (s *Service) Validate(expression string) filterexpr.ValidationResult {
	metrics.IncValidations()
	return filterexpr.Validate(expression, FilterSchema())
}

// CorrelationOptions lists the selectable names per axis for UI dropdowns.
func (s *Service) CorrelationOptions() map[string][]string {
	return map[string][]string{
		correlation.AxisVsToVs30:   s.catalog.VsToVs30Names(),
		correlation.AxisCPTToVs:    s.catalog.CPTToVsNames(),
		correlation.AxisSPTToVs:    s.catalog.SPTToVsNames(),
		correlation.AxisHammerType: s.catalog.HammerTypeNames(),
	}
}

func (s *Service) cacheKey(resolved correlation.ResolvedSelection) string {
	return fmt.Sprintf("nzgd-map:extract:%d:%d:%d:%d",
		resolved.VsToVs30ID, resolved.CPTToVsID, resolved.SPTToVsID, resolved.HammerTypeID)
}

func (s *Service) cacheLookup(ctx context.Context, resolved correlation.ResolvedSelection) (ExtractResult, bool) {
	if s.cache == nil {
		return ExtractResult{}, false
	}
	payload, err := s.cache.Get(ctx, s.cacheKey(resolved)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("Cache lookup failed")
		}
		return ExtractResult{}, false
	}
	var result ExtractResult
	if err := json.Unmarshal(payload, &result); err != nil {
		logger.Log.WithError(err).Warn("Discarding undecodable cache entry")
		return ExtractResult{}, false
	}
	metrics.IncCacheHits()
	return result, true
}

func (s *Service) cacheStore(ctx context.Context, resolved correlation.ResolvedSelection, result ExtractResult) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(resolved), payload, s.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Warn("Cache store failed")
	}
}

func (s *Service) publishExtractionEvent(ctx context.Context, sel models.CorrelationSelection, result ExtractResult) {
	if s.producer == nil {
		return
	}
	_ = s.producer.PublishEvent(ctx, "vs30.extraction.completed", map[string]interface{}{
		"vs_to_vs30_correlation": sel.VsToVs30Correlation,
		"cpt_to_vs_correlation":  sel.CPTToVsCorrelation,
		"spt_to_vs_correlation":  sel.SPTToVsCorrelation,
		"hammer_type":            sel.HammerType,
		"cpt_count":              result.CPTCount,
		"spt_count":              result.SPTCount,
		"record_count":           len(result.Records),
	})
}

// ParseRecordName splits an external record identifier of the form
// {type_prefix}_{nzgd_id} back into its parts.
func ParseRecordName(recordName string) (string, int64, error) {
	idx := strings.LastIndex(recordName, "_")
	if idx <= 0 || idx == len(recordName)-1 {
		return "", 0, fmt.Errorf("malformed record name %q", recordName)
	}
	nzgdID, err := strconv.ParseInt(recordName[idx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed record name %q: %w", recordName, err)
	}
	return recordName[:idx], nzgdID, nil
}

var typePrefixFolders = map[string]string{
	"CPT":  "cpt",
	"SCPT": "scpt",
	"BH":   "borehole",
}

// SourceFileURL builds the link to the record's raw source files, mirroring
// the layout of the NZGD file mirror.
func (s *Service) SourceFileURL(typePrefix, region, district, city, suburb, recordName string) string {
	if s.sourceFilesBaseURL == "" {
		return ""
	}
	folder, ok := typePrefixFolders[typePrefix]
	if !ok {
		folder = strings.ToLower(typePrefix)
	}
	return s.sourceFilesBaseURL + strings.Join([]string{folder, region, district, city, suburb, recordName}, "/")
}

// CPTRecordDetail is everything the CPT detail page needs for one record.
type CPTRecordDetail struct {
	RecordName       string            `json:"record_name"`
	Measurements     []CPTMeasurement  `json:"measurements"`
	Estimates        []CPTVs30Estimate `json:"estimates"`
	DepthExplanation string            `json:"depth_explanation"`
	ShowVs30Values   bool              `json:"show_vs30_values"`
	SourceFilesURL   string            `json:"source_files_url"`
}

// SPTRecordDetail mirrors CPTRecordDetail for borehole records.
type SPTRecordDetail struct {
	RecordName     string            `json:"record_name"`
	Measurements   []SPTMeasurement  `json:"measurements"`
	SoilTypes      []SPTSoilType     `json:"soil_types"`
	Estimates      []SPTVs30Estimate `json:"estimates"`
	SourceFilesURL string            `json:"source_files_url"`
}

// CPTRecord assembles the detail view for one CPT/SCPT record: raw
// measurements, every precomputed estimate, and the depth-applicability
// explanation. Estimates under correlations the record is too shallow for
// are removed rather than shown with misleading values.
func (s *Service) CPTRecord(ctx context.Context, recordName string) (CPTRecordDetail, error) {
	_, nzgdID, err := ParseRecordName(recordName)
	if err != nil {
		return CPTRecordDetail{}, err
	}

	measurements, err := s.repo.CPTMeasurementsForRecord(ctx, nzgdID)
	if err != nil {
		return CPTRecordDetail{}, fmt.Errorf("cpt measurements: %w", err)
	}
	estimates, err := s.repo.CPTVs30sForRecord(ctx, nzgdID)
	if err != nil {
		return CPTRecordDetail{}, fmt.Errorf("cpt estimates: %w", err)
	}
	if len(estimates) == 0 {
		return CPTRecordDetail{}, fmt.Errorf("no estimates for record %s", recordName)
	}

	detail := CPTRecordDetail{
		RecordName:   recordName,
		Measurements: measurements,
		SourceFilesURL: s.SourceFileURL(
			estimates[0].TypePrefix,
			estimates[0].Region, estimates[0].District,
			estimates[0].City, estimates[0].Suburb,
			recordName),
	}

	var deepest float64
	if estimates[0].DeepestDepth != nil {
		deepest = *estimates[0].DeepestDepth
	}
	detail.DepthExplanation, detail.ShowVs30Values = s.depthExplanation(recordName, deepest)

	if detail.ShowVs30Values {
		for _, estimate := range estimates {
			if deepest >= s.catalog.MinimumDepth(estimate.VsToVs30Correlation) {
				detail.Estimates = append(detail.Estimates, estimate)
			}
		}
	}

	return detail, nil
}

func (s *Service) SPTRecord(ctx context.Context, recordName string) (SPTRecordDetail, error) {
	_, nzgdID, err := ParseRecordName(recordName)
	if err != nil {
		return SPTRecordDetail{}, err
	}

	measurements, err := s.repo.SPTMeasurementsForRecord(ctx, nzgdID)
	if err != nil {
		return SPTRecordDetail{}, fmt.Errorf("spt measurements: %w", err)
	}
	soilTypes, err := s.repo.SPTSoilTypesForRecord(ctx, nzgdID)
	if err != nil {
		return SPTRecordDetail{}, fmt.Errorf("spt soil types: %w", err)
	}
	estimates, err := s.repo.SPTVs30sForRecord(ctx, nzgdID)
	if err != nil {
		return SPTRecordDetail{}, fmt.Errorf("spt estimates: %w", err)
	}
	if len(estimates) == 0 {
		return SPTRecordDetail{}, fmt.Errorf("no estimates for record %s", recordName)
	}

	return SPTRecordDetail{
		RecordName:   recordName,
		Measurements: measurements,
		SoilTypes:    soilTypes,
		Estimates:    estimates,
		SourceFilesURL: s.SourceFileURL(
			estimates[0].TypePrefix,
			estimates[0].Region, estimates[0].District,
			estimates[0].City, estimates[0].Suburb,
			recordName),
	}, nil
}

// depthExplanation produces the user-facing text for which velocity-to-Vs30
// correlations the record's deepest depth permits, over the three depth
// bands the thresholds split the records into.
func (s *Service) depthExplanation(recordName string, deepest float64) (string, bool) {
	boore2011 := s.catalog.MinimumDepth("boore_2011")
	boore2004 := s.catalog.MinimumDepth("boore_2004")

	switch {
	case deepest < boore2011:
		return fmt.Sprintf(
			"Unable to estimate a Vs30 value from %s as it has a maximum depth of %.2f m, "+
				"while depths of at least %.0f m and %.0f m are required for the Boore et al. (2004) "+
				"and Boore et al. (2011) Vs to Vs30 correlations, respectively.",
			recordName, deepest, boore2004, boore2011), false
	case deepest < boore2004:
		return fmt.Sprintf(
			"%s has a maximum depth of %.2f m so only the Boore et al. (2011) Vs to Vs30 "+
				"correlation can be used as it requires a depth of at least %.0f m, while the "+
				"Boore et al. (2004) correlation requires a depth of at least %.0f m.",
			recordName, deepest, boore2011, boore2004), true
	default:
		return fmt.Sprintf(
			"%s has a maximum depth of %.2f m so both the Boore et al. (2004) and "+
				"Boore et al. (2011) Vs to Vs30 correlations can be used, as they require depths "+
				"of at least %.0f m and %.0f m, respectively.",
			recordName, deepest, boore2004, boore2011), true
	}
}
