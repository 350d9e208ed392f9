package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	extractionsTotal        atomic.Int64
	extractionFailuresTotal atomic.Int64
	validationsTotal        atomic.Int64
	cacheHitsTotal          atomic.Int64
	downloadsTotal          atomic.Int64
)

func IncExtractions()      { extractionsTotal.Add(1) }
func IncExtractionFailed() { extractionFailuresTotal.Add(1) }
func IncValidations()      { validationsTotal.Add(1) }
func IncCacheHits()        { cacheHitsTotal.Add(1) }
func IncDownloads()        { downloadsTotal.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP nzgd_map_extractions_total Number of completed extraction pipeline runs.\n")
	fmt.Fprintf(w, "# TYPE nzgd_map_extractions_total counter\n")
	fmt.Fprintf(w, "nzgd_map_extractions_total %d\n", extractionsTotal.Load())

	fmt.Fprintf(w, "# HELP nzgd_map_extraction_failures_total Number of extraction runs that failed before producing a table.\n")
	fmt.Fprintf(w, "# TYPE nzgd_map_extraction_failures_total counter\n")
	fmt.Fprintf(w, "nzgd_map_extraction_failures_total %d\n", extractionFailuresTotal.Load())

	fmt.Fprintf(w, "# HELP nzgd_map_filter_validations_total Number of ad-hoc filter validation requests.\n")
	fmt.Fprintf(w, "# TYPE nzgd_map_filter_validations_total counter\n")
	fmt.Fprintf(w, "nzgd_map_filter_validations_total %d\n", validationsTotal.Load())

	fmt.Fprintf(w, "# HELP nzgd_map_cache_hits_total Number of extractions served from the result cache.\n")
	fmt.Fprintf(w, "# TYPE nzgd_map_cache_hits_total counter\n")
	fmt.Fprintf(w, "nzgd_map_cache_hits_total %d\n", cacheHitsTotal.Load())

	fmt.Fprintf(w, "# HELP nzgd_map_downloads_total Number of raw measurement CSV downloads served.\n")
	fmt.Fprintf(w, "# TYPE nzgd_map_downloads_total counter\n")
	fmt.Fprintf(w, "nzgd_map_downloads_total %d\n", downloadsTotal.Load())
}
