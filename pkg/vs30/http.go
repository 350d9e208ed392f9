package vs30

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ucgmsim/nzgd-map/pkg/common/logger"
	"github.com/ucgmsim/nzgd-map/pkg/common/models"
	"github.com/ucgmsim/nzgd-map/pkg/correlation"
	"github.com/ucgmsim/nzgd-map/pkg/filterexpr"
	"github.com/ucgmsim/nzgd-map/pkg/observability/metrics"
)

type Handler struct {
	service  *Service
	defaults models.CorrelationSelection
}

func NewHandler(service *Service, defaults models.CorrelationSelection) *Handler {
	return &Handler{service: service, defaults: defaults}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/records", h.handleRecords).Methods(http.MethodGet)
	r.HandleFunc("/correlations", h.handleCorrelations).Methods(http.MethodGet)
	r.HandleFunc("/validate", h.handleValidate).Methods(http.MethodGet)
	r.HandleFunc("/records/cpt/{record_name}", h.handleCPTRecord).Methods(http.MethodGet)
	r.HandleFunc("/records/spt/{record_name}", h.handleSPTRecord).Methods(http.MethodGet)
	r.HandleFunc("/download/cpt/{record_name}", h.handleDownloadCPT).Methods(http.MethodGet)
	r.HandleFunc("/download/spt/{record_name}", h.handleDownloadSPT).Methods(http.MethodGet)
	r.HandleFunc("/download/spt-soil-types/{record_name}", h.handleDownloadSPTSoilTypes).Methods(http.MethodGet)
}

// selectionFromQuery fills missing correlation parameters from the
// configured defaults; resolution still rejects unknown names.
func (h *Handler) selectionFromQuery(r *http.Request) models.CorrelationSelection {
	query := r.URL.Query()
	sel := h.defaults
	if v := query.Get("vs30_correlation"); v != "" {
		sel.VsToVs30Correlation = v
	}
	if v := query.Get("cpt_vs_correlation"); v != "" {
		sel.CPTToVsCorrelation = v
	}
	if v := query.Get("spt_vs_correlation"); v != "" {
		sel.SPTToVsCorrelation = v
	}
	if v := query.Get("hammer_type"); v != "" {
		sel.HammerType = v
	}
	return sel
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	sel := h.selectionFromQuery(r)
	filter := r.URL.Query().Get("query")

	result, err := h.service.Extract(r.Context(), sel, filter)
	if err != nil {
		var unknown *correlation.UnknownCorrelationError
		if errors.As(err, &unknown) {
			http.Error(w, fmt.Sprintf("unsupported correlation selection: %s", unknown), http.StatusBadRequest)
			return
		}
		var invalid *filterexpr.ValidationError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": invalid})
			return
		}
		logger.Log.WithError(err).Error("failed to extract records")
		http.Error(w, "failed to extract records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CorrelationOptions())
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	expression := r.URL.Query().Get("query")
	if expression == "" {
		writeJSON(w, http.StatusOK, filterexpr.ValidationResult{OK: true})
		return
	}
	writeJSON(w, http.StatusOK, h.service.Validate(expression))
}

func (h *Handler) handleCPTRecord(w http.ResponseWriter, r *http.Request) {
	recordName := mux.Vars(r)["record_name"]
	detail, err := h.service.CPTRecord(r.Context(), recordName)
	if err != nil {
		logger.Log.WithError(err).WithField("record", recordName).Error("failed to load cpt record")
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleSPTRecord(w http.ResponseWriter, r *http.Request) {
	recordName := mux.Vars(r)["record_name"]
	detail, err := h.service.SPTRecord(r.Context(), recordName)
	if err != nil {
		logger.Log.WithError(err).WithField("record", recordName).Error("failed to load spt record")
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleDownloadCPT(w http.ResponseWriter, r *http.Request) {
	recordName := mux.Vars(r)["record_name"]
	_, nzgdID, err := ParseRecordName(recordName)
	if err != nil {
		http.Error(w, "invalid record name", http.StatusBadRequest)
		return
	}
	measurements, err := h.service.repo.CPTMeasurementsForRecord(r.Context(), nzgdID)
	if err != nil {
		logger.Log.WithError(err).WithField("record", recordName).Error("failed to load cpt measurements")
		http.Error(w, "failed to load measurements", http.StatusInternalServerError)
		return
	}

	beginCSVDownload(w, recordName)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"depth_(m)", "cone_resistance_qc_(Mpa)", "sleeve_friction_fs_(Mpa)", "pore_pressure_u2_(Mpa)"})
	for _, m := range measurements {
		_ = writer.Write([]string{
			formatFloat(m.Depth),
			formatFloat(m.QC),
			formatFloat(m.FS),
			formatFloat(m.U2),
		})
	}
	writer.Flush()
	metrics.IncDownloads()
}

func (h *Handler) handleDownloadSPT(w http.ResponseWriter, r *http.Request) {
	recordName := mux.Vars(r)["record_name"]
	_, nzgdID, err := ParseRecordName(recordName)
	if err != nil {
		http.Error(w, "invalid record name", http.StatusBadRequest)
		return
	}
	measurements, err := h.service.repo.SPTMeasurementsForRecord(r.Context(), nzgdID)
	if err != nil {
		logger.Log.WithError(err).WithField("record", recordName).Error("failed to load spt measurements")
		http.Error(w, "failed to load measurements", http.StatusInternalServerError)
		return
	}

	beginCSVDownload(w, recordName)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"depth_m", "number_of_blows"})
	for _, m := range measurements {
		_ = writer.Write([]string{formatFloat(m.Depth), strconv.FormatInt(m.N, 10)})
	}
	writer.Flush()
	metrics.IncDownloads()
}

func (h *Handler) handleDownloadSPTSoilTypes(w http.ResponseWriter, r *http.Request) {
	recordName := mux.Vars(r)["record_name"]
	_, nzgdID, err := ParseRecordName(recordName)
	if err != nil {
		http.Error(w, "invalid record name", http.StatusBadRequest)
		return
	}
	soilTypes, err := h.service.repo.SPTSoilTypesForRecord(r.Context(), nzgdID)
	if err != nil {
		logger.Log.WithError(err).WithField("record", recordName).Error("failed to load spt soil types")
		http.Error(w, "failed to load soil types", http.StatusInternalServerError)
		return
	}

	beginCSVDownload(w, recordName)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"depth_at_layer_top_m", "soil_type"})
	for _, st := range soilTypes {
		_ = writer.Write([]string{formatFloat(st.TopDepth), st.SoilType})
	}
	writer.Flush()
	metrics.IncDownloads()
}

func beginCSVDownload(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
