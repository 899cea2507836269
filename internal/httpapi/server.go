// Package httpapi exposes the collector's read path over HTTP for the
// query optimizer to pull statistics when building plans, grounded on the
// source repository's cmd/ns-api. Responses are plain JSON via
// encoding/json rather than protojson: there is no protobuf schema for
// this domain (see DESIGN.md).
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"OptimizerStats/internal/model"
)

// Handler serves the column-statistics query API.
type Handler struct {
	trackers map[string]model.Tracker
}

// NewHandler indexes trackers by name for O(1) lookup per request.
func NewHandler(trackers []model.Tracker) *Handler {
	byName := make(map[string]model.Tracker, len(trackers))
	for _, t := range trackers {
		byName[t.Name()] = t
	}
	return &Handler{trackers: byName}
}

// Router builds the mux.Router serving this handler's endpoints.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/columns/{name}/estimate", h.estimateHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/columns/{name}/topk", h.topKHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/columns/{name}/diagnostic", h.diagnosticHandler).Methods(http.MethodGet)
	return r
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (model.Tracker, bool) {
	name := mux.Vars(r)["name"]
	tr, ok := h.trackers[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown column: "+name)
		return nil, false
	}
	return tr, true
}

type estimateResponse struct {
	Key      string `json:"key"`
	Estimate int64  `json:"estimate"`
}

func (h *Handler) estimateHandler(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.lookup(w, r)
	if !ok {
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing required query parameter: key")
		return
	}
	writeJSON(w, http.StatusOK, estimateResponse{Key: key, Estimate: tr.Estimate(key)})
}

type topKEntry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type topKResponse struct {
	Entries []topKEntry `json:"entries"`
}

func (h *Handler) topKHandler(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.lookup(w, r)
	if !ok {
		return
	}

	limit := -1
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit: "+raw)
			return
		}
		limit = n
	}

	snapshot := tr.Snapshot()
	if limit >= 0 && limit < len(snapshot) {
		snapshot = snapshot[:limit]
	}

	entries := make([]topKEntry, len(snapshot))
	for i, e := range snapshot {
		entries[i] = topKEntry{Key: string(e.Key), Count: e.Count}
	}
	writeJSON(w, http.StatusOK, topKResponse{Entries: entries})
}

func (h *Handler) diagnosticHandler(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(tr.DiagnosticString()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
