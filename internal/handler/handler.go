package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/adverdi/pacing-service/internal/models"
	"github.com/adverdi/pacing-service/internal/service"
)

type Handler struct {
	svc *service.Reviewer
	log *logrus.Logger
}

func NewHandler(svc *service.Reviewer, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type runBatchRequest struct {
	Items []models.ReviewItem `json:"items"`
}

// RunBatch triggers a review batch over the requested items, or over every
// active client when the body names none
func (h *Handler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req runBatchRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	summary, err := h.svc.RunBatch(r.Context(), req.Items)
	if err != nil {
		h.log.Errorf("Batch run failed to start: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// RunSingle triggers an interactive re-analysis of one client or account
func (h *Handler) RunSingle(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(mux.Vars(r)["clientID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid client id", http.StatusBadRequest)
		return
	}

	var accountID *int64
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid account id", http.StatusBadRequest)
			return
		}
		accountID = &id
	}

	record, err := h.svc.RunSingle(r.Context(), clientID, accountID)
	if errors.Is(err, service.ErrInFlight) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		h.log.Errorf("Single review failed for client %d: %v", clientID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ListReviews returns the client's review history, newest first
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(mux.Vars(r)["clientID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid client id", http.StatusBadRequest)
		return
	}

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	records, err := h.svc.ListReviews(clientID, limit)
	if err != nil {
		h.log.Errorf("Failed to list reviews for client %d: %v", clientID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Health reports process liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
