package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"netstate/classify"
	"netstate/logger"
	"netstate/models"
	"netstate/repository"
)

// Handler contains the HTTP handlers for browsing stored network state snapshots
type Handler struct {
	Store repository.SnapshotStore
}

// NewHandler creates and returns a new Handler instance
func NewHandler(store repository.SnapshotStore) *Handler {
	return &Handler{Store: store}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, repository.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		logger.Logger.Error("Snapshot request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.NetworkStateSnapshot, bool) {
	snap, err := h.Store.Get(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return snap, true
}

// ListSnapshots handles GET requests listing the stored snapshot names
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := h.Store.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": names,
	})
}

// GetSnapshot handles GET requests returning a whole snapshot
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetClassification returns the role buckets and bandwidth sums of a snapshot
func (h *Handler) GetClassification(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, classify.Summarize(snap))
}

// GetHibernation returns the hibernation events of a snapshot, optionally for one relay
func (h *Handler) GetHibernation(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r)
	if !ok {
		return
	}

	events := snap.Events
	if fp := r.URL.Query().Get("fingerprint"); fp != "" {
		events = nil
		for _, e := range snap.Events {
			if e.Fingerprint == fp {
				events = append(events, e)
			}
		}
	}
	if events == nil {
		events = []models.HibernationEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot": snap.Name(),
		"events":   events,
	})
}
