package routers

import (
	"net/http"

	"netstate/handlers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the HTTP routes of the snapshot API
func RegisterRoutes(r *mux.Router, h *handlers.Handler, metrics http.Handler) {

	// Lists the stored snapshots by name
	r.HandleFunc("/snapshots", h.ListSnapshots).Methods("GET")

	// Returns one snapshot with relays, descriptors and hibernation events
	r.HandleFunc("/snapshots/{name}", h.GetSnapshot).Methods("GET")

	// Guard / exit / guard-exit / middle buckets of the running relays
	r.HandleFunc("/snapshots/{name}/classification", h.GetClassification).Methods("GET")

	// Hibernation changes, filtered with ?fingerprint=
	r.HandleFunc("/snapshots/{name}/hibernation", h.GetHibernation).Methods("GET")

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}
}
