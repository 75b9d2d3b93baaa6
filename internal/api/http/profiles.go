package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
)

// GET /profiles
func ListProfilesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Families())
	}
}

// GET /profiles/{institution}
func GetProfileFamilyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := catalog.Lookup(chi.URLParam(r, "institution"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown_profile", "no such institution")
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}
