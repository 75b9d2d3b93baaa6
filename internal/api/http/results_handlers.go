package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/Hammad-111/HamSync-sub000/internal/auth/middleware"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
	"github.com/Hammad-111/HamSync-sub000/internal/rbac"
	"github.com/Hammad-111/HamSync-sub000/internal/results"
)

// POST /results
// The result is recomputed here; clients never submit their own numbers.
func SaveResultHandler(calc *merit.Calculator, store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		res, ok := calculate(w, calc, req)
		if !ok {
			return
		}
		sv, err := store.Save(r.Context(), authmw.SubjectFromContext(r.Context()), req, res)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, sv)
	}
}

// GET /results?institution=...&user_id=...&limit=50&offset=0
// Callers without results:view-all only ever see their own.
func ListResultsHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		userID := strings.TrimSpace(q.Get("user_id"))
		if !rbac.Can(r.Context(), rbac.PermResultsViewAll) {
			userID = authmw.SubjectFromContext(r.Context())
		}
		list, err := store.List(r.Context(), results.ListOpts{
			UserID:      userID,
			Institution: strings.TrimSpace(q.Get("institution")),
			Limit:       parseIntDefault(q.Get("limit"), 0),
			Offset:      parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /results/{id}
func GetResultHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sv, ok := ownedResult(w, r, store, rbac.PermResultsViewAll)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sv)
	}
}

// DELETE /results/{id}
func DeleteResultHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sv, ok := ownedResult(w, r, store, rbac.PermResultsDelAny)
		if !ok {
			return
		}
		if err := store.Delete(r.Context(), sv.ID); err != nil && !errors.Is(err, results.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ownedResult loads {id} and allows it to the owner or to holders of anyPerm.
func ownedResult(w http.ResponseWriter, r *http.Request, store results.Store, anyPerm string) (results.Saved, bool) {
	sv, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, results.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no such result")
		return sv, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return sv, false
	}
	if sv.UserID != authmw.SubjectFromContext(r.Context()) && !rbac.Can(r.Context(), anyPerm) {
		writeError(w, http.StatusForbidden, "forbidden", "not your result")
		return sv, false
	}
	return sv, true
}
