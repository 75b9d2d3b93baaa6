package http

import (
	"net/http"
	"strconv"

	syncx "github.com/Hammad-111/HamSync-sub000/internal/sync"
)

// GET /events?after=0&limit=100
func ListEventsHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		list, err := events.Since(r.Context(), after, parseIntDefault(r.URL.Query().Get("limit"), 0))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
