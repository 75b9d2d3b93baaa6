package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
)

const maxBody = 1 << 20

func decodeRequest(w http.ResponseWriter, r *http.Request) (aggregate.Request, bool) {
	var req aggregate.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return req, false
	}
	return req, true
}

// calculate runs req and writes the error response itself when it fails.
func calculate(w http.ResponseWriter, calc *merit.Calculator, req aggregate.Request) (merit.Result, bool) {
	res, err := calc.Calculate(req)
	switch {
	case err == nil:
		return res, true
	case errors.Is(err, catalog.ErrUnknownProfile):
		writeError(w, http.StatusNotFound, "unknown_profile", err.Error())
	case errors.Is(err, merit.ErrBadMode):
		writeError(w, http.StatusBadRequest, "bad_mode", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
	return merit.Result{}, false
}

// POST /aggregate, /aggregate/forward, /aggregate/target
// A non-empty mode overrides whatever the body says. no_result is a 200.
func CalculateHandler(calc *merit.Calculator, mode aggregate.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		if mode != "" {
			req.Mode = mode
		}
		res, ok := calculate(w, calc, req)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
