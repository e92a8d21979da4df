package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pursuitlab/copnumber/pkg/buildinfo"
	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/solver"
	"github.com/pursuitlab/copnumber/pkg/store"
)

// solveRequest is the body of POST /v1/solve.
type solveRequest struct {
	// Graph is the adjacency matrix in the text format the CLI reads:
	// one row of '0'/'1' per line.
	Graph string `json:"graph"`
	Cops  int    `json:"cops"`

	// TrackRounds requests capture-distance bookkeeping; ExtractPath
	// implies it and additionally returns the pursuit.
	TrackRounds bool `json:"track_rounds,omitempty"`
	ExtractPath bool `json:"extract_path,omitempty"`

	// Force re-solves even when the store already holds a verdict.
	Force bool `json:"force,omitempty"`
}

// solveResponse wraps a verdict record. Cached reports whether it was
// served from the store without solving.
type solveResponse struct {
	Record *store.Record `json:"record"`
	Cached bool          `json:"cached"`
	Path   []pathPly     `json:"path,omitempty"`
}

type pathPly struct {
	Cops   []byte `json:"cops"`
	Robber byte   `json:"robber"`
	Phase  string `json:"phase"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidArguments, err, "decode request body"))
		return
	}

	g, err := graph.Parse([]byte(req.Graph))
	if err != nil {
		writeError(w, err)
		return
	}

	key := store.Key(g, req.Cops)
	if !req.Force && !req.ExtractPath {
		if rec, err := s.store.Get(r.Context(), key); err == nil {
			writeJSON(w, http.StatusOK, solveResponse{Record: rec, Cached: true})
			return
		}
	}

	opts := s.solveOptions()
	opts.TrackRounds = req.TrackRounds
	opts.ExtractPath = req.ExtractPath
	res, err := solver.Solve(r.Context(), g, req.Cops, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := store.FromResult(key, res)
	if err := s.store.Set(r.Context(), rec); err != nil {
		s.logger.Warn("persist verdict", "key", key, "err", err)
	}

	resp := solveResponse{Record: rec}
	for _, p := range res.Path {
		resp.Path = append(resp.Path, pathPly{Cops: p.Cops, Robber: p.Robber, Phase: string(p.Phase)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, httpStatus(code), errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func httpStatus(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidArguments, errors.ErrCodeCopCountOutOfRange,
		errors.ErrCodeMalformedGraph:
		return http.StatusBadRequest
	case errors.ErrCodeGraphTooLarge, errors.ErrCodeGraphTooDense,
		errors.ErrCodeConfigOverflow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
