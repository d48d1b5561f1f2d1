package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"craftwell-hq/vega/pkg/dsl"
	"craftwell-hq/vega/pkg/dsl/diag"
	"craftwell-hq/vega/pkg/dsl/jsonlogic"
	"craftwell-hq/vega/pkg/gate/store"
)

type saveConditionRequest struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	DSL       string          `json:"dsl"`
	JSONLogic json.RawMessage `json:"jsonLogic,omitempty"`
}

type conditionResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	DSL       string               `json:"dsl,omitempty"`
	JSONLogic jsonlogic.Expression `json:"jsonLogic"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func toConditionResponse(record *store.ConditionRecord) conditionResponse {
	return conditionResponse{
		ID:        record.ID,
		Name:      record.Name,
		DSL:       record.DSL,
		JSONLogic: record.JSONLogic,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (s *Server) handleConditions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "condition store not configured"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		records, err := s.store.List(r.Context())
		if err != nil {
			s.logger.Error("failed to list conditions", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		responses := make([]conditionResponse, 0, len(records))
		for _, record := range records {
			responses = append(responses, toConditionResponse(record))
		}
		writeJSON(w, http.StatusOK, responses)

	case http.MethodPost:
		s.saveCondition(w, r)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) saveCondition(w http.ResponseWriter, r *http.Request) {
	var req saveConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	input := dsl.Input{DSL: req.DSL}
	if len(req.JSONLogic) > 0 {
		expr, err := jsonlogic.Decode(req.JSONLogic)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid jsonLogic: " + err.Error()})
			return
		}
		input.JSONLogic = expr
	}

	result, err := s.normalize(input)
	if err != nil {
		var verr *diag.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: verr.Diagnostics})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	record := &store.ConditionRecord{
		ID:        req.ID,
		Name:      req.Name,
		JSONLogic: result.JSONLogic,
	}
	if result.CanonicalDSL != nil {
		record.DSL = *result.CanonicalDSL
	}

	if err := s.store.Save(r.Context(), record); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("failed to save condition", "name", req.Name, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, toConditionResponse(record))
}

func (s *Server) handleConditionByID(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "condition store not configured"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/conditions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, err := s.store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, toConditionResponse(record))

	case http.MethodDelete:
		if err := s.store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
