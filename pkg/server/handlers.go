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
)

type decideRequest struct {
	Payload map[string]any `json:"payload"`
}

type decideResponse struct {
	Matched           bool           `json:"matched"`
	Route             string         `json:"route,omitempty"`
	Target            string         `json:"target,omitempty"`
	ResolvedVariables map[string]any `json:"resolvedVariables,omitempty"`
	EvaluationTimeMs  float64        `json:"evaluationTimeMs"`
}

type validateRequest struct {
	DSL       string          `json:"dsl"`
	JSONLogic json.RawMessage `json:"jsonLogic"`
}

type renderRequest struct {
	JSONLogic json.RawMessage `json:"jsonLogic"`
}

type errorResponse struct {
	Error  string            `json:"error,omitempty"`
	Errors []diag.Diagnostic `json:"errors,omitempty"`
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Payload == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "payload is required"})
		return
	}

	decision, err := s.engine.Decide(r.Context(), req.Payload)
	if err != nil {
		s.logger.Error("decision failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, decideResponse{
		Matched:           decision.Matched,
		Route:             decision.Route,
		Target:            decision.Target,
		ResolvedVariables: decision.ResolvedVariables,
		EvaluationTimeMs:  float64(decision.EvaluationTime.Microseconds()) / 1000.0,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
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

	writeJSON(w, http.StatusOK, result)
}

// normalize runs the condition pipeline and records parse metrics when the
// input carried expression text; JSON-Logic passthrough parses nothing.
func (s *Server) normalize(input dsl.Input) (*dsl.ValidationResult, error) {
	start := time.Now()
	result, err := dsl.Normalize(input, s.Catalog())
	if strings.TrimSpace(input.DSL) != "" {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.RecordParse(outcome, time.Since(start))
	}
	return result, err
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.JSONLogic) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "jsonLogic is required"})
		return
	}

	expr, err := jsonlogic.Decode(req.JSONLogic)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid jsonLogic: " + err.Error()})
		return
	}

	rendered, diags := dsl.ToDSL(expr, s.Catalog())
	if len(diags) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: diags})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"dsl": rendered})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
