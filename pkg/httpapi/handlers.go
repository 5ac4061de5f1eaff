package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zen-systems/tripgate/pkg/adapter"
	"github.com/zen-systems/tripgate/pkg/extract"
	"github.com/zen-systems/tripgate/pkg/itinerary"
	"github.com/zen-systems/tripgate/pkg/planner"
	"github.com/zen-systems/tripgate/pkg/prompt"
)

const maxBody = 1 << 20

// problem is an RFC 7807 body. Generation failures add the provider,
// the failure reason and the extracted details.
type problem struct {
	Type      string           `json:"type"`
	Title     string           `json:"title"`
	Status    int              `json:"status"`
	Detail    string           `json:"detail,omitempty"`
	Kind      string           `json:"kind,omitempty"`
	Provider  string           `json:"provider,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Transient *bool            `json:"transient,omitempty"`
	Details   *extract.Details `json:"details,omitempty"`
}

type textRequest struct {
	Text     string           `json:"text"`
	Strategy string           `json:"strategy,omitempty"`
	Details  *extract.Details `json:"details,omitempty"`
	// Plain omits the JSON block request from the compiled prompt.
	Plain bool `json:"plain,omitempty"`
}

type promptResponse struct {
	Prompt  string           `json:"prompt"`
	Details *extract.Details `json:"details"`
}

func (s *Server) writeProblem(w http.ResponseWriter, status int, title, detail string) {
	s.writeProblemKind(w, status, title, detail, "")
}

func (s *Server) writeProblemKind(w http.ResponseWriter, status int, title, detail, kind string) {
	s.writeProblemBody(w, problem{Title: title, Status: status, Detail: detail, Kind: kind})
}

func (s *Server) writeProblemBody(w http.ResponseWriter, p problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		s.logger.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (s *Server) writeValidation(w http.ResponseWriter, v *prompt.ValidationError) {
	s.writeProblemKind(w, http.StatusUnprocessableEntity, "Invalid trip details", v.Error(), string(v.Kind))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal response")
		s.writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "response encoding failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response body")
	}
}

// decode reads a textRequest. It writes the problem and returns false on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, requireText bool) (textRequest, bool) {
	var req textRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeProblem(w, http.StatusRequestEntityTooLarge, "Request too large", "body exceeds 1 MiB")
			return req, false
		}
		s.writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON object")
		return req, false
	}
	if requireText && strings.TrimSpace(req.Text) == "" {
		s.writeProblem(w, http.StatusBadRequest, "Missing text", "text is required")
		return req, false
	}
	return req, true
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, false)
	if !ok {
		return
	}
	var d *extract.Details
	if req.Strategy == "" {
		d = s.planner.Extract(req.Text)
	} else {
		strategy, err := extract.StrategyByName(req.Strategy)
		if err != nil {
			s.writeProblem(w, http.StatusBadRequest, "Unknown strategy", err.Error())
			return
		}
		d = extract.New(extract.WithStrategy(strategy), extract.WithClock(s.now), extract.WithLogger(s.logger)).Extract(req.Text)
	}
	s.writeJSON(w, http.StatusOK, d.Map())
}

func (s *Server) prompt(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, false)
	if !ok {
		return
	}
	d := req.Details
	if d == nil {
		d = s.planner.Extract(req.Text)
	}
	text, err := prompt.Compile(d, s.now())
	if err != nil {
		var v *prompt.ValidationError
		if errors.As(err, &v) {
			s.writeValidation(w, v)
			return
		}
		s.writeProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	if !req.Plain {
		text = prompt.WithStructuredOutput(text)
	}
	s.writeJSON(w, http.StatusOK, promptResponse{Prompt: text, Details: d})
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, false)
	if !ok {
		return
	}
	if req.Details == nil && strings.TrimSpace(req.Text) == "" {
		s.writeProblem(w, http.StatusBadRequest, "Missing text", "text or details is required")
		return
	}
	d := req.Details
	if d == nil {
		d = s.planner.Extract(req.Text)
	}
	plan, err := s.planner.PlanDetails(r.Context(), d)
	if err != nil {
		s.writeGenerationFailure(w, plan, err)
		return
	}
	if plan.Validation != nil {
		s.writeValidation(w, plan.Validation)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) writeGenerationFailure(w http.ResponseWriter, plan *planner.Plan, err error) {
	transient := adapter.IsTransient(err)
	p := problem{
		Title:     "Generation failed",
		Status:    http.StatusBadGateway,
		Detail:    err.Error(),
		Provider:  adapter.ProviderOf(err),
		Reason:    string(adapter.ReasonOf(err)),
		Transient: &transient,
	}
	if plan != nil {
		p.Details = plan.Details
	}
	s.writeProblemBody(w, p)
}

func (s *Server) parseItinerary(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, true)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, itinerary.Parse(req.Text))
}
