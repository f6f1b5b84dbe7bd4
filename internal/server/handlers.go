package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/interview-assistant/internal/extract"
	"github.com/jonathan/interview-assistant/internal/types"
)

type createCandidateRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ResumeText     string `json:"resume_text,omitempty"`
	ResumeFileName string `json:"resume_file_name,omitempty"`
}

// handleCreateCandidate runs resume extraction when text is supplied, creates
// the candidate and posts the welcome transcript.
func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	var profile *types.ResumeProfile
	if strings.TrimSpace(req.ResumeText) != "" {
		fileName := req.ResumeFileName
		if fileName == "" {
			fileName = "resume.txt"
		}
		text, err := extract.ReadDocumentFrom(strings.NewReader(req.ResumeText), fileName)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		extraction, err := s.extractor.Extract(text, fileName)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		profile = &extraction.Profile

		// Prefill blanks from the resume's contact lines.
		if req.Name == "" {
			req.Name = extraction.Name
		}
		if req.Email == "" {
			req.Email = extraction.Email
		}
		if req.Phone == "" {
			req.Phone = extraction.Phone
		}
	}

	candidate, err := s.engine.CreateCandidate(r.Context(), req.Name, req.Email, req.Phone, profile)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "candidate", Message: err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusCreated, candidate)
}

// handleGetSession returns the full session state view.
func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.engine.State())
}

type inputRequest struct {
	Text string `json:"text"`
}

// handleInput routes one line of candidate input through the engine.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := s.engine.HandleInput(r.Context(), req.Text); err != nil {
		s.errorResponse(w, &ErrNoSession{})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.engine.State())
}

// handleTyping records the in-progress draft, arming the countdown on the
// first keystroke.
func (s *Server) handleTyping(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	s.engine.NoteTyping(req.Text)
	s.jsonResponse(w, http.StatusOK, map[string]int{"time_remaining": s.engine.State().TimeRemaining})
}

type tabRequest struct {
	Tab types.ActiveTab `json:"tab"`
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	var req tabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := s.engine.SetActiveTab(req.Tab); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "tab", Message: err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.engine.State())
}

type visibilityRequest struct {
	Visible *bool `json:"visible,omitempty"`
	Focused *bool `json:"focused,omitempty"`
}

// handleVisibility records page visibility and window focus changes, both of
// which pause the countdown while the candidate is away.
func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if req.Visible == nil && req.Focused == nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "one of visible or focused is required"})
		return
	}
	if req.Visible != nil {
		s.engine.SetPageVisible(*req.Visible)
	}
	if req.Focused != nil {
		s.engine.SetWindowFocused(*req.Focused)
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"time_remaining": s.engine.State().TimeRemaining})
}

// handleTick advances the countdown one second, firing the time-up submission
// at zero.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	remaining, err := s.engine.Tick(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"time_remaining": remaining})
}

type welcomeBackRequest struct {
	Action string `json:"action"` // "continue" or "restart"
}

func (s *Server) handleWelcomeBack(w http.ResponseWriter, r *http.Request) {
	var req welcomeBackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	switch req.Action {
	case "continue":
		if err := s.engine.ContinueSession(); err != nil {
			s.errorResponse(w, &ErrNoSession{})
			return
		}
	case "restart":
		s.engine.RestartSession()
	default:
		s.errorResponse(w, &ErrValidation{Field: "action", Message: `must be "continue" or "restart"`})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.engine.RestartSession()
	s.jsonResponse(w, http.StatusOK, s.engine.State())
}

// handleListCandidates returns the roster, filtered and sorted for the
// dashboard. ?search= matches name or email case-insensitively; the default
// order is score descending and ?sort=date gives newest first.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	view := s.engine.State()
	candidates := view.Candidates

	if term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search"))); term != "" {
		filtered := candidates[:0]
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.Name), term) ||
				strings.Contains(strings.ToLower(c.Email), term) {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	switch r.URL.Query().Get("sort") {
	case "date":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
		})
	default:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})
	}
	s.jsonResponse(w, http.StatusOK, candidates)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view := s.engine.State()
	candidate := view.FindCandidate(id)
	if candidate == nil {
		s.errorResponse(w, &ErrCandidateNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, candidate)
}
