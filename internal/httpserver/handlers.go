package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dinoai/omnicast/internal/domain"
	"github.com/dinoai/omnicast/internal/prompt"
)

// --- generation ---

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Mode     string `json:"mode"`
	Tone     string `json:"tone"`
	Vibe     string `json:"vibe"`
	Platform string `json:"platform"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	// The dashboard sends the same knob as "tone" or "vibe" depending on
	// the view; treat them as aliases.
	tone := req.Tone
	if tone == "" {
		tone = req.Vibe
	}

	mode := prompt.ParseMode(req.Mode)
	instruction := prompt.BuildInstruction(mode, tone, domain.PlatformID(req.Platform), req.Prompt)

	result, err := s.gen.Generate(r.Context(), instruction, req.Prompt)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

// --- OAuth ---

func (s *Server) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil || s.cfg.LinkedInClientID == "" {
		writeError(w, http.StatusServiceUnavailable, "linkedin integration is not configured")
		return
	}
	http.Redirect(w, r, s.auth.Begin(), http.StatusFound)
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeError(w, http.StatusServiceUnavailable, "linkedin integration is not configured")
		return
	}

	composeURL := s.cfg.FrontendURL + "/compose"
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	session, err := s.auth.Complete(r.Context(), state, code)
	if err != nil {
		http.Redirect(w, r, composeURL+"?auth_error="+url.QueryEscape(err.Error()), http.StatusFound)
		return
	}

	q := url.Values{}
	q.Set("token", session.AccessToken)
	q.Set("urn", session.ActorURN)
	http.Redirect(w, r, composeURL+"?"+q.Encode(), http.StatusFound)
}

// --- publishing ---

type linkedInPostRequest struct {
	Text        string `json:"text"`
	AccessToken string `json:"accessToken"`
	UserURN     string `json:"userUrn"`
}

func (s *Server) handleLinkedInPost(w http.ResponseWriter, r *http.Request) {
	var req linkedInPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" || req.AccessToken == "" || req.UserURN == "" {
		writeError(w, http.StatusBadRequest, "missing required fields (token/urn/text)")
		return
	}

	session := &domain.Session{AccessToken: req.AccessToken, ActorURN: req.UserURN}
	out := s.registry.Dispatch(r.Context(), domain.PlatformLinkedIn, domain.Variant{Text: req.Text}, session)
	if !out.Success {
		writeError(w, statusForKind(out.Err.Kind), out.Err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out.Response})
}

type publishRequest struct {
	Text        string              `json:"text"`
	MediaRef    string              `json:"mediaRef"`
	Platforms   []domain.PlatformID `json:"platforms"`
	AccessToken string              `json:"accessToken"`
	UserURN     string              `json:"userUrn"`
}

// handlePublish fans one piece of content out to several platforms. The
// outcomes are independent; partial success is reported as-is.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" || len(req.Platforms) == 0 {
		writeError(w, http.StatusBadRequest, "text and at least one platform are required")
		return
	}

	var session *domain.Session
	if req.AccessToken != "" && req.UserURN != "" {
		session = &domain.Session{AccessToken: req.AccessToken, ActorURN: req.UserURN}
	}

	v := domain.Variant{Text: req.Text, MediaRef: req.MediaRef}
	outcomes := make([]domain.Outcome, len(req.Platforms))
	done := make(chan struct{})
	for i, id := range req.Platforms {
		go func(i int, id domain.PlatformID) {
			outcomes[i] = s.registry.Dispatch(r.Context(), id, v, session)
			done <- struct{}{}
		}(i, id)
	}
	for range req.Platforms {
		<-done
	}

	writeJSON(w, http.StatusOK, map[string]any{"outcomes": toOutcomeJSON(outcomes)})
}

// --- drafts ---

type draftRequest struct {
	Text     string `json:"text"`
	MediaRef string `json:"mediaRef"`
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		writeError(w, http.StatusServiceUnavailable, "draft store is not configured")
		return
	}
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	d := &domain.Draft{
		ID:        uuid.NewString(),
		Text:      req.Text,
		MediaRef:  req.MediaRef,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.drafts.CreateDraft(r.Context(), d); err != nil {
		s.logger.Error("create draft failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save draft")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		writeError(w, http.StatusServiceUnavailable, "draft store is not configured")
		return
	}
	drafts, err := s.drafts.ListDrafts(r.Context())
	if err != nil {
		s.logger.Error("list drafts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list drafts")
		return
	}
	if drafts == nil {
		drafts = []domain.Draft{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		writeError(w, http.StatusServiceUnavailable, "draft store is not configured")
		return
	}
	if err := s.drafts.DeleteDraft(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error("delete draft failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- scheduling ---

type scheduleRequest struct {
	Text      string              `json:"text"`
	MediaRef  string              `json:"mediaRef"`
	Platforms []domain.PlatformID `json:"platforms"`
	Schedule  domain.Schedule     `json:"schedule"`
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	if s.schedule == nil {
		writeError(w, http.StatusServiceUnavailable, "schedule store is not configured")
		return
	}
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" || len(req.Platforms) == 0 {
		writeError(w, http.StatusBadRequest, "text and at least one platform are required")
		return
	}
	if err := req.Schedule.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	launchAt, err := req.Schedule.LaunchAt(time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	post := &domain.ScheduledPost{
		ID:        uuid.NewString(),
		Platforms: req.Platforms,
		Text:      req.Text,
		MediaRef:  req.MediaRef,
		LaunchAt:  launchAt.UTC(),
		Status:    domain.ScheduledPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.schedule.CreateScheduledPost(r.Context(), post); err != nil {
		s.logger.Error("create scheduled post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to arm schedule")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// --- wire helpers ---

type outcomeJSON struct {
	Platform  domain.PlatformID `json:"platform"`
	Live      bool              `json:"live"`
	Success   bool              `json:"success"`
	Data      json.RawMessage   `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorKind domain.ErrorKind  `json:"errorKind,omitempty"`
}

func toOutcomeJSON(outcomes []domain.Outcome) []outcomeJSON {
	result := make([]outcomeJSON, len(outcomes))
	for i, out := range outcomes {
		result[i] = outcomeJSON{
			Platform: out.Platform,
			Live:     out.Live,
			Success:  out.Success,
			Data:     out.Response,
		}
		if out.Err != nil {
			result[i].Error = out.Err.Error()
			result[i].ErrorKind = out.Err.Kind
		}
	}
	return result
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindPreconditionNotMet:
		return http.StatusBadRequest
	case domain.KindAuthExchangeFailed:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
