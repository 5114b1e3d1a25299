package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dinoai/omnicast/internal/domain"
	"github.com/dinoai/omnicast/internal/prompt"
)

func (s *Server) newComposer() *domain.Composer {
	build := func(mode, tone string, platform domain.PlatformID, userText string) string {
		return prompt.BuildInstruction(prompt.ParseMode(mode), tone, platform, userText)
	}
	var notifier domain.Notifier
	if s.hub != nil {
		notifier = s.hub
	}
	return domain.NewComposer(s.gen, build, s.registry, notifier, s.logger)
}

func (s *Server) composer(w http.ResponseWriter, r *http.Request) (*domain.Composer, bool) {
	c, ok := s.store.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown compose session")
		return nil, false
	}
	return c, true
}

type composeCreateRequest struct {
	Text      string              `json:"text"`
	Platforms []domain.PlatformID `json:"platforms"`
}

func (s *Server) handleComposeCreate(w http.ResponseWriter, r *http.Request) {
	var req composeCreateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	c := s.newComposer()
	if req.Text != "" {
		c.SetText(req.Text)
	}
	for _, id := range req.Platforms {
		if _, err := domain.LookupPlatform(id); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	// The default targets stay unless the caller named its own set.
	if len(req.Platforms) > 0 {
		for _, id := range c.Targets() {
			c.TogglePlatform(id)
		}
		for _, id := range req.Platforms {
			c.TogglePlatform(id)
		}
	}

	id := s.store.create(c)
	writeJSON(w, http.StatusCreated, map[string]any{"sessionId": id, "state": c.Snapshot()})
}

func (s *Server) handleComposeGet(w http.ResponseWriter, r *http.Request) {
	c, ok := s.composer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": c.Snapshot()})
}

func (s *Server) handleComposeDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.store.get(r.PathValue("id")); !ok {
		writeError(w, http.StatusNotFound, "unknown compose session")
		return
	}
	s.store.delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type composeUpdateRequest struct {
	Action   string            `json:"action"`
	Text     string            `json:"text"`
	MediaRef string            `json:"mediaRef"`
	Variant  domain.VariantID  `json:"variant"`
	Platform domain.PlatformID `json:"platform"`
	Schedule domain.Schedule   `json:"schedule"`
}

// handleComposeUpdate applies one state mutation per call. The dashboard
// issues these on every keystroke debounce, toggle, and tab switch.
func (s *Server) handleComposeUpdate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.composer(w, r)
	if !ok {
		return
	}
	var req composeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Action {
	case "text":
		c.SetText(req.Text)
	case "media":
		c.SetMedia(req.MediaRef)
	case "switch_variant":
		if req.Variant != domain.VariantA && req.Variant != domain.VariantB {
			writeError(w, http.StatusBadRequest, "unknown variant")
			return
		}
		c.SwitchVariant(req.Variant)
	case "copy_variant":
		c.CopyVariant()
	case "toggle_platform":
		if _, err := domain.LookupPlatform(req.Platform); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.TogglePlatform(req.Platform)
	case "preview":
		if _, err := domain.LookupPlatform(req.Platform); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.SetPreview(req.Platform)
	case "schedule":
		if err := req.Schedule.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.SetSchedule(req.Schedule)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"state": c.Snapshot()})
}

type composeAssistRequest struct {
	Mode string `json:"mode"`
	Tone string `json:"tone"`
	Vibe string `json:"vibe"`
}

func (s *Server) handleComposeAssist(w http.ResponseWriter, r *http.Request) {
	c, ok := s.composer(w, r)
	if !ok {
		return
	}
	var req composeAssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tone := req.Tone
	if tone == "" {
		tone = req.Vibe
	}

	result, err := c.ApplyAssist(r.Context(), req.Mode, tone)
	if err != nil {
		if errors.Is(err, domain.ErrAssistSuperseded) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": "superseded",
				"state": c.Snapshot(),
			})
			return
		}
		writeJSON(w, statusForKind(domain.KindOf(err)), map[string]any{
			"error": err.Error(),
			"state": c.Snapshot(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result, "state": c.Snapshot()})
}

type composePublishRequest struct {
	Platform domain.PlatformID `json:"platform"`
}

// handleComposePublish launches the active variant. With a platform named it
// dispatches to that platform alone; otherwise it fans out to every selected
// target. A deferred schedule arms a stored post instead of dispatching.
func (s *Server) handleComposePublish(w http.ResponseWriter, r *http.Request) {
	c, ok := s.composer(w, r)
	if !ok {
		return
	}
	var req composePublishRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if schedule := c.Schedule(); schedule.Deferred() {
		s.armSchedule(w, r, c, schedule)
		return
	}

	var outcomes []domain.Outcome
	if req.Platform != "" {
		outcomes = []domain.Outcome{c.DispatchPublish(r.Context(), req.Platform)}
	} else {
		outcomes = c.DispatchAll(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcomes": toOutcomeJSON(outcomes),
		"state":    c.Snapshot(),
	})
}

// armSchedule stores the active variant as a pending post instead of
// dispatching it immediately.
func (s *Server) armSchedule(w http.ResponseWriter, r *http.Request, c *domain.Composer, schedule domain.Schedule) {
	if s.schedule == nil {
		writeError(w, http.StatusServiceUnavailable, "schedule store is not configured")
		return
	}
	_, v := c.ActiveVariant()
	if v.Text == "" {
		writeError(w, http.StatusBadRequest, "nothing to publish")
		return
	}
	launchAt, err := schedule.LaunchAt(time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	post := &domain.ScheduledPost{
		ID:        uuid.NewString(),
		Platforms: c.Targets(),
		Text:      v.Text,
		MediaRef:  v.MediaRef,
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
	writeJSON(w, http.StatusAccepted, map[string]any{
		"scheduled": post,
		"state":     c.Snapshot(),
	})
}

type composeConnectRequest struct {
	Token string `json:"token"`
	URN   string `json:"urn"`
}

// handleComposeConnect installs the credential the OAuth callback handed to
// the frontend, scoping it to this compose session.
func (s *Server) handleComposeConnect(w http.ResponseWriter, r *http.Request) {
	c, ok := s.composer(w, r)
	if !ok {
		return
	}
	var req composeConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Token == "" || req.URN == "" {
		writeError(w, http.StatusBadRequest, "token and urn are required")
		return
	}
	c.SetSession(&domain.Session{AccessToken: req.Token, ActorURN: req.URN})
	writeJSON(w, http.StatusOK, map[string]any{"state": c.Snapshot()})
}
