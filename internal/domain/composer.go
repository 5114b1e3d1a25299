package domain

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// InstructionBuilder turns an assist intent into the instruction sent to the
// generation service. It must be pure: no I/O, no failure modes.
type InstructionBuilder func(mode, tone string, platform PlatformID, userText string) string

// Composer owns the state of one post-in-progress and is the only component
// allowed to mutate it. It routes assist actions to the generation gateway
// and publish actions to the adapter registry, reconciling results back into
// its state. Safe for concurrent use.
type Composer struct {
	mu sync.Mutex

	active    VariantID
	variants  map[VariantID]*Variant
	platforms []PlatformID
	preview   PlatformID
	schedule  Schedule
	signals   Signals
	session   *Session

	gen      Generator
	build    InstructionBuilder
	registry *Registry
	notifier Notifier
	logger   *slog.Logger
}

// NewComposer creates an empty composer with the dashboard's default
// targets: twitter and instagram selected, instagram previewed, variant A
// active. notifier may be nil.
func NewComposer(gen Generator, build InstructionBuilder, registry *Registry, notifier Notifier, logger *slog.Logger) *Composer {
	c := &Composer{
		active: VariantA,
		variants: map[VariantID]*Variant{
			VariantA: {},
			VariantB: {},
		},
		platforms: []PlatformID{PlatformTwitter, PlatformInstagram},
		preview:   PlatformInstagram,
		schedule:  Schedule{Kind: ScheduleImmediate},
		gen:       gen,
		build:     build,
		registry:  registry,
		notifier:  notifier,
		logger:    logger,
	}
	c.recompute()
	return c
}

// View is an immutable snapshot of the composer for callers and encoders.
type View struct {
	ActiveVariant VariantID             `json:"activeVariant"`
	Variants      map[VariantID]Variant `json:"variants"`
	Platforms     []PlatformID          `json:"platforms"`
	Preview       PlatformID            `json:"preview"`
	Schedule      Schedule              `json:"schedule"`
	Signals       Signals               `json:"signals"`
	Authenticated bool                  `json:"authenticated"`
}

// Snapshot returns a copy of the current state.
func (c *Composer) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	variants := make(map[VariantID]Variant, len(c.variants))
	for id, v := range c.variants {
		variants[id] = *v
	}
	return View{
		ActiveVariant: c.active,
		Variants:      variants,
		Platforms:     append([]PlatformID(nil), c.platforms...),
		Preview:       c.preview,
		Schedule:      c.schedule,
		Signals:       c.signals,
		Authenticated: c.session != nil,
	}
}

// SetText replaces the active variant's text. A manual edit supersedes any
// in-flight assist for the variant and clears its error marker.
func (c *Composer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.variants[c.active]
	v.Text = text
	v.LastError = ""
	v.seq++
	c.recompute()
}

// SetMedia replaces the active variant's media reference.
func (c *Composer) SetMedia(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variants[c.active].MediaRef = ref
	c.recompute()
}

// SwitchVariant makes the given variant active and recomputes signals.
func (c *Composer) SwitchVariant(id VariantID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.variants[id]; !ok {
		return
	}
	c.active = id
	c.recompute()
}

// CopyVariant overwrites the inactive variant with a copy of the active
// one's contents and switches to it. The copies are independently mutable
// afterward; contents are never merged.
func (c *Composer) CopyVariant() {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.variants[c.active]
	other := c.active.Other()
	dst := c.variants[other]
	dst.Text = src.Text
	dst.MediaRef = src.MediaRef
	dst.LastError = ""
	dst.seq++
	c.active = other
	c.recompute()
}

// TogglePlatform adds or removes a publish target. Removing the currently
// previewed platform moves the preview to the first remaining target.
func (c *Composer) TogglePlatform(id PlatformID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.platforms {
		if p == id {
			c.platforms = append(c.platforms[:i], c.platforms[i+1:]...)
			if c.preview == id && len(c.platforms) > 0 {
				c.preview = c.platforms[0]
			}
			c.recompute()
			return
		}
	}
	c.platforms = append(c.platforms, id)
	c.preview = id
	c.recompute()
}

// SetPreview selects the platform whose limits drive the derived signals.
func (c *Composer) SetPreview(id PlatformID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = id
	c.recompute()
}

// SetSchedule replaces the scheduling intent.
func (c *Composer) SetSchedule(s Schedule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schedule = s
}

// Schedule returns the current scheduling intent.
func (c *Composer) Schedule() Schedule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schedule
}

// SetSession installs the credential produced by a completed OAuth exchange.
// Written once per exchange; read-only for adapters.
func (c *Composer) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Targets returns the selected publish platforms.
func (c *Composer) Targets() []PlatformID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]PlatformID(nil), c.platforms...)
}

// ApplyAssist runs one generation call against the active variant and
// applies the result in place. On failure the variant's text is left
// untouched and LastError carries the message. A response that arrives
// after a newer assist or a manual edit is discarded with
// ErrAssistSuperseded.
func (c *Composer) ApplyAssist(ctx context.Context, mode, tone string) (string, error) {
	c.mu.Lock()
	vid := c.active
	v := c.variants[vid]
	text := v.Text
	preview := c.preview
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return "", NewError(KindPreconditionNotMet, "assist requires non-empty input", nil)
	}
	v.seq++
	reqID := v.seq
	c.mu.Unlock()

	instruction := c.build(mode, tone, preview, text)
	result, err := c.gen.Generate(ctx, instruction, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if v.seq != reqID {
		c.logger.Debug("discarding stale assist response", "variant", vid, "request_id", reqID)
		return "", ErrAssistSuperseded
	}
	if err != nil {
		v.LastError = err.Error()
		c.notify(Event{Type: "assist", Variant: vid, Success: false, Detail: err.Error()})
		return "", err
	}

	v.Text = result
	v.LastError = ""
	if vid == c.active {
		c.recompute()
	}
	c.notify(Event{Type: "assist", Variant: vid, Success: true, Detail: mode})
	return result, nil
}

// DispatchPublish publishes the active variant to one platform and returns
// the outcome. It never rolls back and never coordinates across platforms.
func (c *Composer) DispatchPublish(ctx context.Context, id PlatformID) Outcome {
	c.mu.Lock()
	v := *c.variants[c.active]
	session := c.session
	schedule := c.schedule
	c.mu.Unlock()

	if err := schedule.Validate(); err != nil {
		return c.failedDispatch(id, err)
	}
	if strings.TrimSpace(v.Text) == "" {
		return c.failedDispatch(id, NewError(KindPreconditionNotMet, "nothing to publish", nil))
	}

	out := c.registry.Dispatch(ctx, id, v, session)
	c.notify(Event{Type: "publish", Platform: id, Success: out.Success, Detail: outcomeDetail(out)})
	return out
}

// DispatchAll fans the active variant out to every selected platform. Each
// dispatch is independent; partial success is the expected failure mode and
// no outcome suppresses or rolls back another. Outcomes are returned in
// target order.
func (c *Composer) DispatchAll(ctx context.Context) []Outcome {
	targets := c.Targets()
	outcomes := make([]Outcome, len(targets))

	var wg sync.WaitGroup
	for i, id := range targets {
		wg.Add(1)
		go func(i int, id PlatformID) {
			defer wg.Done()
			outcomes[i] = c.DispatchPublish(ctx, id)
		}(i, id)
	}
	wg.Wait()
	return outcomes
}

// ActiveVariant returns a copy of the active variant.
func (c *Composer) ActiveVariant() (VariantID, Variant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, *c.variants[c.active]
}

// Signals returns the current derived signals.
func (c *Composer) Signals() Signals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signals
}

func (c *Composer) failedDispatch(id PlatformID, err error) Outcome {
	de, ok := err.(*Error)
	if !ok {
		de = NewError(KindPreconditionNotMet, "dispatch refused", err)
	}
	var out Outcome
	if p, lookupErr := LookupPlatform(id); lookupErr == nil {
		out = FailedOutcome(p, de)
	} else {
		out = Outcome{Platform: id, Err: de}
	}
	c.notify(Event{Type: "publish", Platform: id, Success: false, Detail: de.Message})
	return out
}

// recompute refreshes derived signals from the active variant. Called with
// the lock held.
func (c *Composer) recompute() {
	preview, err := LookupPlatform(c.preview)
	if err != nil {
		preview = Platforms[PlatformInstagram]
	}
	c.signals = ComputeSignals(*c.variants[c.active], preview)
}

func (c *Composer) notify(e Event) {
	if c.notifier == nil {
		return
	}
	e.At = time.Now().UTC()
	c.notifier.Notify(e)
}

func outcomeDetail(out Outcome) string {
	if out.Err != nil {
		return out.Err.Message
	}
	return ""
}
