package domain

import "time"

// VariantID names one of the two parallel drafts of a post.
type VariantID string

const (
	VariantA VariantID = "A"
	VariantB VariantID = "B"
)

// Other returns the opposite variant id.
func (v VariantID) Other() VariantID {
	if v == VariantA {
		return VariantB
	}
	return VariantA
}

// Variant is one editable draft of the post-in-progress. Content and
// diagnostics are kept separate: a failed assist sets LastError and never
// overwrites Text.
type Variant struct {
	Text     string `json:"text"`
	MediaRef string `json:"mediaRef,omitempty"`

	// LastError holds the message of the most recent failed assist for
	// this variant, cleared on the next successful assist or manual edit.
	LastError string `json:"lastError,omitempty"`

	// seq is the id of the newest assist request issued for this variant.
	// A response is applied only if its request id still equals seq;
	// manual edits also bump seq so stale responses are discarded.
	seq uint64
}

// Session is a platform credential produced by a completed OAuth exchange.
// It is passed explicitly to the dispatcher and adapters, never re-derived
// from ambient state.
type Session struct {
	// AccessToken is the bearer credential. Treated as opaque.
	AccessToken string `json:"accessToken"`

	// ActorURN is the stable identifier of the authenticated member,
	// derived from the provider's profile endpoint.
	ActorURN string `json:"actorUrn"`
}

// Draft is a saved copy of a variant's content, outside the live composer.
type Draft struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	MediaRef  string    `json:"mediaRef,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScheduledPostStatus tracks a scheduled post through dispatch.
type ScheduledPostStatus string

const (
	ScheduledPending ScheduledPostStatus = "pending"
	ScheduledSent    ScheduledPostStatus = "sent"
	ScheduledFailed  ScheduledPostStatus = "failed"
)

// ScheduledPost is a post armed for a future launch window.
type ScheduledPost struct {
	ID        string              `json:"id"`
	Platforms []PlatformID        `json:"platforms"`
	Text      string              `json:"text"`
	MediaRef  string              `json:"mediaRef,omitempty"`
	LaunchAt  time.Time           `json:"launchAt"`
	Status    ScheduledPostStatus `json:"status"`
	Error     string              `json:"error,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
