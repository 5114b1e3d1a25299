package domain

import (
	"context"
	"time"
)

// Generator sends a composed instruction to the external generation service
// and returns the extracted text. The instruction already embeds the user's
// raw input; userText is passed alongside so implementations (and test stubs)
// can reference the input without re-parsing the instruction. Implementations
// make at most one outstanding call per invocation: no batching, no streaming.
type Generator interface {
	Generate(ctx context.Context, instruction, userText string) (string, error)
}

// Adapter validates and transforms content into one platform's submission
// schema and performs (or simulates) the network call. Adapters never retry;
// a second publish of the same content is a brand-new attempt.
type Adapter interface {
	// Platform describes the destination, including whether publishing
	// is a live integration or a simulation.
	Platform() Platform

	// Publish submits the variant. session may be nil; live adapters
	// must refuse with a precondition failure before any network call.
	Publish(ctx context.Context, v Variant, session *Session) Outcome
}

// Notifier receives composer and dispatch events for streaming to observers.
// Implementations must not block.
type Notifier interface {
	Notify(e Event)
}

// Event is a single observable occurrence in the publishing pipeline.
type Event struct {
	Type     string     `json:"type"`
	Platform PlatformID `json:"platform,omitempty"`
	Variant  VariantID  `json:"variant,omitempty"`
	Success  bool       `json:"success"`
	Detail   string     `json:"detail,omitempty"`
	At       time.Time  `json:"at"`
}

// DraftRepository defines persistence operations for saved drafts.
type DraftRepository interface {
	// CreateDraft inserts a new draft.
	CreateDraft(ctx context.Context, d *Draft) error

	// ListDrafts retrieves drafts ordered by creation time descending.
	ListDrafts(ctx context.Context) ([]Draft, error)

	// DeleteDraft removes a draft by id.
	DeleteDraft(ctx context.Context, id string) error
}

// ScheduleRepository defines persistence operations for scheduled posts.
type ScheduleRepository interface {
	// CreateScheduledPost inserts a new pending post.
	CreateScheduledPost(ctx context.Context, p *ScheduledPost) error

	// DueScheduledPosts retrieves pending posts whose launch window is at
	// or before now, ordered by launch time ascending.
	DueScheduledPosts(ctx context.Context, now time.Time) ([]ScheduledPost, error)

	// ResolveScheduledPost records the terminal status of a dispatched
	// post, with an error message when it failed.
	ResolveScheduledPost(ctx context.Context, id string, status ScheduledPostStatus, errMsg string) error
}
