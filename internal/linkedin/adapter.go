package linkedin

import (
	"context"

	"github.com/dinoai/omnicast/internal/domain"
)

// Adapter publishes to LinkedIn through the live UGC post API.
type Adapter struct {
	client *Client
}

// NewAdapter creates the LinkedIn publish adapter.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Platform implements domain.Adapter.
func (a *Adapter) Platform() domain.Platform {
	return domain.Platforms[domain.PlatformLinkedIn]
}

// Publish submits the variant's text as a UGC post. A missing session is a
// precondition failure: no network call is attempted. The adapter never
// retries; each call is an independent attempt with no idempotency key.
func (a *Adapter) Publish(ctx context.Context, v domain.Variant, session *domain.Session) domain.Outcome {
	p := a.Platform()
	if session == nil || session.AccessToken == "" || session.ActorURN == "" {
		return domain.FailedOutcome(p, domain.NewError(
			domain.KindPreconditionNotMet, "linkedin requires a connected session", nil))
	}

	resp, err := a.client.PostShare(ctx, v.Text, session)
	if err != nil {
		return domain.FailedOutcome(p, domain.NewError(
			domain.KindPublishRejected, "linkedin rejected the post", err))
	}

	return domain.Outcome{
		Platform: p.ID,
		Live:     true,
		Success:  true,
		Response: resp,
	}
}
