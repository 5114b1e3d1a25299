// Package simulate provides publish adapters for platforms without a live
// integration. A simulated publish performs no network call: after a fixed
// artificial delay it reports success unconditionally. The distinction from
// live adapters is carried by Platform().LiveIntegration, not by timing.
package simulate

import (
	"context"
	"time"

	"github.com/dinoai/omnicast/internal/domain"
)

// DefaultDelay matches the dashboard's simulated broadcast duration.
const DefaultDelay = 2500 * time.Millisecond

// Adapter is a simulated publish adapter for one platform.
type Adapter struct {
	platform domain.Platform
	delay    time.Duration
}

// NewAdapter creates a simulated adapter. A negative delay falls back to
// DefaultDelay; zero is allowed for tests.
func NewAdapter(id domain.PlatformID, delay time.Duration) (*Adapter, error) {
	p, err := domain.LookupPlatform(id)
	if err != nil {
		return nil, err
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Adapter{platform: p, delay: delay}, nil
}

// Platform implements domain.Adapter. LiveIntegration is always false here.
func (a *Adapter) Platform() domain.Platform { return a.platform }

// Publish waits out the artificial delay and succeeds. Cancellation is the
// only failure mode.
func (a *Adapter) Publish(ctx context.Context, _ domain.Variant, _ *domain.Session) domain.Outcome {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.FailedOutcome(a.platform, domain.NewError(
				domain.KindPublishRejected, "simulated publish cancelled", ctx.Err()))
		case <-timer.C:
		}
	}
	return domain.Outcome{Platform: a.platform.ID, Live: false, Success: true}
}
