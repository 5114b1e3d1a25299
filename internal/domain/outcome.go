package domain

import "encoding/json"

// Outcome is the result of one publish attempt against one platform.
// Outcomes from a fan-out publish are independent: one platform failing
// neither suppresses nor rolls back the others.
type Outcome struct {
	Platform PlatformID

	// Live reports whether the attempt went to a real provider. Mirrors
	// Platform.LiveIntegration at dispatch time.
	Live bool

	Success bool

	// Response is the provider's response payload on success (live
	// adapters only).
	Response json.RawMessage

	// Err classifies the failure when Success is false.
	Err *Error
}

// FailedOutcome builds a failure outcome for a platform.
func FailedOutcome(p Platform, err *Error) Outcome {
	return Outcome{Platform: p.ID, Live: p.LiveIntegration, Success: false, Err: err}
}
