package generate

import "context"

// StubClient is a provider client that applies a local transform instead of
// calling any model. Used in tests and the CLI's dry-run mode.
type StubClient struct {
	// Transform maps the raw user text to the "generated" output. When
	// nil the user text is echoed back.
	Transform func(userText string) string

	// Err, when set, is returned from every call.
	Err error
}

func (s *StubClient) Name() string { return "stub" }

func (s *StubClient) Complete(_ context.Context, _, userText string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if s.Transform == nil {
		return userText, nil
	}
	return s.Transform(userText), nil
}
