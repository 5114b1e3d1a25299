package linkedin_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinoai/omnicast/internal/domain"
	"github.com/dinoai/omnicast/internal/linkedin"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider stands in for both the LinkedIn auth host and API host.
type fakeProvider struct {
	srv *httptest.Server

	tokenStatus   int
	profileStatus int
	postStatus    int

	lastPostBody   []byte
	lastPostHeader http.Header
	apiCalls       atomic.Int64
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{
		tokenStatus:   http.StatusOK,
		profileStatus: http.StatusOK,
		postStatus:    http.StatusCreated,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/v2/accessToken", func(w http.ResponseWriter, r *http.Request) {
		p.apiCalls.Add(1)
		require.NoError(t, r.ParseForm())
		if p.tokenStatus != http.StatusOK {
			w.WriteHeader(p.tokenStatus)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "test-client", r.Form.Get("client_id"))
		assert.Equal(t, "test-secret", r.Form.Get("client_secret"))
		w.Write([]byte(`{"access_token":"provider-token","expires_in":5184000}`))
	})
	mux.HandleFunc("GET /v2/me", func(w http.ResponseWriter, r *http.Request) {
		p.apiCalls.Add(1)
		if p.profileStatus != http.StatusOK {
			w.WriteHeader(p.profileStatus)
			return
		}
		assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"AbC123"}`))
	})
	mux.HandleFunc("POST /v2/ugcPosts", func(w http.ResponseWriter, r *http.Request) {
		p.apiCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		p.lastPostBody = body
		p.lastPostHeader = r.Header.Clone()
		if p.postStatus != http.StatusCreated {
			w.WriteHeader(p.postStatus)
			w.Write([]byte(`{"message":"forbidden"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"urn:li:share:999"}`))
	})

	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) client() *linkedin.Client {
	return linkedin.NewClient(linkedin.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURI:  "http://localhost:5000/auth/linkedin/callback",
		AuthBase:     p.srv.URL,
		APIBase:      p.srv.URL,
	})
}

func TestAuthURL(t *testing.T) {
	client := linkedin.NewClient(linkedin.Config{
		ClientID:    "test-client",
		RedirectURI: "http://localhost:5000/auth/linkedin/callback",
	})

	raw := client.AuthURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "www.linkedin.com", u.Host)
	assert.Equal(t, "/oauth/v2/authorization", u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "test-client", q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "w_member_social r_liteprofile", q.Get("scope"))
}

func TestAuthorize(t *testing.T) {
	provider := newFakeProvider(t)

	session, err := provider.client().Authorize(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "provider-token", session.AccessToken)
	assert.Equal(t, "urn:li:person:AbC123", session.ActorURN)
}

func TestAuthorizeExchangeFailure(t *testing.T) {
	provider := newFakeProvider(t)
	provider.tokenStatus = http.StatusBadRequest

	session, err := provider.client().Authorize(context.Background(), "bad-code")
	require.Error(t, err)
	assert.Nil(t, session)
	assert.Equal(t, domain.KindAuthExchangeFailed, domain.KindOf(err))
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestAuthorizeProfileFailure(t *testing.T) {
	provider := newFakeProvider(t)
	provider.profileStatus = http.StatusUnauthorized

	// No partial session when the profile leg fails after a good exchange.
	session, err := provider.client().Authorize(context.Background(), "good-code")
	require.Error(t, err)
	assert.Nil(t, session)
	assert.Equal(t, domain.KindAuthExchangeFailed, domain.KindOf(err))
}

func TestSessionManagerFlow(t *testing.T) {
	provider := newFakeProvider(t)
	m := linkedin.NewSessionManager(provider.client(), discardLogger())

	authURL := m.Begin()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	session, err := m.Complete(context.Background(), state, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:person:AbC123", session.ActorURN)

	// The state token is single-use.
	_, err = m.Complete(context.Background(), state, "good-code")
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthExchangeFailed, domain.KindOf(err))
}

func TestSessionManagerStateSingleUseUnderConcurrency(t *testing.T) {
	provider := newFakeProvider(t)
	m := linkedin.NewSessionManager(provider.client(), discardLogger())

	u, err := url.Parse(m.Begin())
	require.NoError(t, err)
	state := u.Query().Get("state")

	const callers = 8
	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Complete(context.Background(), state, "good-code"); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	// Exactly one callback may consume the token.
	assert.Equal(t, int64(1), successes.Load())
}

func TestSessionManagerStatesAreUnique(t *testing.T) {
	provider := newFakeProvider(t)
	m := linkedin.NewSessionManager(provider.client(), discardLogger())

	first, err := url.Parse(m.Begin())
	require.NoError(t, err)
	second, err := url.Parse(m.Begin())
	require.NoError(t, err)
	assert.NotEqual(t, first.Query().Get("state"), second.Query().Get("state"))
}

func TestSessionManagerRejectsUnknownState(t *testing.T) {
	provider := newFakeProvider(t)
	m := linkedin.NewSessionManager(provider.client(), discardLogger())

	_, err := m.Complete(context.Background(), "forged-state", "code")
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthExchangeFailed, domain.KindOf(err))
	assert.Equal(t, int64(0), provider.apiCalls.Load())
}

func TestSessionManagerRejectsMissingCode(t *testing.T) {
	provider := newFakeProvider(t)
	m := linkedin.NewSessionManager(provider.client(), discardLogger())

	u, err := url.Parse(m.Begin())
	require.NoError(t, err)

	_, err = m.Complete(context.Background(), u.Query().Get("state"), "")
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthExchangeFailed, domain.KindOf(err))
	assert.Equal(t, int64(0), provider.apiCalls.Load())
}

func TestAdapterPublish(t *testing.T) {
	provider := newFakeProvider(t)
	adapter := linkedin.NewAdapter(provider.client())
	session := &domain.Session{AccessToken: "provider-token", ActorURN: "urn:li:person:AbC123"}

	out := adapter.Publish(context.Background(), domain.Variant{Text: "Hello network"}, session)
	require.True(t, out.Success)
	assert.True(t, out.Live)
	assert.Equal(t, domain.PlatformLinkedIn, out.Platform)
	assert.JSONEq(t, `{"id":"urn:li:share:999"}`, string(out.Response))

	// Envelope and headers match the UGC post schema.
	assert.Equal(t, "2.0.0", provider.lastPostHeader.Get("X-Restli-Protocol-Version"))
	assert.Equal(t, "Bearer provider-token", provider.lastPostHeader.Get("Authorization"))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(provider.lastPostBody, &envelope))
	assert.Equal(t, "urn:li:person:AbC123", envelope["author"])
	assert.Equal(t, "PUBLISHED", envelope["lifecycleState"])

	body := string(provider.lastPostBody)
	assert.Contains(t, body, `"com.linkedin.ugc.ShareContent"`)
	assert.Contains(t, body, `"shareMediaCategory":"NONE"`)
	assert.Contains(t, body, `"com.linkedin.ugc.MemberNetworkVisibility":"PUBLIC"`)
	assert.Contains(t, body, `"text":"Hello network"`)
}

func TestAdapterPublishRejected(t *testing.T) {
	provider := newFakeProvider(t)
	provider.postStatus = http.StatusForbidden
	adapter := linkedin.NewAdapter(provider.client())
	session := &domain.Session{AccessToken: "provider-token", ActorURN: "urn:li:person:AbC123"}

	out := adapter.Publish(context.Background(), domain.Variant{Text: "nope"}, session)
	require.False(t, out.Success)
	assert.Equal(t, domain.KindPublishRejected, out.Err.Kind)
	assert.Contains(t, out.Err.Error(), "forbidden")
}

func TestAdapterPublishWithoutSession(t *testing.T) {
	provider := newFakeProvider(t)
	adapter := linkedin.NewAdapter(provider.client())

	for _, session := range []*domain.Session{
		nil,
		{AccessToken: "", ActorURN: "urn:li:person:x"},
		{AccessToken: "tok", ActorURN: ""},
	} {
		out := adapter.Publish(context.Background(), domain.Variant{Text: "hi"}, session)
		require.False(t, out.Success)
		assert.Equal(t, domain.KindPreconditionNotMet, out.Err.Kind)
	}
	// Refusal happens before any network call.
	assert.Equal(t, int64(0), provider.apiCalls.Load())
}
