// Package linkedin implements the one live platform integration: the OAuth
// authorization-code flow and the UGC post API.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dinoai/omnicast/internal/domain"
)

const (
	defaultAuthBase = "https://www.linkedin.com"
	defaultAPIBase  = "https://api.linkedin.com"

	// authScope covers posting on the member's behalf plus the profile
	// read needed to derive the actor URN.
	authScope = "w_member_social r_liteprofile"
)

// Config holds the OAuth application credentials. AuthBase and APIBase
// default to the public LinkedIn endpoints when empty.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthBase     string
	APIBase      string
}

// Client is a minimal LinkedIn API client covering the authorization-code
// exchange, the profile lookup, and UGC post creation.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a LinkedIn API client.
func NewClient(cfg Config) *Client {
	if cfg.AuthBase == "" {
		cfg.AuthBase = defaultAuthBase
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthURL builds the provider consent URL for one authorization attempt.
// state must be unique per attempt and is verified on callback.
func (c *Client) AuthURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("state", state)
	q.Set("scope", authScope)
	return c.cfg.AuthBase + "/oauth/v2/authorization?" + q.Encode()
}

// ExchangeCode swaps an authorization code for an access token via the
// server-to-server token endpoint.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.AuthBase+"/oauth/v2/accessToken", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", fmt.Errorf("exchange code: no access_token in response")
	}
	return token, nil
}

// Profile fetches the authenticated member's profile and derives the stable
// actor URN used as post author.
func (c *Client) Profile(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIBase+"/v2/me", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("fetch profile: %w", err)
	}

	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return "", fmt.Errorf("fetch profile: no id in response")
	}
	return "urn:li:person:" + id, nil
}

// Authorize runs the full exchange leg: code → token → actor URN. Both calls
// must succeed together; no partial session is ever returned.
func (c *Client) Authorize(ctx context.Context, code string) (*domain.Session, error) {
	token, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return nil, domain.NewError(domain.KindAuthExchangeFailed, "authorization code exchange failed", err)
	}
	urn, err := c.Profile(ctx, token)
	if err != nil {
		return nil, domain.NewError(domain.KindAuthExchangeFailed, "profile lookup failed", err)
	}
	return &domain.Session{AccessToken: token, ActorURN: urn}, nil
}

// ugcPost is the provider envelope for a text share.
type ugcPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    commentary `json:"shareCommentary"`
	ShareMediaCategory string     `json:"shareMediaCategory"`
}

type commentary struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// PostShare publishes a text post as the session's actor and returns the
// provider's response payload. Failure carries the provider's error body
// verbatim.
func (c *Client) PostShare(ctx context.Context, text string, session *domain.Session) (json.RawMessage, error) {
	envelope := ugcPost{
		Author:         session.ActorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    commentary{Text: text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: visibility{MemberNetworkVisibility: "PUBLIC"},
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBase+"/v2/ugcPosts", strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("post share: %w", err)
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
