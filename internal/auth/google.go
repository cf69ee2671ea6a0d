package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var (
	ErrGoogleToken    = errors.New("invalid google token")
	ErrGoogleAudience = errors.New("invalid client id")
)

type GoogleIdentity struct {
	Email string
	Name  string
}

// GoogleVerifier checks Google ID tokens against the tokeninfo endpoint.
type GoogleVerifier struct {
	ClientID string
	BaseURL  string
	Client   *http.Client
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

func (g GoogleVerifier) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	if strings.TrimSpace(idToken) == "" {
		return GoogleIdentity{}, ErrGoogleToken
	}
	if g.Client == nil {
		g.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if g.BaseURL == "" {
		g.BaseURL = defaultTokenInfoURL
	}

	endpoint := fmt.Sprintf("%s?id_token=%s", g.BaseURL, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return GoogleIdentity{}, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GoogleIdentity{}, ErrGoogleToken
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return GoogleIdentity{}, fmt.Errorf("decode tokeninfo: %w", err)
	}
	return parseTokenInfo(info, g.ClientID)
}

func parseTokenInfo(info tokenInfo, clientID string) (GoogleIdentity, error) {
	if clientID != "" && info.Aud != clientID {
		return GoogleIdentity{}, ErrGoogleAudience
	}
	if info.Email == "" {
		return GoogleIdentity{}, ErrGoogleToken
	}
	if info.EmailVerified == "false" {
		return GoogleIdentity{}, ErrGoogleToken
	}
	return GoogleIdentity{Email: info.Email, Name: info.Name}, nil
}
