package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	tok, err := m.Issue(Principal{UserID: "u1", Email: "a@b.in", Role: "admin"})
	require.NoError(t, err)

	p, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "u1", Email: "a@b.in", Role: "admin"}, p)
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	tok, err := m.Issue(Principal{UserID: "u1", Role: "citizen"})
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "hunter22"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword("", "hunter22"))
}

func TestParseTokenInfo(t *testing.T) {
	id, err := parseTokenInfo(tokenInfo{Aud: "cid", Email: "a@b.in", Name: "A"}, "cid")
	require.NoError(t, err)
	assert.Equal(t, "a@b.in", id.Email)

	_, err = parseTokenInfo(tokenInfo{Aud: "other", Email: "a@b.in"}, "cid")
	assert.ErrorIs(t, err, ErrGoogleAudience)

	_, err = parseTokenInfo(tokenInfo{Aud: "other", Email: "a@b.in"}, "")
	assert.NoError(t, err)

	_, err = parseTokenInfo(tokenInfo{Email: ""}, "")
	assert.ErrorIs(t, err, ErrGoogleToken)
}

func TestGoogleVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"aud":"cid","email":"x@y.in","email_verified":"true","name":"X"}`))
	}))
	defer srv.Close()

	v := GoogleVerifier{ClientID: "cid", BaseURL: srv.URL}
	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, GoogleIdentity{Email: "x@y.in", Name: "X"}, id)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrGoogleToken)
}
