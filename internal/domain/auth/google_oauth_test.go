package auth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-agent/pkg/errors"
)

func newGoogleTestService() Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: time.Hour,
		Google: GoogleConfig{
			ClientID:           "client-id",
			ClientSecret:       "client-secret",
			RedirectURL:        "https://faq.example.com/api/v1/auth/google/callback",
			TokenEncryptionKey: "0123456789abcdef0123456789abcdef",
		},
	}, newMemoryRepo(), newTestLogger())
}

func TestGoogleAuthURLCarriesStateAndChallenge(t *testing.T) {
	svc := newGoogleTestService()
	state, verifier, challenge, err := NewOAuthState()
	require.NoError(t, err)
	require.Equal(t, CodeChallengeFromVerifier(verifier), challenge)

	raw, err := svc.GoogleAuthURL(context.Background(), state, challenge)
	require.NoError(t, err)
	target, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", target.Host)
	q := target.Query()
	require.Equal(t, state, q.Get("state"))
	require.Equal(t, challenge, q.Get("code_challenge"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Equal(t, "https://faq.example.com/api/v1/auth/google/callback", q.Get("redirect_uri"))
}

func TestGoogleSignInRequiresConfiguration(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour}, newMemoryRepo(), newTestLogger())

	_, err := svc.GoogleAuthURL(context.Background(), "state", "challenge")
	require.True(t, apperrors.IsCode(err, "auth_not_configured"))

	_, err = svc.GoogleCallback(context.Background(), "code", "verifier")
	require.True(t, apperrors.IsCode(err, "auth_not_configured"))
}

func TestGoogleCallbackRejectsMissingCode(t *testing.T) {
	svc := newGoogleTestService()

	_, err := svc.GoogleCallback(context.Background(), " ", "verifier")
	require.True(t, apperrors.IsCode(err, "invalid_request"))

	_, err = svc.GoogleCallback(context.Background(), "code", "")
	require.True(t, apperrors.IsCode(err, "invalid_request"))
}

func TestCodeChallengeFromVerifier(t *testing.T) {
	// RFC 7636 appendix B
	require.Equal(t, "E9Melhoa2OwvFWFlbiOsbx0ZnHhoZcl2WxjQqGpqrsU",
		CodeChallengeFromVerifier("dBjftJeZ4CVP-mB92K27uhbUJU4p1r_wW1gFWFOEjXk"))
}

func TestRefreshTokenEncryption(t *testing.T) {
	key := "0123456789abcdef"
	sealed, err := encryptToken(key, "1//refresh")
	require.NoError(t, err)
	require.NotContains(t, sealed, "refresh")

	plain, err := decryptToken(key, sealed)
	require.NoError(t, err)
	require.Equal(t, "1//refresh", plain)

	_, err = decryptToken("fedcba9876543210", sealed)
	require.Error(t, err)
	_, err = encryptToken("short", "1//refresh")
	require.Error(t, err)

	empty, err := encryptToken(key, "")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestLogoutWithoutGoogleIdentity(t *testing.T) {
	svc := newGoogleTestService()
	require.NoError(t, svc.Logout(context.Background(), 42))
}
