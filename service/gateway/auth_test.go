package gateway

import (
	"net/http/httptest"
	"testing"
	"time"

	"FamilyHub/tools/errs"
	"FamilyHub/tools/security"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("handshake-test-secret")

func signToken(t *testing.T, userID string) string {
	t.Helper()
	tok, _, err := security.Generate(security.DefaultOptions(testSecret), userID, userID+"@example.com", "member")
	require.NoError(t, err)
	return tok
}

func expiredToken(t *testing.T, userID string) string {
	t.Helper()
	now := time.Now().Add(-2 * time.Hour)
	claims := jwtlib.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return tok
}

func TestExtractCredentialPrecedence(t *testing.T) {
	a := NewHandshakeAuth(testSecret)

	tests := []struct {
		name   string
		query  string
		header map[string]string
		want   string
	}{
		{name: "query wins over everything", query: "tok-query", header: map[string]string{"X-Auth-Token": "tok-payload", "Authorization": "Bearer tok-bearer"}, want: "tok-query"},
		{name: "auth payload beats bearer", header: map[string]string{"X-Auth-Token": "tok-payload", "Authorization": "Bearer tok-bearer"}, want: "tok-payload"},
		{name: "bearer as last resort", header: map[string]string{"Authorization": "Bearer tok-bearer"}, want: "tok-bearer"},
		{name: "bearer is case-insensitive", header: map[string]string{"Authorization": "bearer tok-bearer"}, want: "tok-bearer"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			url := "/ws/notifications"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest("GET", url, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			got, err := a.ExtractCredential(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractCredentialMissing(t *testing.T) {
	a := NewHandshakeAuth(testSecret)
	req := httptest.NewRequest("GET", "/ws/notifications", nil)
	_, err := a.ExtractCredential(req)
	assert.ErrorIs(t, err, errs.ErrNoCredential)

	// a non-bearer Authorization header does not count
	req.Header.Set("Authorization", "Basic abc")
	_, err = a.ExtractCredential(req)
	assert.ErrorIs(t, err, errs.ErrNoCredential)
}

func TestResolveIdentity(t *testing.T) {
	a := NewHandshakeAuth(testSecret)

	id, err := a.Resolve(signToken(t, "7"))
	require.NoError(t, err)
	assert.Equal(t, "7", id.UserID)
	assert.Equal(t, "7@example.com", id.Email)
	assert.Equal(t, "member", id.Role)
	assert.False(t, id.Elevated())
}

func TestResolveRejectsBadCredentials(t *testing.T) {
	a := NewHandshakeAuth(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expiredToken(t, "7")},
		{name: "malformed", token: "not-a-jwt"},
		{name: "wrong secret", token: func() string {
			tok, _, err := security.Generate(security.DefaultOptions([]byte("other-secret")), "7", "", "")
			require.NoError(t, err)
			return tok
		}()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Resolve(tc.token)
			assert.ErrorIs(t, err, errs.ErrInvalidCredential)
		})
	}
}
