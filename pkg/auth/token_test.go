package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret", 0)
	token, err := svc.Issue(42)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	svc := NewTokenService("secret", 0, WithClock(func() time.Time { return now }))

	token, err := svc.Issue(1)
	require.NoError(t, err)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenService_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	svc := NewTokenService("secret", 10*time.Minute, WithClock(func() time.Time { return clock() }))

	token, err := svc.Issue(7)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock = func() time.Time { return now.Add(11 * time.Minute) }
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_IssueWithTTL(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret", time.Hour)
	token, err := svc.IssueWithTTL(3, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_Rejects(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret", time.Hour)
	valid, err := svc.Issue(5)
	require.NoError(t, err)

	other, err := NewTokenService("other-secret", time.Hour).Issue(5)
	require.NoError(t, err)

	// flip the first character of the signature
	sigStart := strings.LastIndex(valid, ".") + 1
	replacement := "A"
	if valid[sigStart] == 'A' {
		replacement = "B"
	}
	tampered := valid[:sigStart] + replacement + valid[sigStart+1:]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "5",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered signature", tampered},
		{"wrong secret", other},
		{"none algorithm", none},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tt *testing.T) {
			_, err := svc.Verify(tc.token)
			require.Error(tt, err)
			assert.ErrorIs(tt, err, ErrInvalidToken)
			assert.NotErrorIs(tt, err, ErrTokenExpired)
		})
	}
}

func TestClaims_SubjectID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		subject string
		id      int
		ok      bool
	}{
		{"numeric", "12", 12, true},
		{"missing", "", 0, false},
		{"non-numeric", "alice", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tt *testing.T) {
			claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: tc.subject}}
			id, err := claims.SubjectID()
			if !tc.ok {
				require.Error(tt, err)
				assert.True(tt, errors.Is(err, ErrInvalidToken))
				return
			}
			require.NoError(tt, err)
			assert.Equal(tt, tc.id, id)
		})
	}
}
