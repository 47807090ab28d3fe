package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-auth-service/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	t.Parallel()

	_, err := NewService("", time.Hour)
	require.Error(t, err)

	_, err = NewService("secret", 0)
	require.Error(t, err)

	svc, err := NewService("secret", 24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestIssueAndSubjectOf(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	for _, subject := range []string{"alice", "bob", "user with spaces", "ünïcode"} {
		tok, err := svc.Issue(subject, nil)
		require.NoError(t, err)
		require.Len(t, strings.Split(tok, "."), 3)

		got, err := svc.SubjectOf(tok)
		require.NoError(t, err)
		require.Equal(t, subject, got)
	}
}

func TestIssueExtraClaims(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	tok, err := svc.Issue("alice", map[string]any{"country": "CR", "sub": "mallory"})
	require.NoError(t, err)

	// Core claims always win over extras.
	subject, err := svc.SubjectOf(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)

	country, err := Claim(svc, tok, func(claims jwt.MapClaims) (string, error) {
		value, _ := claims["country"].(string)
		return value, nil
	})
	require.NoError(t, err)
	require.Equal(t, "CR", country)
}

func TestSubjectOfTamperedSignature(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	tok, err := svc.Issue("alice", nil)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	signature := []byte(parts[2])
	if signature[0] == 'A' {
		signature[0] = 'B'
	} else {
		signature[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(signature)

	_, err = svc.SubjectOf(tampered)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestSubjectOfWrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewService("right-secret", time.Hour)
	require.NoError(t, err)
	verifier, err := NewService("wrong-secret", time.Hour)
	require.NoError(t, err)

	tok, err := issuer.Issue("alice", nil)
	require.NoError(t, err)

	_, err = verifier.SubjectOf(tok)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestSubjectOfMalformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d", "not.a.jwt"} {
		_, err := svc.SubjectOf(bad)
		require.ErrorIs(t, err, model.ErrInvalidToken, "token %q", bad)
	}
}

func TestSubjectOfRejectsUnsignedAlg(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.SubjectOf(unsigned)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	tok, err := svc.Issue("alice", nil)
	require.NoError(t, err)

	require.True(t, svc.IsValid(tok, "alice"))
	require.False(t, svc.IsValid(tok, "bob"))
	require.False(t, svc.IsValid("garbage", "alice"))
}

func TestIsValidExpired(t *testing.T) {
	t.Parallel()

	expired := &Service{secret: []byte("test-secret"), validity: -time.Second}

	tok, err := expired.Issue("alice", nil)
	require.NoError(t, err)

	// Signature still verifies; only the expiry comparison fails.
	subject, err := expired.SubjectOf(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)

	require.False(t, expired.IsValid(tok, "alice"))
}

func TestExpiresAt(t *testing.T) {
	t.Parallel()

	svc, err := NewService("test-secret", 24*time.Hour)
	require.NoError(t, err)

	before := time.Now().Add(24 * time.Hour).Add(-time.Minute)
	tok, err := svc.Issue("alice", nil)
	require.NoError(t, err)
	after := time.Now().Add(24 * time.Hour).Add(time.Minute)

	expiresAt, err := svc.ExpiresAt(tok)
	require.NoError(t, err)
	require.True(t, expiresAt.After(before))
	require.True(t, expiresAt.Before(after))
}

func TestClaimSelectorError(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	tok, err := svc.Issue("alice", nil)
	require.NoError(t, err)

	wantErr := errors.New("claim missing")
	_, err = Claim(svc, tok, func(claims jwt.MapClaims) (int, error) {
		return 0, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}
