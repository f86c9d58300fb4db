package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("super-secret", time.Hour)

	tok, err := m.Issue("alice", "sess-1")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "sess-1", claims.SessionID())
	assert.Equal(t, "alice", claims.Subject)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := NewManager("secret-one", time.Hour).Issue("alice", "s")
	require.NoError(t, err)

	_, err = NewManager("secret-two", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	m := NewManager("super-secret", time.Minute)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	tok, err := m.Issue("alice", "s")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "s"},
		Username:         "alice",
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("super-secret", time.Hour).Parse(s)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewManager("super-secret", time.Hour).Parse("not-a-token")
	assert.Error(t, err)
}
