package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, isAdmin, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.True(t, isAdmin)
}

func TestManager_ParseRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(1, false)
	require.NoError(t, err)

	_, _, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(1, false)
	require.NoError(t, err)

	_, _, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, _, err := m.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
