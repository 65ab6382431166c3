package auth

import (
	"testing"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue(7, domain.RoleStaff)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	identity, err := manager.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), identity.UserID)
	assert.Equal(t, domain.RoleStaff, identity.Role)
}

func TestTokenManager_Parse_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(7, domain.RoleAdmin)
	assert.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenManager_Parse_Expired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue(7, domain.RoleClient)
	assert.NoError(t, err)

	_, err = manager.Parse(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenManager_Parse_Garbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	_, err := manager.Parse("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPassword("secret", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
