package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", 120)

	token, expiresAt, err := tm.GenerateToken("u1", domain.RoleSupportStaff)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(120*time.Minute), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleSupportStaff, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("secret-a", 120).GenerateToken("u1", domain.RoleUser)
	assert.NoError(t, err)

	_, err = auth.NewTokenManager("secret-b", 120).ParseToken(token)
	assert.Error(t, err)
}

func TestEmptySecretIsServerFault(t *testing.T) {
	tm := auth.NewTokenManager("", 120)

	_, _, err := tm.GenerateToken("u1", domain.RoleUser)
	var domainErr *apperrors.DomainError
	if assert.ErrorAs(t, err, &domainErr) {
		assert.Equal(t, "SERVER_FAULT", domainErr.Code)
	}

	_, err = tm.ParseToken("anything")
	if assert.ErrorAs(t, err, &domainErr) {
		assert.Equal(t, "SERVER_FAULT", domainErr.Code)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.NoError(t, auth.ComparePassword(hash, "hunter2hunter2"))
	assert.Error(t, auth.ComparePassword(hash, "hunter3hunter3"))
}
