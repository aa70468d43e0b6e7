package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", "42", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", "42", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken("other", token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", "42", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("secret", token)
	assert.Error(t, err)
}
