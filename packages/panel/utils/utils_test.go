package utils

import (
	"testing"

	"panel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPIN(t *testing.T) {
	hash, err := HashPIN("4321")
	require.NoError(t, err)
	assert.NotEqual(t, "4321", hash)

	assert.True(t, CheckPIN("4321", hash))
	assert.False(t, CheckPIN("1234", hash))
	assert.False(t, CheckPIN("", hash))
}

func TestHashPINProducesDistinctHashes(t *testing.T) {
	first, err := HashPIN("0000")
	require.NoError(t, err)
	second, err := HashPIN("0000")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPIN("0000", first))
	assert.True(t, CheckPIN("0000", second))
}

func TestGenerateAndValidateToken(t *testing.T) {
	panel := models.Panel{
		ID:   42,
		Name: "court-1-panel",
	}

	token, err := GenerateToken(panel)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.PanelID)
	assert.Equal(t, "court-1-panel", claims.PanelName)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken(models.Panel{ID: 1, Name: "front-desk"})
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "aaaa"
	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}
