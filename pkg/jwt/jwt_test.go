package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("s3cret", "user-1", "manager", "warehouse-ledger", 5)
	require.NoError(t, err)

	claims, err := Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "warehouse-ledger", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Generate("s3cret", "user-1", "operator", "warehouse-ledger", 5)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Generate("s3cret", "user-1", "operator", "warehouse-ledger", -1)
	require.NoError(t, err)

	_, err = Parse("s3cret", token)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", "operator", "x", 5)
	assert.Error(t, err)
}

func TestIsManager(t *testing.T) {
	roles := []string{"manager", "admin"}
	assert.True(t, IsManager("Manager", roles))
	assert.True(t, IsManager("admin", roles))
	assert.False(t, IsManager("operator", roles))
	assert.False(t, IsManager("", roles))
}
