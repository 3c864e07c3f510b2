package httpserver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emarketbank/jimmy-agent/internal/adapter/httpserver"
)

func TestHashAndVerifyToken(t *testing.T) {
	t.Parallel()
	hash, err := httpserver.HashToken("super-secret-admin-token", httpserver.DefaultArgon2Params())
	require.NoError(t, err)
	assert.Contains(t, hash, "argon2id$")

	assert.True(t, httpserver.VerifyToken("super-secret-admin-token", hash))
	assert.False(t, httpserver.VerifyToken("wrong-token", hash))
}

func TestHashToken_UniqueSalts(t *testing.T) {
	t.Parallel()
	h1, err := httpserver.HashToken("same-token", httpserver.DefaultArgon2Params())
	require.NoError(t, err)
	h2, err := httpserver.HashToken("same-token", httpserver.DefaultArgon2Params())
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.True(t, httpserver.VerifyToken("same-token", h1))
	assert.True(t, httpserver.VerifyToken("same-token", h2))
}

func TestVerifyToken_MalformedHash(t *testing.T) {
	t.Parallel()
	assert.False(t, httpserver.VerifyToken("token", ""))
	assert.False(t, httpserver.VerifyToken("token", "not-a-hash"))
	assert.False(t, httpserver.VerifyToken("token", "argon2id$x$y$z$salt$hash"))
	assert.False(t, httpserver.VerifyToken("token", "bcrypt$1$2$3$salt$hash"))
}
