package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeVerifier(t *testing.T) {
	t.Run("decodes to correct byte length", func(t *testing.T) {
		verifier, err := generateCodeVerifier()
		require.NoError(t, err)

		decoded, err := base64.RawURLEncoding.DecodeString(verifier)
		require.NoError(t, err)
		assert.Equal(t, codeVerifierLength, len(decoded), "decoded verifier should be exactly 64 bytes")
	})

	t.Run("generates unique verifiers", func(t *testing.T) {
		verifiers := make(map[string]bool)
		for i := 0; i < 100; i++ {
			verifier, err := generateCodeVerifier()
			require.NoError(t, err)
			assert.False(t, verifiers[verifier], "should not generate duplicate verifiers")
			verifiers[verifier] = true
		}
	})

	t.Run("uses base64url encoding without padding", func(t *testing.T) {
		verifier, err := generateCodeVerifier()
		require.NoError(t, err)

		assert.False(t, strings.ContainsAny(verifier, "=+/"), "should be unpadded base64url")
	})
}

func TestGenerateCodeChallenge(t *testing.T) {
	t.Run("produces consistent challenge for same verifier", func(t *testing.T) {
		assert.Equal(t, generateCodeChallenge("test-verifier"), generateCodeChallenge("test-verifier"))
	})

	t.Run("produces different challenges for different verifiers", func(t *testing.T) {
		assert.NotEqual(t, generateCodeChallenge("test-verifier-1"), generateCodeChallenge("test-verifier-2"))
	})

	t.Run("matches RFC 7636 appendix B", func(t *testing.T) {
		verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", generateCodeChallenge(verifier))
	})
}

func TestGenerateState(t *testing.T) {
	state, err := generateState()
	require.NoError(t, err)

	// Base64url encoding of 32 bytes results in 43 characters (no padding)
	assert.Equal(t, 43, len(state))

	other, err := generateState()
	require.NoError(t, err)
	assert.NotEqual(t, state, other, "consecutive calls should produce different states")
}

func TestNewAuthRequest(t *testing.T) {
	req, err := newAuthRequest()
	require.NoError(t, err)

	assert.NotEmpty(t, req.State)
	assert.NotEmpty(t, req.Verifier)
	assert.Equal(t, generateCodeChallenge(req.Verifier), req.Challenge, "challenge should be reproducible from verifier")
	assert.NotEqual(t, req.State, req.Verifier)
}
