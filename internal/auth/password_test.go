package auth

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	stored, err := HashPassword("s3cret")
	require.NoError(t, err)

	parts := strings.Split(stored, "$")
	require.Len(t, parts, 4)

	digest, err := base64.StdEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Len(t, digest, 32, "SHA256 output should be 32 bytes")

	salt := parts[1]
	assert.GreaterOrEqual(t, len(salt), 15)
	assert.LessOrEqual(t, len(salt), 24)
	for _, r := range salt {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_", string(r))
	}

	assert.Equal(t, "SHA256", parts[2])
	assert.Equal(t, "720000", parts[3])
}

func TestHashPasswordWith_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := HashPasswordWith("s3cret", "fixed-salt", "SHA256", 1000)
	require.NoError(t, err)
	second, err := HashPasswordWith("s3cret", "fixed-salt", "SHA256", 1000)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("s3cret")
	require.NoError(t, err)
	second, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	stored, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(stored, "correct horse"))
	assert.False(t, CheckPassword(stored, "wrong horse"))
	assert.False(t, CheckPassword(stored, ""))
}

func TestCheckPassword_SHA512(t *testing.T) {
	t.Parallel()

	stored, err := HashPasswordWith("s3cret", "somesalt12345678", "SHA512", 1000)
	require.NoError(t, err)

	assert.True(t, CheckPassword(stored, "s3cret"))
	assert.False(t, CheckPassword(stored, "s3cret!"))
}

func TestCheckPassword_Malformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"no-delimiters-at-all",
		"a$b$c",
		"a$b$c$d$e",
		"hash$salt$SHA256$notanumber",
		"hash$salt$MD5$1000",
	}
	for _, stored := range cases {
		assert.False(t, CheckPassword(stored, "anything"), "stored=%q", stored)
	}
}

func TestHashPasswordWith_InvalidParams(t *testing.T) {
	t.Parallel()

	_, err := HashPasswordWith("pw", "salt", "MD5", 1000)
	assert.Error(t, err)

	_, err = HashPasswordWith("pw", "salt", "SHA256", 0)
	assert.Error(t, err)
}
