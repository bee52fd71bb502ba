package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("test-secret", nil)
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	tc := newTestCodec()
	token, err := tc.Encode(map[string]any{"user_uuid": "u-1", "email": "a@x.com"}, time.Hour)
	require.NoError(t, err)

	claims := tc.Decode(token, "user_uuid", "email")
	require.NotNil(t, claims)
	assert.Equal(t, "u-1", claims["user_uuid"])
	assert.Equal(t, "a@x.com", claims["email"])
	assert.Contains(t, claims, "exp")
}

func TestTokenCodec_CallerExpiryPreserved(t *testing.T) {
	t.Parallel()

	tc := newTestCodec()
	exp := time.Now().Add(30 * time.Minute).Unix()
	token, err := tc.Encode(map[string]any{"user_uuid": "u-1", "exp": exp}, time.Hour)
	require.NoError(t, err)

	claims := tc.Decode(token, "user_uuid")
	require.NotNil(t, claims)
	assert.Equal(t, float64(exp), claims["exp"])
}

func TestTokenCodec_Expired(t *testing.T) {
	t.Parallel()

	tc := newTestCodec()
	token, err := tc.Encode(map[string]any{"user_uuid": "u-1"}, -time.Second)
	require.NoError(t, err)

	assert.Nil(t, tc.Decode(token, "user_uuid"))
}

func TestTokenCodec_Tampered(t *testing.T) {
	t.Parallel()

	tc := newTestCodec()
	token, err := tc.Encode(map[string]any{"user_uuid": "u-1"}, time.Hour)
	require.NoError(t, err)

	// flip one byte of the signature
	raw := []byte(token)
	raw[len(raw)-1] ^= 0x01
	assert.Nil(t, tc.Decode(string(raw), "user_uuid"))
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := newTestCodec().Encode(map[string]any{"user_uuid": "u-1"}, time.Hour)
	require.NoError(t, err)

	other := NewTokenCodec("different-secret", nil)
	assert.Nil(t, other.Decode(token, "user_uuid"))
}

func TestTokenCodec_MissingRequiredKey(t *testing.T) {
	t.Parallel()

	tc := newTestCodec()
	token, err := tc.Encode(map[string]any{"email": "a@x.com"}, time.Hour)
	require.NoError(t, err)

	assert.Nil(t, tc.Decode(token, "user_uuid"))
	assert.NotNil(t, tc.Decode(token, "email"))
}

func TestTokenCodec_AbsentOrMalformed(t *testing.T) {
	t.Parallel()

	tc := newTestCodec()
	assert.Nil(t, tc.Decode(""))
	assert.Nil(t, tc.Decode("not.a.jwt"))
}
