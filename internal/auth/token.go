package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenCodec signs and validates self-contained claim tokens. Tokens are
// never stored anywhere; trust is re-derived from the secret on every
// decode.
type TokenCodec struct {
	secret []byte
	logger *zap.Logger
}

// NewTokenCodec builds a codec around the server-held signing secret.
func NewTokenCodec(secret string, logger *zap.Logger) *TokenCodec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenCodec{secret: []byte(secret), logger: logger}
}

// Encode signs the claim set with an expiry of now+ttl. A caller-supplied
// "exp" claim is left untouched.
func (tc *TokenCodec) Encode(claims map[string]any, ttl time.Duration) (string, error) {
	payload := make(jwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		payload[k] = v
	}
	if _, ok := payload["exp"]; !ok {
		payload["exp"] = jwt.NewNumericDate(time.Now().Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString(tc.secret)
}

// Decode validates the token and returns its claims, or nil if the token
// is absent, forged, expired, or missing any of the required keys.
// Callers get a single "untrusted" outcome; the concrete reason is only
// logged for diagnostics.
func (tc *TokenCodec) Decode(tokenStr string, requiredKeys ...string) map[string]any {
	if tokenStr == "" {
		return nil
	}

	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tc.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		tc.logger.Debug("token rejected", zap.Error(err))
		return nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		tc.logger.Debug("token rejected", zap.String("reason", "invalid claims"))
		return nil
	}
	for _, key := range requiredKeys {
		if _, present := claims[key]; !present {
			tc.logger.Debug("token rejected", zap.String("reason", "missing claim"), zap.String("claim", key))
			return nil
		}
	}
	return claims
}
