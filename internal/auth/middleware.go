package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

const currentUserKey = "auth_current_user"

// ClaimUserUUID is the bearer-token claim identifying the caller.
const ClaimUserUUID = "user_uuid"

// Middleware validates bearer tokens and loads the current user. A valid
// token whose user no longer exists is rejected the same way as a bad
// token.
type Middleware struct {
	tokens *TokenCodec
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenCodec, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	claims := m.tokens.Decode(parts[1], ClaimUserUUID)
	if claims == nil {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	uuid, ok := claims[ClaimUserUUID].(string)
	if !ok || uuid == "" {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	user, err := m.users.GetByUUID(c.Context(), uuid)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("Unauthorized")
		}
		return apperrors.MapError(err)
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// CurrentUser retrieves the authenticated user set by Handle.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
