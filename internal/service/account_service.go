package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/mail"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// TokenPlaceholder must appear in every caller-supplied confirmation URL
// template; it is substituted with the issued token before mailing.
const TokenPlaceholder = "$TOKEN$"

// Claim keys used across the handshake flows.
const (
	ClaimUserUUID = "user_uuid"
	ClaimEmail    = "email"
)

// ErrIncorrectCredentials is the single login failure. Unknown email and
// wrong password intentionally produce the same response so that login
// never confirms whether an address is registered.
var ErrIncorrectCredentials = apperrors.NewDomainError(
	"AUTHENTICATION_FAILED", "Incorrect username or password", http.StatusBadRequest, nil)

// ErrIncorrectToken covers every way a handshake token can fail to be
// trusted: forged, expired, malformed, or missing claims.
var ErrIncorrectToken = apperrors.NewDomainError(
	"AUTHENTICATION_FAILED", "Incorrect token", http.StatusBadRequest, nil)

// AccountService orchestrates the identity lifecycle: signup, email
// confirmation, login, profile updates, and password change/reset. It
// composes the password hasher and token codec with the user store and
// mail queue; no handshake state is ever persisted outside the tokens
// themselves.
type AccountService struct {
	users    repository.UserRepository
	tokens   *auth.TokenCodec
	mailer   mail.Mailer
	logger   *zap.Logger
	loginTTL time.Duration
	emailTTL time.Duration
}

// AccountDependencies encapsulates collaborators for the account service.
type AccountDependencies struct {
	UserRepo repository.UserRepository
	Tokens   *auth.TokenCodec
	Mailer   mail.Mailer
	Logger   *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:    deps.UserRepo,
		tokens:   deps.Tokens,
		mailer:   deps.Mailer,
		logger:   deps.Logger,
		loginTTL: cfg.Auth.LoginTokenTTL(),
		emailTTL: cfg.Auth.EmailTokenTTL(),
	}
}

// Signup registers a new account. The record is created without an email;
// the candidate address travels only inside the confirmation token mailed
// to it, so possession of the mailbox is what binds the address to the
// account.
func (s *AccountService) Signup(ctx context.Context, fullName, email, password, confirmURLTemplate string) error {
	if err := validateURLTemplate(confirmURLTemplate); err != nil {
		return err
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewConflict("email already registered", nil)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	uuid, err := s.users.Create(ctx, fullName, hash)
	if err != nil {
		return err
	}

	s.sendConfirmationEmail(ctx, uuid, email, confirmURLTemplate)
	return nil
}

// ConfirmEmail attaches the email carried in a confirmation token to its
// user. This is the only path by which an account's email is ever set or
// changed.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) error {
	claims := s.tokens.Decode(token, ClaimUserUUID, ClaimEmail)
	uuid, okUUID := stringClaim(claims, ClaimUserUUID)
	email, okEmail := stringClaim(claims, ClaimEmail)
	if !okUUID || !okEmail {
		return ErrIncorrectToken
	}

	if err := s.users.UpdateEmail(ctx, uuid, email); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return apperrors.NewConflict("email already registered", nil)
		}
		return err
	}
	return nil
}

// Login authenticates by email and password and issues a bearer token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrIncorrectCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrIncorrectCredentials
	}

	return s.tokens.Encode(map[string]any{ClaimUserUUID: user.UUID}, s.loginTTL)
}

// UpdateProfile changes the caller's name immediately and, when a new
// email is supplied, starts a fresh confirmation handshake for it. The
// stored email stays untouched until the confirmation comes back.
func (s *AccountService) UpdateProfile(ctx context.Context, user *domain.User, fullName, newEmail, confirmURLTemplate string) error {
	if fullName != "" && fullName != user.FullName {
		if err := s.users.UpdateFullName(ctx, user.UUID, fullName); err != nil {
			return err
		}
	}

	if newEmail == "" {
		return nil
	}
	if err := validateURLTemplate(confirmURLTemplate); err != nil {
		return err
	}
	taken, err := s.users.EmailExists(ctx, newEmail)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewConflict("email already registered", nil)
	}

	s.sendConfirmationEmail(ctx, user.UUID, newEmail, confirmURLTemplate)
	return nil
}

// ChangePassword verifies the current password before overwriting the
// stored hash with a freshly salted one.
func (s *AccountService) ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) error {
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return apperrors.NewValidationError("incorrect password", nil)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.UUID, hash)
}

// RequestPasswordReset mails a reset token to the given address. No
// existence check is performed: the flow reports success whether or not
// an account holds the email, so it leaks nothing about registration.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email, confirmURLTemplate string) error {
	if err := validateURLTemplate(confirmURLTemplate); err != nil {
		return err
	}

	token, err := s.tokens.Encode(map[string]any{ClaimEmail: email}, s.emailTTL)
	if err != nil {
		return err
	}
	s.dispatchMail(ctx, email, strings.ReplaceAll(confirmURLTemplate, TokenPlaceholder, token))
	return nil
}

// ConfirmPasswordReset sets a new password for the account holding the
// email carried in the token. A token for an unregistered email is a
// silent no-op, matching the enumeration-resistance stance of the request
// flow.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	claims := s.tokens.Decode(token, ClaimEmail)
	email, ok := stringClaim(claims, ClaimEmail)
	if !ok {
		return ErrIncorrectToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordByEmail(ctx, email, hash)
}

func (s *AccountService) sendConfirmationEmail(ctx context.Context, userUUID, email, urlTemplate string) {
	token, err := s.tokens.Encode(map[string]any{
		ClaimUserUUID: userUUID,
		ClaimEmail:    email,
	}, s.emailTTL)
	if err != nil {
		s.logger.Error("failed to issue confirmation token", zap.Error(err))
		return
	}
	s.dispatchMail(ctx, email, strings.ReplaceAll(urlTemplate, TokenPlaceholder, token))
}

// dispatchMail enqueues and forgets. A broken queue is an operational
// problem, not a reason to fail the request that triggered the send.
func (s *AccountService) dispatchMail(ctx context.Context, email, body string) {
	if err := s.mailer.Send(ctx, []string{email}, body); err != nil {
		s.logger.Error("failed to enqueue mail", zap.Error(err))
	}
}

func validateURLTemplate(template string) error {
	if !strings.Contains(template, TokenPlaceholder) {
		return apperrors.NewValidationError("confirmation URL must contain "+TokenPlaceholder, nil)
	}
	return nil
}

func stringClaim(claims map[string]any, key string) (string, bool) {
	if claims == nil {
		return "", false
	}
	val, ok := claims[key].(string)
	return val, ok && val != ""
}
