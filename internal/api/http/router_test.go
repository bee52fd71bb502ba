package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/observability"
	"github.com/spec-kit/shop-service/internal/repository"
	"github.com/spec-kit/shop-service/internal/service"
)

const testConfirmURL = "https://shop.example/confirm?t=$TOKEN$"

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, fullName, passwordHash string) (string, error) {
	id := uuid.NewString()
	r.users[id] = &domain.User{UUID: id, FullName: fullName, PasswordHash: passwordHash, Role: domain.RoleCustomer}
	return id, nil
}

func (r *memUserRepo) GetByUUID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	for otherID, other := range r.users {
		if otherID != id && other.Email != nil && *other.Email == email {
			return repository.ErrEmailTaken
		}
	}
	if user, ok := r.users[id]; ok {
		user.Email = &email
	}
	return nil
}

func (r *memUserRepo) UpdateFullName(_ context.Context, id, fullName string) error {
	if user, ok := r.users[id]; ok {
		user.FullName = fullName
	}
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	if user, ok := r.users[id]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (r *memUserRepo) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	if user, err := r.GetByEmail(ctx, email); err == nil {
		user.PasswordHash = passwordHash
	}
	return nil
}

type memMailer struct {
	bodies []string
}

func (m *memMailer) Send(_ context.Context, _ []string, body string) error {
	m.bodies = append(m.bodies, body)
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *memUserRepo, *memMailer) {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{SecretKey: "test-secret", LoginTokenTTLDays: 60, EmailTokenTTLMinutes: 120},
	}
	repo := &memUserRepo{users: make(map[string]*domain.User)}
	mailer := &memMailer{}
	logger := zap.NewNop()
	codec := auth.NewTokenCodec(cfg.Auth.SecretKey, logger)

	accountService := service.NewAccountService(cfg, service.AccountDependencies{
		UserRepo: repo,
		Tokens:   codec,
		Mailer:   mailer,
		Logger:   logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Accounts:       handlers.NewAccountsHandler(accountService),
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		AuthMiddleware: auth.NewMiddleware(codec, repo),
	})
	return app, repo, mailer
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func signupAndConfirm(t *testing.T, app *fiber.App, mailer *memMailer, email, password string) {
	t.Helper()

	resp, _ := doJSON(t, app, "POST", "/accounts/signup", "", fiber.Map{
		"full_name":         "Alice",
		"email":             email,
		"password":          password,
		"confirm_email_url": testConfirmURL,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NotEmpty(t, mailer.bodies)
	body := mailer.bodies[len(mailer.bodies)-1]
	token := body[len("https://shop.example/confirm?t="):]

	resp, _ = doJSON(t, app, "POST", "/accounts/confirm_email", "", fiber.Map{"token": token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupConfirmLoginProfile(t *testing.T) {
	t.Parallel()
	app, _, mailer := newTestApp(t)

	signupAndConfirm(t, app, mailer, "a@x.com", "secret1")

	resp, raw := doJSON(t, app, "POST", "/accounts/login", "", fiber.Map{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		TokenType   string `json:"token_type"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(raw, &login))
	assert.Equal(t, "bearer", login.TokenType)
	require.NotEmpty(t, login.AccessToken)

	resp, raw = doJSON(t, app, "GET", "/accounts/profile", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		Data struct {
			FullName string  `json:"full_name"`
			Email    *string `json:"email"`
			Role     string  `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &profile))
	assert.Equal(t, "Alice", profile.Data.FullName)
	require.NotNil(t, profile.Data.Email)
	assert.Equal(t, "a@x.com", *profile.Data.Email)
	assert.Equal(t, "customer", profile.Data.Role)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	t.Parallel()
	app, _, mailer := newTestApp(t)

	signupAndConfirm(t, app, mailer, "a@x.com", "secret1")

	wrongResp, wrongBody := doJSON(t, app, "POST", "/accounts/login", "", fiber.Map{
		"email":    "a@x.com",
		"password": "wrong",
	})
	unknownResp, unknownBody := doJSON(t, app, "POST", "/accounts/login", "", fiber.Map{
		"email":    "nosuchuser@x.com",
		"password": "anything",
	})

	assert.Equal(t, http.StatusBadRequest, wrongResp.StatusCode)
	assert.Equal(t, http.StatusBadRequest, unknownResp.StatusCode)
	assert.Equal(t, wrongBody, unknownBody, "login failures must be byte-identical")
}

func TestProtectedRoutes_RequireValidBearer(t *testing.T) {
	t.Parallel()
	app, _, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/accounts/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/accounts/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBearerForDeletedUser_Rejected(t *testing.T) {
	t.Parallel()
	app, repo, mailer := newTestApp(t)

	signupAndConfirm(t, app, mailer, "a@x.com", "secret1")
	resp, raw := doJSON(t, app, "POST", "/accounts/login", "", fiber.Map{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(raw, &login))

	// the account disappears while the token is still valid
	repo.users = make(map[string]*domain.User)

	resp, _ = doJSON(t, app, "GET", "/accounts/profile", login.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestResetPassword_AlwaysAccepted(t *testing.T) {
	t.Parallel()
	app, _, mailer := newTestApp(t)

	before := len(mailer.bodies)
	resp, _ := doJSON(t, app, "POST", "/accounts/reset_password", "", fiber.Map{
		"email":             "ghost@x.com",
		"confirm_email_url": testConfirmURL,
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Len(t, mailer.bodies, before+1)
}

func TestConfirmResetPassword_BadToken(t *testing.T) {
	t.Parallel()
	app, _, _ := newTestApp(t)

	resp, raw := doJSON(t, app, "POST", "/accounts/confirm_reset_password", "", fiber.Map{
		"token":        "garbage",
		"new_password": "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Incorrect token")
}
