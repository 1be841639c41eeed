package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notekeeper/internal/domain/entity"
	"notekeeper/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[int]*entity.User
}

func (f *fakeUserRepo) FindByID(id int) (*entity.User, error) {
	return f.users[id], nil
}

func newAuthTestEnv(t *testing.T) (echo.MiddlewareFunc, *utils.TokenIssuer, *fakeUserRepo) {
	t.Helper()

	tokens, err := utils.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[int]*entity.User{}}
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{UserRepo: repo, Tokens: tokens})
	return mw, tokens, repo
}

func invoke(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *entity.User) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var attached *entity.User
	handler := mw(func(c echo.Context) error {
		attached, _ = c.Get("user").(*entity.User)
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, attached
}

func TestAuthMiddleware_AttachesUser(t *testing.T) {
	mw, tokens, repo := newAuthTestEnv(t)
	repo.users[42] = &entity.User{ID: 42, Username: "alice", Role: entity.RoleUser}

	token, err := tokens.Sign(42)
	require.NoError(t, err)

	rec, user := invoke(mw, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, 42, user.ID)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	mw, _, _ := newAuthTestEnv(t)

	rec, user := invoke(mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	mw, _, _ := newAuthTestEnv(t)

	rec, user := invoke(mw, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestAuthMiddleware_UserGone(t *testing.T) {
	mw, tokens, _ := newAuthTestEnv(t)

	// Valid signature, but the subject no longer exists in the DB.
	token, err := tokens.Sign(99)
	require.NoError(t, err)

	rec, user := invoke(mw, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()

	run := func(role entity.Role) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/notes", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", &entity.User{ID: 1, Role: role})

		handler := RequireRoles(entity.RoleAdmin)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		_ = handler(c)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(entity.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run(entity.RoleUser))
}
