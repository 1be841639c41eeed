package middleware

import (
	"net/http"

	"notekeeper/internal/domain/entity"
	"notekeeper/internal/utils"
	"notekeeper/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
	Tokens   *utils.TokenIssuer
}

// NewAuthMiddleware resolves the bearer token to a user and stores it in the
// request context. Handlers downstream can assume "user" is set.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := cfg.Tokens.ParseTokenDataCtx(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidTokenError)
			}

			user, err := cfg.UserRepo.FindByID(tokenData.UserID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// User deleted in DB but still has a valid token???
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			c.Set("user", user)
			return next(c)
		}
	}
}
