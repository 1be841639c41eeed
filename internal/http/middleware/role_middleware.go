package middleware

import (
	"slices"

	"notekeeper/internal/domain/entity"
	"notekeeper/internal/utils"
	"notekeeper/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// RequireRoles rejects with 403 unless the resolved user's role is in the
// allowed set. Must run after the auth middleware.
func RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, cerr := utils.GetUserFromContext(c)
			if cerr != nil {
				return c.JSON(cerr.Code(), cerr)
			}

			if !slices.Contains(roles, user.Role) {
				forbidden := apierror.NewForbiddenError("Insufficient role")
				return c.JSON(forbidden.Code(), forbidden)
			}
			return next(c)
		}
	}
}
