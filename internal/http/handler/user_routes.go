package handler

import (
	"net/http"

	"notekeeper/internal/contract"
	"notekeeper/internal/domain/entity"
	"notekeeper/internal/utils"
	"notekeeper/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse)
	Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse)
	Profile(actor *entity.User) (*contract.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) Register(c echo.Context) error {
	var req contract.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	auth, apierr := u.UserService.Register(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, contract.Success(auth))
}

func (u *DefaultUserRoute) Login(c echo.Context) error {
	var req contract.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	auth, apierr := u.UserService.Login(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.Success(auth))
}

func (u *DefaultUserRoute) Profile(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	profile, apierr := u.UserService.Profile(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.Success(profile))
}
