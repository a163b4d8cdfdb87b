package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/complyhq/complybot/internal/models"
	pkgmdw "github.com/complyhq/complybot/internal/server/middleware"
	"github.com/complyhq/complybot/internal/usecase"
)

type AuthController interface {
	SignUp(c echo.Context) error
	SignIn(c echo.Context) error
	SignOut(c echo.Context) error
	GetProfile(c echo.Context) error
	UpdateProfile(c echo.Context) error
}

type authController struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthController(authUsecase usecase.AuthUsecase) AuthController {
	return &authController{
		authUsecase: authUsecase,
	}
}

func (ac *authController) SignUp(c echo.Context) error {
	var req models.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	response, err := ac.authUsecase.SignUp(ctx, req, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, response)
}

func (ac *authController) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	response, err := ac.authUsecase.SignIn(ctx, req, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response)
}

func (ac *authController) SignOut(c echo.Context) error {
	tokenString, err := pkgmdw.BearerToken(c)
	if err != nil {
		return err
	}

	if err := ac.authUsecase.SignOut(c.Request().Context(), tokenString); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "signed out successfully",
	})
}

func (ac *authController) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, pkgmdw.CurrentUser(c))
}

func (ac *authController) UpdateProfile(c echo.Context) error {
	var update models.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	profile, err := ac.authUsecase.UpdateProfile(c.Request().Context(), pkgmdw.GetUserID(c), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
