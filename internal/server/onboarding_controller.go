package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/complyhq/complybot/internal/models"
	pkgmdw "github.com/complyhq/complybot/internal/server/middleware"
	"github.com/complyhq/complybot/internal/usecase"
)

type OnboardingController interface {
	StartSession(c echo.Context) error
	GetSession(c echo.Context) error
	ResetSession(c echo.Context) error
	SubmitUserDetails(c echo.Context) error
	SubmitBusinessInfo(c echo.Context) error
	SubmitBusinessDescription(c echo.Context) error
	SendMessage(c echo.Context) error
}

type onboardingController struct {
	onboardingUsecase usecase.OnboardingUsecase
}

func NewOnboardingController(onboardingUsecase usecase.OnboardingUsecase) OnboardingController {
	return &onboardingController{
		onboardingUsecase: onboardingUsecase,
	}
}

func (oc *onboardingController) StartSession(c echo.Context) error {
	session, err := oc.onboardingUsecase.StartSession(c.Request().Context(), pkgmdw.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (oc *onboardingController) GetSession(c echo.Context) error {
	session, err := oc.onboardingUsecase.GetSession(c.Request().Context(), pkgmdw.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (oc *onboardingController) ResetSession(c echo.Context) error {
	if err := oc.onboardingUsecase.ResetSession(c.Request().Context(), pkgmdw.GetUserID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (oc *onboardingController) SubmitUserDetails(c echo.Context) error {
	var form models.UserDetailsForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(form); err != nil {
		return err
	}

	session, err := oc.onboardingUsecase.SubmitUserDetails(c.Request().Context(), pkgmdw.GetUserID(c), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (oc *onboardingController) SubmitBusinessInfo(c echo.Context) error {
	var input models.BusinessInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	session, err := oc.onboardingUsecase.SubmitBusinessInfo(c.Request().Context(), pkgmdw.GetUserID(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (oc *onboardingController) SubmitBusinessDescription(c echo.Context) error {
	var form models.BusinessDescriptionForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(form); err != nil {
		return err
	}

	session, err := oc.onboardingUsecase.SubmitBusinessDescription(c.Request().Context(), pkgmdw.GetUserID(c), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (oc *onboardingController) SendMessage(c echo.Context) error {
	var req models.ChatTurnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	session, err := oc.onboardingUsecase.SendMessage(c.Request().Context(), pkgmdw.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}
