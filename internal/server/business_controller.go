package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/complyhq/complybot/internal/models"
	pkgmdw "github.com/complyhq/complybot/internal/server/middleware"
	"github.com/complyhq/complybot/internal/usecase"
)

type BusinessController interface {
	Create(c echo.Context) error
	Get(c echo.Context) error
	List(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
}

type businessController struct {
	businessUsecase usecase.BusinessUsecase
}

func NewBusinessController(businessUsecase usecase.BusinessUsecase) BusinessController {
	return &businessController{
		businessUsecase: businessUsecase,
	}
}

func (bc *businessController) Create(c echo.Context) error {
	var input models.BusinessInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	business, err := bc.businessUsecase.Create(c.Request().Context(), pkgmdw.GetUserID(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, business)
}

func (bc *businessController) Get(c echo.Context) error {
	business, err := bc.businessUsecase.Get(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, business)
}

func (bc *businessController) List(c echo.Context) error {
	businesses, err := bc.businessUsecase.List(c.Request().Context(), pkgmdw.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, businesses)
}

func (bc *businessController) Update(c echo.Context) error {
	var update models.BusinessUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(update); err != nil {
		return err
	}

	business, err := bc.businessUsecase.Update(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, business)
}

func (bc *businessController) Delete(c echo.Context) error {
	if err := bc.businessUsecase.Delete(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
