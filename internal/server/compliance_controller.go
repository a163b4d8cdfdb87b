package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/complyhq/complybot/internal/models"
	pkgmdw "github.com/complyhq/complybot/internal/server/middleware"
	"github.com/complyhq/complybot/internal/usecase"
)

type ComplianceController interface {
	Create(c echo.Context) error
	Get(c echo.Context) error
	List(c echo.Context) error
	Update(c echo.Context) error
	Complete(c echo.Context) error
	Delete(c echo.Context) error
}

type complianceController struct {
	complianceUsecase usecase.ComplianceUsecase
}

func NewComplianceController(complianceUsecase usecase.ComplianceUsecase) ComplianceController {
	return &complianceController{
		complianceUsecase: complianceUsecase,
	}
}

func (cc *complianceController) Create(c echo.Context) error {
	var item models.ComplianceItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(item); err != nil {
		return err
	}

	created, err := cc.complianceUsecase.Create(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"), &item)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (cc *complianceController) Get(c echo.Context) error {
	item, err := cc.complianceUsecase.Get(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"), c.Param("item_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (cc *complianceController) List(c echo.Context) error {
	items, err := cc.complianceUsecase.List(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (cc *complianceController) Update(c echo.Context) error {
	var update models.ComplianceItemUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(update); err != nil {
		return err
	}

	item, err := cc.complianceUsecase.Update(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"), c.Param("item_id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (cc *complianceController) Complete(c echo.Context) error {
	item, err := cc.complianceUsecase.Complete(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"), c.Param("item_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (cc *complianceController) Delete(c echo.Context) error {
	if err := cc.complianceUsecase.Delete(c.Request().Context(), pkgmdw.GetUserID(c), c.Param("business_id"), c.Param("item_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
