package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	pkgmdw "github.com/complyhq/complybot/internal/server/middleware"
	"github.com/complyhq/complybot/internal/usecase"
)

type DashboardController interface {
	GetDashboard(c echo.Context) error
}

type dashboardController struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardController(dashboardUsecase usecase.DashboardUsecase) DashboardController {
	return &dashboardController{
		dashboardUsecase: dashboardUsecase,
	}
}

func (dc *dashboardController) GetDashboard(c echo.Context) error {
	dashboard, err := dc.dashboardUsecase.GetDashboard(c.Request().Context(), pkgmdw.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}
