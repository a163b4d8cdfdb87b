package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/complyhq/complybot/internal/config"
	pkgmdw "github.com/complyhq/complybot/internal/server/middleware"
	"github.com/complyhq/complybot/internal/usecase"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
	authController AuthController,
	onboardingController OnboardingController,
	businessController BusinessController,
	complianceController ComplianceController,
	dashboardController DashboardController,
	streamHandler *StreamHandler,
	authUsecase usecase.AuthUsecase,
) {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(logger.MustNamed("http_error"))

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		RequestBody: func(c echo.Context) bool {
			// credentials stay out of the logs
			uri := c.Request().RequestURI
			return uri != "/api/v1/auth/signup" && uri != "/api/v1/auth/login"
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(pkgmdw.CORS(regexp.MustCompile(conf.Server.CORSPattern)))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	api.POST("/auth/signup", authController.SignUp)
	api.POST("/auth/login", authController.SignIn)
	api.POST("/auth/logout", authController.SignOut)

	authed := api.Group("", pkgmdw.JWTAuth(authUsecase))
	authed.GET("/profile", authController.GetProfile)
	authed.PATCH("/profile", authController.UpdateProfile)

	authed.POST("/onboarding/start", onboardingController.StartSession)
	authed.GET("/onboarding/session", onboardingController.GetSession)
	authed.DELETE("/onboarding/session", onboardingController.ResetSession)
	authed.POST("/onboarding/details", onboardingController.SubmitUserDetails)
	authed.POST("/onboarding/business", onboardingController.SubmitBusinessInfo)
	authed.POST("/onboarding/description", onboardingController.SubmitBusinessDescription)
	authed.POST("/onboarding/message", onboardingController.SendMessage)

	authed.POST("/businesses", businessController.Create)
	authed.GET("/businesses", businessController.List)
	authed.GET("/businesses/:business_id", businessController.Get)
	authed.PATCH("/businesses/:business_id", businessController.Update)
	authed.DELETE("/businesses/:business_id", businessController.Delete)

	authed.POST("/businesses/:business_id/compliance-items", complianceController.Create)
	authed.GET("/businesses/:business_id/compliance-items", complianceController.List)
	authed.GET("/businesses/:business_id/compliance-items/:item_id", complianceController.Get)
	authed.PATCH("/businesses/:business_id/compliance-items/:item_id", complianceController.Update)
	authed.POST("/businesses/:business_id/compliance-items/:item_id/complete", complianceController.Complete)
	authed.DELETE("/businesses/:business_id/compliance-items/:item_id", complianceController.Delete)

	authed.GET("/dashboard", dashboardController.GetDashboard)

	// websocket auth runs inside the handler, token comes via query param
	api.GET("/stream", streamHandler.DashboardStream)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
