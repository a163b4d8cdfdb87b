package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/usecase"
)

const userIDKey = "user_id"

// JWTAuth resolves the bearer token to a user profile and stores it on the
// echo context for downstream handlers. Requests without a valid token are
// rejected before any handler runs.
func JWTAuth(authUsecase usecase.AuthUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := BearerToken(c)
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			user, err := authUsecase.ValidateToken(ctx, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user", user)
			c.Set(userIDKey, user.ID.Hex())
			//lint:ignore SA1029 we want to expose this key
			c.SetRequest(c.Request().WithContext(context.WithValue(ctx, userIDKey, user.ID.Hex())))
			return next(c)
		}
	}
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	return tokenString, nil
}

// CurrentUser returns the authenticated profile set by JWTAuth.
func CurrentUser(c echo.Context) *models.UserProfile {
	user, _ := c.Get("user").(*models.UserProfile)
	return user
}

func GetUserID(c echo.Context) string {
	if id, ok := c.Get(userIDKey).(string); ok {
		return id
	}
	return ""
}
