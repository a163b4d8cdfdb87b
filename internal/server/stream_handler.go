package server

import (
	"net/http"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/complyhq/complybot/internal/usecase"
)

// StreamHandler upgrades dashboard connections to a websocket and pushes a
// fresh dashboard snapshot whenever the underlying data changes. The token
// comes from the query string because browsers cannot set websocket headers.
type StreamHandler struct {
	upgrader         websocket.Upgrader
	authUsecase      usecase.AuthUsecase
	dashboardUsecase usecase.DashboardUsecase
}

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

func NewStreamHandler(authUsecase usecase.AuthUsecase, dashboardUsecase usecase.DashboardUsecase) *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// origin enforcement happens in the CORS middleware; the
			// websocket endpoint is token-gated instead
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		authUsecase:      authUsecase,
		dashboardUsecase: dashboardUsecase,
	}
}

func (h *StreamHandler) DashboardStream(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	user, err := h.authUsecase.ValidateToken(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	userID := user.ID.Hex()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	snapshots, cancel, err := h.dashboardUsecase.WatchDashboard(ctx, userID)
	if err != nil {
		return err
	}
	defer cancel()

	// drain the read side so close and control frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ready := map[string]string{"type": "ready", "user_id": userID}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(ready); err != nil {
		return nil
	}

	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	log.Infow(ctx, "dashboard stream opened", "user_id", userID)
	for {
		select {
		case dashboard, ok := <-snapshots:
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(map[string]any{"type": "dashboard", "data": dashboard}); err != nil {
				log.Warnw(ctx, "dashboard stream write failed", "user_id", userID, "error", err)
				return nil
			}
		case <-pings.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
