package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	domain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/modules/realtime/infrastructure"
	"studentForum/internal/shared/auth"
)

type SocketOptions struct {
	// AllowedOrigins lists the browser origins accepted on upgrade. "*" accepts any.
	AllowedOrigins []string
	RequireAuth    bool
	SendBuffer     int
	RateLimit      int
	RateInterval   time.Duration
}

// NewWebsocketHandler serves GET /ws. The token is optional unless opts.RequireAuth is set;
// a token that is present but invalid is always rejected.
func NewWebsocketHandler(
	hub *infrastructure.Hub,
	commands *infrastructure.CommandProcessor,
	validator auth.TokenValidator,
	opts SocketOptions,
) echo.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}

	return func(c echo.Context) error {
		logger := c.Logger()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		var (
			userID string
			roles  []string
		)
		token := auth.ExtractToken(c.Request(), "token")
		switch {
		case token != "":
			claims, err := validator.Validate(token)
			if err != nil {
				slog.Warn("ws handler invalid token", slog.String("ip", peerIP), slog.Any("error", err))
				logger.Warnf("ws rejected: invalid token ip=%s reqID=%s", peerIP, requestID)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			userID, roles = claims.Subject, claims.Roles
		case opts.RequireAuth:
			logger.Warnf("ws rejected: missing token ip=%s reqID=%s", peerIP, requestID)
			return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws handler upgrade failed", slog.String("ip", peerIP), slog.Any("error", err))
			logger.Errorf("ws upgrade failed ip=%s reqID=%s: %v", peerIP, requestID, err)
			return nil
		}

		session := infrastructure.NewSession(hub, conn, userID, roles, opts.SendBuffer, commands).
			WithRateLimit(opts.RateLimit, opts.RateInterval)
		hub.Register(session)

		go session.WritePump()
		go session.ReadPump()

		session.Send(domain.SystemEvent(domain.KindConnected,
			map[string]string{"sessionId": session.ID(), "userId": userID},
			map[string]any{
				"sessionId":     session.ID(),
				"userId":        userID,
				"authenticated": session.Authenticated(),
			}))

		logger.Infof("ws connected session=%s user=%s roles=%v ip=%s reqID=%s", session.ID(), userID, roles, peerIP, requestID)
		return nil
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	origins := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			wildcard = true
		}
		if o != "" {
			origins[strings.ToLower(o)] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" || wildcard || len(origins) == 0 {
			return true
		}
		_, ok := origins[strings.ToLower(strings.TrimRight(origin, "/"))]
		if !ok {
			slog.Warn("ws origin rejected", slog.String("origin", origin))
		}
		return ok
	}
}
