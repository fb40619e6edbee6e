package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/realtime/application/usecase"
	"studentForum/internal/modules/realtime/domain"
	"studentForum/internal/modules/realtime/infrastructure"
	"studentForum/internal/shared/httputil"
)

// NotifyRequest is a mutation pushed by an external producer.
type NotifyRequest struct {
	Kind    string             `json:"kind" validate:"required"`
	IDs     domain.AffectedIDs `json:"ids"`
	Payload any                `json:"payload,omitempty"`
}

// BroadcastRequest publishes a pre-built event to one topic.
type BroadcastRequest struct {
	Topic string `json:"topic" validate:"required,max=200"`
	Event string `json:"event" validate:"required,max=100"`
	Data  any    `json:"data,omitempty"`
}

type BroadcastResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Topics    []string `json:"topics,omitempty"`
	Delivered *int     `json:"delivered,omitempty"`
}

// Handler exposes the operator endpoints of the realtime layer.
type Handler struct {
	hub         *infrastructure.Hub
	relay       *usecase.RelayUseCase
	broadcastUC *usecase.BroadcastUseCase
}

func NewHandler(hub *infrastructure.Hub, relay *usecase.RelayUseCase, broadcastUC *usecase.BroadcastUseCase) *Handler {
	return &Handler{hub: hub, relay: relay, broadcastUC: broadcastUC}
}

// Register mounts /realtime routes. guard must authenticate and authorize the caller.
func (h *Handler) Register(g *echo.Group, guard ...echo.MiddlewareFunc) {
	rt := g.Group("/realtime", guard...)
	rt.POST("/notify", h.notify)
	rt.POST("/broadcast", h.broadcast)
	rt.GET("/stats", h.stats)
}

func (h *Handler) notify(c echo.Context) error {
	var req NotifyRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	kind := domain.NormalizeMutationKind(req.Kind)
	targets, err := domain.Route(kind, req.IDs)
	if err != nil {
		slog.Warn("realtime notify rejected", slog.String("kind", string(kind)), slog.Any("error", err))
		status := http.StatusBadRequest
		if !errors.Is(err, domain.ErrUnknownMutation) && !errors.Is(err, domain.ErrMissingID) {
			status = http.StatusInternalServerError
		}
		return echo.NewHTTPError(status, err.Error())
	}
	h.relay.NotifyMutation(c.Request().Context(), domain.Mutation{Kind: kind, IDs: req.IDs, Payload: req.Payload})

	topics := make([]string, 0, len(targets))
	for _, t := range targets {
		topics = append(topics, t.Topic)
	}
	slog.Info("realtime notify relayed", slog.String("kind", string(kind)), slog.Any("topics", topics))
	return c.JSON(http.StatusOK, BroadcastResponse{Success: true, Message: "Mutation relayed", Topics: topics})
}

func (h *Handler) broadcast(c echo.Context) error {
	var req BroadcastRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	topic := strings.TrimSpace(req.Topic)
	if !domain.Known(topic) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown topic")
	}
	delivered := h.broadcastUC.Execute(c.Request().Context(), domain.NewEvent(topic, domain.EventKind(strings.TrimSpace(req.Event)), req.Data))
	slog.Info("realtime broadcast sent", slog.String("topic", topic), slog.String("event", req.Event), slog.Int("delivered", delivered))
	return c.JSON(http.StatusOK, BroadcastResponse{Success: true, Message: "Message broadcasted successfully", Topics: []string{topic}, Delivered: &delivered})
}

func (h *Handler) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.hub.Stats())
}
