package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/chats/application/usecase"
	"studentForum/internal/modules/chats/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type Handler struct {
	svc  *usecase.ChatService
	errs *httputil.ErrorMapper
}

func NewHandler(svc *usecase.ChatService) *Handler {
	return &Handler{
		svc: svc,
		errs: httputil.NewErrorMapper().
			WithMapping(domain.ErrChatNotFound, http.StatusNotFound, "Chat not found").
			WithMapping(domain.ErrNotOwner, http.StatusNotFound, "Chat not found"),
	}
}

func (h *Handler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	r := g.Group("/chat", authMW)
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.DELETE("/:id", h.delete)
	r.POST("/:id/messages", h.send)
}

type messageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

func (h *Handler) list(c echo.Context) error {
	chats, err := h.svc.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errs.Respond(err)
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	return c.JSON(http.StatusOK, chats)
}

func (h *Handler) create(c echo.Context) error {
	chat, err := h.svc.Create(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, chat)
}

func (h *Handler) get(c echo.Context) error {
	chat, err := h.svc.Get(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *Handler) delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}

func (h *Handler) send(c echo.Context) error {
	var req messageRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	chat, err := h.svc.SendMessage(c.Request().Context(), auth.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, chat)
}
