package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/notifications/application/usecase"
	"studentForum/internal/modules/notifications/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type Handler struct {
	svc  *usecase.NotificationService
	errs *httputil.ErrorMapper
}

func NewHandler(svc *usecase.NotificationService) *Handler {
	return &Handler{
		svc: svc,
		errs: httputil.NewErrorMapper().
			WithMapping(domain.ErrNotificationNotFound, http.StatusNotFound, "Notification not found").
			WithMapping(domain.ErrNotRecipient, http.StatusForbidden, "Not authorized").
			WithMapping(domain.ErrMissingRecipient, http.StatusBadRequest, "recipientId is required"),
	}
}

// Register mounts the routes under g; every route requires authentication.
func (h *Handler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	r := g.Group("/notifications", authMW)
	r.GET("", h.list)
	r.GET("/unread-count", h.unread)
	r.POST("/create", h.create)
	r.PUT("/read-all", h.readAll)
	r.PUT("/:id/read", h.read)
	r.DELETE("/:id", h.delete)
}

type createRequest struct {
	RecipientID  string `json:"recipientId" validate:"required"`
	Type         string `json:"type" validate:"required,max=64"`
	Content      string `json:"content" validate:"required,max=2000"`
	Link         string `json:"link"`
	QuestionID   string `json:"questionId"`
	MentorshipID string `json:"mentorshipId"`
}

func (h *Handler) create(c echo.Context) error {
	var req createRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.svc.Create(c.Request().Context(), domain.Notification{
		RecipientID:  req.RecipientID,
		SenderID:     auth.UserID(c),
		Type:         req.Type,
		Content:      req.Content,
		Link:         req.Link,
		QuestionID:   req.QuestionID,
		MentorshipID: req.MentorshipID,
	})
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) list(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, httputil.Paginate(c, items))
}

func (h *Handler) unread(c echo.Context) error {
	n, err := h.svc.Unread(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) read(c echo.Context) error {
	n, err := h.svc.MarkRead(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) readAll(c echo.Context) error {
	changed, err := h.svc.MarkAllRead(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "All notifications marked as read", "updated": changed})
}

func (h *Handler) delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification deleted"})
}
