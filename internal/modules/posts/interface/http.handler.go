package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/posts/application/usecase"
	"studentForum/internal/modules/posts/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type Handler struct {
	svc  *usecase.PostService
	errs *httputil.ErrorMapper
}

func NewHandler(svc *usecase.PostService) *Handler {
	return &Handler{
		svc: svc,
		errs: httputil.NewErrorMapper().
			WithMapping(domain.ErrPostNotFound, http.StatusNotFound, "Post not found").
			WithMapping(domain.ErrNotAuthor, http.StatusForbidden, "Not authorized"),
	}
}

func (h *Handler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	g.GET("/posts", h.list)
	g.GET("/posts/:id", h.get)
	g.POST("/posts", h.create, authMW)
	g.PUT("/posts/:id", h.update, authMW)
	g.DELETE("/posts/:id", h.delete, authMW)
	g.PUT("/posts/:id/like", h.like, authMW)
}

type postRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required,max=20000"`
	Images  []string `json:"images" validate:"max=10,dive,url"`
}

type postUpdateRequest struct {
	Title   string   `json:"title" validate:"omitempty,max=200"`
	Content string   `json:"content" validate:"omitempty,max=20000"`
	Images  []string `json:"images" validate:"omitempty,max=10,dive,url"`
}

func (h *Handler) list(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("author"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, httputil.Paginate(c, items))
}

func (h *Handler) get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c echo.Context) error {
	var req postRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	author := usecase.Author{ID: auth.UserID(c)}
	if claims := auth.ClaimsFrom(c); claims != nil {
		author.Name = claims.Name
	}
	p, err := h.svc.Create(c.Request().Context(), author, usecase.PostInput(req))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) update(c echo.Context) error {
	var req postUpdateRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), auth.UserID(c), c.Param("id"), usecase.PostInput(req))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Post deleted"})
}

func (h *Handler) like(c echo.Context) error {
	p, err := h.svc.ToggleLike(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, p)
}
