package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/mentorships/application/usecase"
	"studentForum/internal/modules/mentorships/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type Handler struct {
	svc  *usecase.MentorshipService
	errs *httputil.ErrorMapper
}

func NewHandler(svc *usecase.MentorshipService) *Handler {
	return &Handler{
		svc: svc,
		errs: httputil.NewErrorMapper().
			WithMapping(domain.ErrMentorshipNotFound, http.StatusNotFound, "Mentorship not found").
			WithMapping(domain.ErrNotMentor, http.StatusForbidden, "Not authorized").
			WithMapping(domain.ErrNotParticipant, http.StatusForbidden, "Not authorized").
			WithMapping(domain.ErrOwnMentorship, http.StatusBadRequest, "You cannot request your own mentorship").
			WithMapping(domain.ErrAlreadyRequested, http.StatusBadRequest, "You have already requested this mentorship").
			WithMapping(domain.ErrNotAccepting, http.StatusBadRequest, "This mentorship is not accepting requests").
			WithMapping(domain.ErrRequestNotFound, http.StatusNotFound, "Request not found").
			WithMapping(domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid status"),
	}
}

func (h *Handler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	g.GET("/mentorships", h.list)
	g.GET("/mentorships/filter", h.list)
	g.GET("/mentorships/:id", h.get)
	g.POST("/mentorships", h.create, authMW)
	g.PUT("/mentorships/:id", h.update, authMW)
	g.DELETE("/mentorships/:id", h.delete, authMW)
	g.POST("/mentorships/:id/request", h.request, authMW)
	g.PUT("/mentorships/:id/requests/:userId", h.respond, authMW)

	g.GET("/mentorship-messages/:mentorshipId", h.messages, authMW)
	g.POST("/mentorship-messages/:mentorshipId", h.postMessage, authMW)
}

type mentorshipRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	Description   string   `json:"description" validate:"required"`
	Category      string   `json:"category" validate:"required,max=60"`
	Status        string   `json:"status" validate:"omitempty,oneof=open in-progress closed"`
	Duration      string   `json:"duration"`
	Schedule      string   `json:"schedule"`
	Location      string   `json:"location"`
	Link          string   `json:"link" validate:"omitempty,url"`
	CommunityLink string   `json:"communityLink" validate:"omitempty,url"`
	Deadline      string   `json:"deadline"`
	Requirements  []string `json:"requirements" validate:"max=20"`
	Goals         []string `json:"goals" validate:"max=20"`
}

type mentorshipUpdateRequest struct {
	Title         string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description   string   `json:"description"`
	Category      string   `json:"category" validate:"omitempty,max=60"`
	Status        string   `json:"status" validate:"omitempty,oneof=open in-progress closed"`
	Duration      string   `json:"duration"`
	Schedule      string   `json:"schedule"`
	Location      string   `json:"location"`
	Link          string   `json:"link" validate:"omitempty,url"`
	CommunityLink string   `json:"communityLink" validate:"omitempty,url"`
	Deadline      string   `json:"deadline"`
	Requirements  []string `json:"requirements" validate:"omitempty,max=20"`
	Goals         []string `json:"goals" validate:"omitempty,max=20"`
}

func (r mentorshipUpdateRequest) input() usecase.MentorshipInput {
	return usecase.MentorshipInput{
		Title: r.Title, Description: r.Description, Category: r.Category, Status: r.Status,
		Duration: r.Duration, Schedule: r.Schedule, Location: r.Location, Link: r.Link,
		CommunityLink: r.CommunityLink, Deadline: r.Deadline, Requirements: r.Requirements, Goals: r.Goals,
	}
}

type joinRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

type respondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type messageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

func actor(c echo.Context) usecase.Actor {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		return usecase.Actor{}
	}
	return usecase.Actor{ID: claims.Subject, Name: claims.Name}
}

func (h *Handler) list(c echo.Context) error {
	category := c.QueryParam("field")
	if category == "" {
		category = c.QueryParam("category")
	}
	items, err := h.svc.List(c.Request().Context(), category, c.QueryParam("status"), c.QueryParam("search"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, httputil.Paginate(c, items))
}

func (h *Handler) get(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) create(c echo.Context) error {
	var req mentorshipRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.svc.Create(c.Request().Context(), actor(c), mentorshipUpdateRequest(req).input())
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) update(c echo.Context) error {
	var req mentorshipUpdateRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.svc.Update(c.Request().Context(), auth.UserID(c), c.Param("id"), req.input())
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Mentorship deleted"})
}

func (h *Handler) request(c echo.Context) error {
	var req joinRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.svc.Request(c.Request().Context(), actor(c), c.Param("id"), req.Message)
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) respond(c echo.Context) error {
	var req respondRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.svc.Respond(c.Request().Context(), auth.UserID(c), c.Param("id"), c.Param("userId"), req.Action == "accept")
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) messages(c echo.Context) error {
	items, err := h.svc.Messages(c.Request().Context(), auth.UserID(c), c.Param("mentorshipId"))
	if err != nil {
		return h.errs.Respond(err)
	}
	if items == nil {
		items = []domain.Message{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) postMessage(c echo.Context) error {
	var req messageRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.svc.PostMessage(c.Request().Context(), actor(c), c.Param("mentorshipId"), req.Content)
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, msg)
}
