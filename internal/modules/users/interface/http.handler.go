package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/users/application/usecase"
	"studentForum/internal/modules/users/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type Handler struct {
	svc  *usecase.UserService
	errs *httputil.ErrorMapper
}

func NewHandler(svc *usecase.UserService) *Handler {
	return &Handler{
		svc: svc,
		errs: httputil.NewErrorMapper().
			WithMapping(domain.ErrEmailTaken, http.StatusBadRequest, "User already exists").
			WithMapping(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials").
			WithMapping(domain.ErrUserNotFound, http.StatusNotFound, "User not found"),
	}
}

func (h *Handler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	g.POST("/auth/register", h.register)
	g.POST("/auth/login", h.login)
	g.GET("/auth/me", h.profile, authMW)
	g.GET("/users/profile", h.profile, authMW)
	g.PUT("/users/profile", h.updateProfile, authMW)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=80"`
	Bio        *string  `json:"bio" validate:"omitempty,max=1000"`
	University *string  `json:"university" validate:"omitempty,max=120"`
	Major      *string  `json:"major" validate:"omitempty,max=120"`
	Avatar     *string  `json:"avatar" validate:"omitempty,max=500"`
	Skills     []string `json:"skills" validate:"omitempty,max=30,dive,max=40"`
	Interests  []string `json:"interests" validate:"omitempty,max=30,dive,max=40"`
}

func (h *Handler) register(c echo.Context) error {
	var req registerRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.svc.Register(c.Request().Context(), usecase.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) login(c echo.Context) error {
	var req loginRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) profile(c echo.Context) error {
	p, err := h.svc.Profile(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) updateProfile(c echo.Context) error {
	var req profileRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.svc.UpdateProfile(c.Request().Context(), auth.UserID(c), usecase.ProfileUpdate{
		Name:       req.Name,
		Bio:        req.Bio,
		University: req.University,
		Major:      req.Major,
		Avatar:     req.Avatar,
		Skills:     req.Skills,
		Interests:  req.Interests,
	})
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, p)
}
