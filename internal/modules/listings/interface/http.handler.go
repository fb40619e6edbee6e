package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/listings/application/usecase"
	"studentForum/internal/modules/listings/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type Handler struct {
	svc  *usecase.ListingService
	errs *httputil.ErrorMapper
}

func NewHandler(svc *usecase.ListingService) *Handler {
	return &Handler{
		svc: svc,
		errs: httputil.NewErrorMapper().
			WithMapping(domain.ErrListingNotFound, http.StatusNotFound, "Listing not found").
			WithMapping(domain.ErrNotPoster, http.StatusForbidden, "Not authorized").
			WithMapping(domain.ErrUnknownKind, http.StatusBadRequest, "Unknown listing kind"),
	}
}

// Register mounts /opportunities and /scholarships with the same routes.
func (h *Handler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	for prefix, kind := range map[string]domain.Kind{
		"/opportunities": domain.KindOpportunity,
		"/scholarships":  domain.KindScholarship,
	} {
		sub := g.Group(prefix)
		sub.GET("", h.list(kind))
		sub.GET("/:id", h.get(kind))
		sub.POST("", h.create(kind), authMW)
		sub.DELETE("/:id", h.delete(kind), authMW)
	}
}

type listingRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required"`
	Category     string   `json:"category" validate:"max=60"`
	Organization string   `json:"organization" validate:"max=120"`
	Location     string   `json:"location" validate:"max=120"`
	Link         string   `json:"link" validate:"omitempty,url"`
	Deadline     string   `json:"deadline"`
	Amount       string   `json:"amount"`
	Requirements []string `json:"requirements" validate:"max=20"`
	Tags         []string `json:"tags" validate:"max=10,dive,max=30"`
}

func (h *Handler) list(kind domain.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := h.svc.List(c.Request().Context(), kind, c.QueryParam("category"), c.QueryParam("search"))
		if err != nil {
			return h.errs.Respond(err)
		}
		return c.JSON(http.StatusOK, httputil.Paginate(c, items))
	}
}

func (h *Handler) get(kind domain.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		l, err := h.svc.Get(c.Request().Context(), kind, c.Param("id"))
		if err != nil {
			return h.errs.Respond(err)
		}
		return c.JSON(http.StatusOK, l)
	}
}

func (h *Handler) create(kind domain.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req listingRequest
		if err := httputil.BindAndValidate(c, &req); err != nil {
			return err
		}
		l, err := h.svc.Create(c.Request().Context(), kind, auth.UserID(c), domain.Listing{
			Title:        req.Title,
			Description:  req.Description,
			Category:     req.Category,
			Organization: req.Organization,
			Location:     req.Location,
			Link:         req.Link,
			Deadline:     req.Deadline,
			Amount:       req.Amount,
			Requirements: req.Requirements,
			Tags:         req.Tags,
		})
		if err != nil {
			return h.errs.Respond(err)
		}
		return c.JSON(http.StatusCreated, l)
	}
}

func (h *Handler) delete(kind domain.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin := false
		if claims := auth.ClaimsFrom(c); claims != nil {
			admin = claims.HasRole(auth.RoleAdmin)
		}
		if err := h.svc.Delete(c.Request().Context(), kind, auth.UserID(c), admin, c.Param("id")); err != nil {
			return h.errs.Respond(err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Listing deleted"})
	}
}
