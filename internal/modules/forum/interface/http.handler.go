package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentForum/internal/modules/forum/application/usecase"
	"studentForum/internal/modules/forum/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type Handler struct {
	svc  *usecase.ForumService
	errs *httputil.ErrorMapper
}

func NewHandler(svc *usecase.ForumService) *Handler {
	return &Handler{
		svc: svc,
		errs: httputil.NewErrorMapper().
			WithMapping(domain.ErrQuestionNotFound, http.StatusNotFound, "Question not found").
			WithMapping(domain.ErrAnswerNotFound, http.StatusNotFound, "Answer not found").
			WithMapping(domain.ErrNotAuthor, http.StatusForbidden, "Not authorized"),
	}
}

// Register mounts question and answer routes. Reads are public.
func (h *Handler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	g.GET("/questions", h.listQuestions)
	g.GET("/questions/:id", h.getQuestion)
	g.POST("/questions", h.createQuestion, authMW)
	g.PUT("/questions/:id", h.updateQuestion, authMW)
	g.DELETE("/questions/:id", h.deleteQuestion, authMW)
	g.POST("/questions/:id/answers", h.createAnswer, authMW)

	g.PUT("/answers/:id", h.updateAnswer, authMW)
	g.DELETE("/answers/:id", h.deleteAnswer, authMW)
	g.PUT("/answers/:id/upvote", h.upvote, authMW)
}

type questionRequest struct {
	Title   string   `json:"title" validate:"required,min=5,max=200"`
	Content string   `json:"content" validate:"required,min=10"`
	Tags    []string `json:"tags" validate:"max=10,dive,max=30"`
}

type questionUpdateRequest struct {
	Title   string   `json:"title" validate:"omitempty,min=5,max=200"`
	Content string   `json:"content" validate:"omitempty,min=10"`
	Tags    []string `json:"tags" validate:"omitempty,max=10,dive,max=30"`
}

type answerRequest struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

func author(c echo.Context) usecase.Author {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		return usecase.Author{}
	}
	return usecase.Author{ID: claims.Subject, Name: claims.Name}
}

func (h *Handler) listQuestions(c echo.Context) error {
	items, err := h.svc.ListQuestions(c.Request().Context(), c.QueryParam("tag"), c.QueryParam("search"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, httputil.Paginate(c, items))
}

func (h *Handler) getQuestion(c echo.Context) error {
	detail, err := h.svc.GetQuestion(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errs.Respond(err)
	}
	if detail.AnswerList == nil {
		detail.AnswerList = []domain.Answer{}
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) createQuestion(c echo.Context) error {
	var req questionRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.svc.CreateQuestion(c.Request().Context(), author(c), usecase.QuestionInput{Title: req.Title, Content: req.Content, Tags: req.Tags})
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *Handler) updateQuestion(c echo.Context) error {
	var req questionUpdateRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.svc.UpdateQuestion(c.Request().Context(), auth.UserID(c), c.Param("id"), usecase.QuestionInput{Title: req.Title, Content: req.Content, Tags: req.Tags})
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) deleteQuestion(c echo.Context) error {
	if err := h.svc.DeleteQuestion(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Question deleted"})
}

func (h *Handler) createAnswer(c echo.Context) error {
	var req answerRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := h.svc.CreateAnswer(c.Request().Context(), author(c), c.Param("id"), req.Content)
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) updateAnswer(c echo.Context) error {
	var req answerRequest
	if err := httputil.BindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := h.svc.UpdateAnswer(c.Request().Context(), auth.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) deleteAnswer(c echo.Context) error {
	if err := h.svc.DeleteAnswer(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Answer deleted"})
}

func (h *Handler) upvote(c echo.Context) error {
	a, err := h.svc.ToggleUpvote(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return h.errs.Respond(err)
	}
	return c.JSON(http.StatusOK, a)
}
