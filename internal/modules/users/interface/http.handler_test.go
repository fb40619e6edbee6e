package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"studentForum/internal/modules/users/application/usecase"
	"studentForum/internal/platform/store"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	s, err := store.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	jwtManager := auth.NewJWTManager("secret", time.Hour)
	e := echo.New()
	e.Validator = httputil.NewRequestValidator()
	NewHandler(usecase.NewUserService(s, jwtManager)).Register(e.Group("/api"), auth.RequireAuth(jwtManager))
	return e
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginProfile(t *testing.T) {
	req := require.New(t)
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/auth/register", "", `{"name":"Ada","email":"Ada@Example.com","password":"secret-pass"}`)
	req.Equal(http.StatusCreated, rec.Code, rec.Body.String())
	req.NotContains(rec.Body.String(), "passwordHash")

	rec = do(e, http.MethodPost, "/api/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"secret-pass"}`)
	req.Equal(http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"nope"}`)
	req.Equal(http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"secret-pass"}`)
	req.Equal(http.StatusOK, rec.Code)
	var login usecase.AuthResult
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &login))
	req.NotEmpty(login.Token)
	req.Equal("ada@example.com", login.User.Email)

	rec = do(e, http.MethodGet, "/api/users/profile", "", "")
	req.Equal(http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPut, "/api/users/profile", login.Token, `{"bio":"math","skills":["go"," go ","",  "sql"]}`)
	req.Equal(http.StatusOK, rec.Code, rec.Body.String())
	req.JSONEq(`["go","sql"]`, mustField(t, rec.Body.Bytes(), "skills"))

	rec = do(e, http.MethodGet, "/api/users/profile", login.Token, "")
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`"math"`, mustField(t, rec.Body.Bytes(), "bio"))
}

func TestRegisterValidation(t *testing.T) {
	e := newServer(t)
	rec := do(e, http.MethodPost, "/api/auth/register", "", `{"name":"A","email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "email")
}

func mustField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[field])
}
