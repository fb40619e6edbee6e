package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "bearer"

// BearerToken returns the credentials of an "Authorization: Bearer <token>" value.
// The scheme is matched case-insensitively; any other scheme yields "".
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// ExtractToken reads the bearer header first, then the queryParam ("token" when empty).
// Browsers cannot set headers on a websocket upgrade, so sockets send the query form.
func ExtractToken(r *http.Request, queryParam string) string {
	if r == nil {
		return ""
	}
	if token := BearerToken(r.Header.Get(echo.HeaderAuthorization)); token != "" {
		return token
	}
	if r.URL == nil {
		return ""
	}
	if queryParam == "" {
		queryParam = "token"
	}
	return strings.TrimSpace(r.URL.Query().Get(queryParam))
}
