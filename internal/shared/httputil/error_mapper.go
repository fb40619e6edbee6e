package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"studentForum/internal/platform/store"
)

const internalMessage = "Something went wrong!"

// HTTPErrorInfo is the status and client-facing message an error maps to.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

type errorMapping struct {
	target error
	info   HTTPErrorInfo
}

// ErrorMapper translates service errors into HTTP responses for one handler.
// Mappings are checked with errors.Is in registration order, after the context
// errors and before the store fallbacks.
type ErrorMapper struct {
	mappings []errorMapping
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, errorMapping{target: err, info: HTTPErrorInfo{Status: status, Message: message}})
	return m
}

var fallbackMappings = []errorMapping{
	{target: context.DeadlineExceeded, info: HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}},
	{target: context.Canceled, info: HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}},
}

var storeMappings = []errorMapping{
	{target: store.ErrNotFound, info: HTTPErrorInfo{Status: http.StatusNotFound, Message: "Not found"}},
	{target: store.ErrDuplicate, info: HTTPErrorInfo{Status: http.StatusConflict, Message: "Already exists"}},
}

func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}
	for _, group := range [][]errorMapping{fallbackMappings, m.mappings, storeMappings} {
		if found, ok := lo.Find(group, func(mp errorMapping) bool { return errors.Is(err, mp.target) }); ok {
			return found.info
		}
	}
	return HTTPErrorInfo{Status: http.StatusInternalServerError, Message: internalMessage}
}

// Respond converts err for an echo handler. *echo.HTTPError values pass through
// untouched; 5xx errors are logged because the client only sees a generic message.
func (m *ErrorMapper) Respond(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	info := m.Map(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("request failed", slog.Int("status", info.Status), slog.Any("error", err))
	}
	return echo.NewHTTPError(info.Status, info.Message)
}
