package httputil

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	// HeaderTotalCount carries the unpaged item count of a paginated list.
	HeaderTotalCount = "X-Total-Count"
)

// PageQuery is the page/limit pair of a list request.
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize returns a copy with page >= 1 and limit in [1, 100], defaulting to 20.
func (q PageQuery) Normalize() PageQuery {
	normalized := q
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultPageLimit
	}
	if normalized.Limit > maxPageLimit {
		normalized.Limit = maxPageLimit
	}
	return normalized
}

// Offset is the index of the first item of the page.
func (q PageQuery) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.Limit
}

// PageFromQuery reads ?page= and ?limit=. ok is false when neither is present.
func PageFromQuery(c echo.Context) (PageQuery, bool) {
	rawPage := strings.TrimSpace(c.QueryParam("page"))
	rawLimit := strings.TrimSpace(c.QueryParam("limit"))
	if rawPage == "" && rawLimit == "" {
		return PageQuery{}, false
	}
	page, _ := strconv.Atoi(rawPage)
	limit, _ := strconv.Atoi(rawLimit)
	return PageQuery{Page: page, Limit: limit}.Normalize(), true
}

// Paginate slices items when the request asks for a page and reports the total in
// X-Total-Count. Without paging parameters items are returned whole. The result is never nil.
func Paginate[T any](c echo.Context, items []T) []T {
	if items == nil {
		items = []T{}
	}
	q, ok := PageFromQuery(c)
	if !ok {
		return items
	}
	c.Response().Header().Set(HeaderTotalCount, strconv.Itoa(len(items)))
	return lo.Slice(items, q.Offset(), q.Offset()+q.Limit)
}
