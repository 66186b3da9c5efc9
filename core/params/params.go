package params

import (
	"strconv"

	"optimeet/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams holds the common list query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// NewQueryParams parses page/limit query params with defaults.
func NewQueryParams(ctx echo.Context) *QueryParams {
	p := &QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
	}

	if v, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil && v > 0 {
		p.PageSize = v
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}

	return p
}
