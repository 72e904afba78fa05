package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/maoni/core/feedback"
)

// bindQueryFilter binds the admin list filter by hand: echo's query binder
// chokes on the pointer Rating field, and a junk rating should read as a 400
// rather than silently match nothing.
func bindQueryFilter(ctx echo.Context) (feedback.QueryFilter, error) {
	filter := feedback.QueryFilter{Course: ctx.QueryParam("course")}
	if raw := ctx.QueryParam("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid rating")
		}
		filter.Rating = &rating
	}
	filter.Clean()
	return filter, nil
}
