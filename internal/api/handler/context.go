package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ctxCaller extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a missing user id means the middleware
// did not run or the token was structurally unusable.
func ctxCaller(c echo.Context) (userID string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// pageParams reads page/size query parameters, clamping negatives to zero and
// defaulting size to 10.
func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	return page, size
}
