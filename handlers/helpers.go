package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// queryInt64 parses an optional integer query parameter, nil when absent.
func queryInt64(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func invalidID(c echo.Context) error {
	return errorJSON(c, http.StatusBadRequest, "ID không hợp lệ")
}
