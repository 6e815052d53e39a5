package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func respond(c echo.Context, code int, message string, data any) error {
	body := echo.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(code, body)
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"success": false, "message": message})
}

// failInternal hides the underlying error outside development.
func failInternal(c echo.Context, env, message string, err error) error {
	body := echo.Map{"success": false, "message": message}
	if env != "production" && err != nil {
		body["error"] = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, body)
}
