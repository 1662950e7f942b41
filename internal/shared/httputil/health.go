package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the body returned by every service's root endpoint.
type HealthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// NewHealthHandler reports the service as running.
func NewHealthHandler(service string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Service: service, Status: "running"})
	}
}
