package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/LuckylisaBemeye/Bomahub/prometheus"
)

// MetricsMiddleware records request count and duration per route
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
			status = he.Code
		}
		prometheus.ObserveHTTP(c.Request().Method, c.Path(), status, time.Since(start))

		return err
	}
}
