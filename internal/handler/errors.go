package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

type errorPage struct {
	Status  int
	Message string
}

// ErrorHandler renders failed requests as an HTML page.
func (h *Handler) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	log := logger.FromEcho(c)

	code := http.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Int("status", code), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Int("status", code), zap.String("message", msg))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.Render(code, "error", h.page(c, http.StatusText(code), "", errorPage{Status: code, Message: msg}))
	}
	if err != nil {
		log.Error("Failed to render error page", zap.Error(err))
	}
}

// Health reports that the console process is up.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
