package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/internal/middleware"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
	"github.com/LuckylisaBemeye/Bomahub/prometheus"
)

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

type loginPage struct {
	Username string
	Next     string
	Error    string
}

// LoginForm shows the sign-in page, or skips it for a signed-in user.
func (h *Handler) LoginForm(c echo.Context) error {
	next := middleware.SafeRedirect(c.QueryParam("next"))
	if middleware.CurrentState(c).IsAuthenticated {
		return c.Redirect(http.StatusSeeOther, next)
	}
	return h.render(c, "login", "Sign in", "", loginPage{Next: next})
}

// Login authenticates against the property API.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid login form", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	next := middleware.SafeRedirect(req.Next)

	user, err := middleware.GetSession(c).Login(reqCtx(c), client.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	prometheus.RecordLogin(err == nil)
	if err != nil {
		log.Warn("Login failed",
			zap.String("username", req.Username),
			zap.String("kind", string(client.KindOf(err))))
		page := h.page(c, "Sign in", "", loginPage{
			Username: req.Username,
			Next:     next,
			Error:    client.Message(err, "Invalid username or password"),
		})
		status := http.StatusUnauthorized
		if client.KindOf(err) == client.KindValidation {
			status = http.StatusUnprocessableEntity
		}
		return c.Render(status, "login", page)
	}

	log.Info("User signed in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	middleware.SetFlash(c, middleware.FlashSuccess, "Welcome back, "+user.DisplayName())
	return c.Redirect(http.StatusSeeOther, next)
}

// Logout ends the session locally and upstream.
func (h *Handler) Logout(c echo.Context) error {
	log := logger.FromEcho(c)
	if err := middleware.GetSession(c).Logout(reqCtx(c)); err != nil {
		log.Warn("Upstream logout failed", zap.Error(err))
		middleware.SetFlash(c, middleware.FlashError, client.Message(err, "Logout failed"))
	} else {
		log.Info("User signed out")
		middleware.SetFlash(c, middleware.FlashSuccess, "You have been signed out")
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}
