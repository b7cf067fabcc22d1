package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/internal/middleware"
	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/session"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
	"github.com/LuckylisaBemeye/Bomahub/prometheus"
)

// Handler serves the console pages.
type Handler struct {
	AppName string
}

// New creates a page handler.
func New(appName string) *Handler {
	if appName == "" {
		appName = "Bomahub"
	}
	return &Handler{AppName: appName}
}

// Page is the data every template receives.
type Page struct {
	AppName string
	Title   string
	Nav     string
	Path    string
	State   session.State
	Flash   *middleware.Flash
	CSRF    string
	Content any
}

func (h *Handler) page(c echo.Context, title, nav string, content any) Page {
	csrf, _ := c.Get("csrf").(string)
	return Page{
		AppName: h.AppName,
		Title:   title,
		Nav:     nav,
		Path:    c.Request().URL.RequestURI(),
		State:   middleware.CurrentState(c),
		Flash:   middleware.PopFlash(c),
		CSRF:    csrf,
		Content: content,
	}
}

func (h *Handler) render(c echo.Context, name, title, nav string, content any) error {
	return c.Render(http.StatusOK, name, h.page(c, title, nav, content))
}

func api(c echo.Context) *client.Client {
	return middleware.GetSession(c).API()
}

func reqCtx(c echo.Context) context.Context {
	return c.Request().Context()
}

// expired handles an upstream 401: the session is dropped and the browser sent to the login page.
func expired(c echo.Context) error {
	if s := middleware.GetSession(c); s != nil {
		s.Invalidate()
	}
	middleware.SetFlash(c, middleware.FlashError, "Your session has expired. Please sign in again.")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// loadError reports whether a page fetch failed in a way that must leave the page.
// When it returns true, the response has been written.
func loadError(c echo.Context, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if client.IsUnauthorized(err) {
		return true, expired(c)
	}
	logger.FromEcho(c).Warn("Failed to load page data", zap.Error(err))
	return false, nil
}

// finish ends a mutation with a flash message and a redirect, so the next GET refetches.
func finish(c echo.Context, entity, action string, err error, success, fallback, redirectTo string) error {
	prometheus.RecordOperation(entity, action, err)
	log := logger.FromEcho(c)
	if err != nil {
		if client.IsUnauthorized(err) {
			return expired(c)
		}
		log.Warn("Operation failed",
			zap.String("entity", entity),
			zap.String("action", action),
			zap.Error(err))
		middleware.SetFlash(c, middleware.FlashError, client.Message(err, fallback))
	} else {
		log.Info("Operation succeeded",
			zap.String("entity", entity),
			zap.String("action", action))
		middleware.SetFlash(c, middleware.FlashSuccess, success)
	}
	return c.Redirect(http.StatusSeeOther, redirectTo)
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Page not found")
	}
	return id, nil
}

func queryID(c echo.Context, name string) int64 {
	id, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func currentUser(c echo.Context) *model.User {
	return middleware.CurrentState(c).User
}
