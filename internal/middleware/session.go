package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/session"
	"github.com/LuckylisaBemeye/Bomahub/pkg/jwtutil"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

const sessionKey = "session"

// SessionConfig configures the console session cookie.
type SessionConfig struct {
	Manager    *session.Manager
	JWT        *jwtutil.JWTUtil
	CookieName string
	Secure     bool
}

// SessionMiddleware restores the browser's session before the handler runs and
// persists it right before the response headers are written.
func SessionMiddleware(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "bomahub_session"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)
			req := c.Request()

			var id string
			hadCookie := false
			if cookie, err := c.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				hadCookie = true
				claims, err := cfg.JWT.ValidateToken(cookie.Value)
				if err != nil {
					log.Debug("Ignoring invalid session cookie", zap.Error(err))
				} else {
					id = claims.SessionID()
				}
			}

			sess, err := cfg.Manager.Open(req.Context(), id)
			if err != nil {
				log.Error("Failed to open session", zap.Error(err))
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Session storage is unavailable")
			}
			c.Set(sessionKey, sess)

			saved := false
			persist := func() {
				if saved {
					return
				}
				saved = true
				if err := cfg.Manager.Save(req.Context(), sess); err != nil {
					log.Error("Failed to save session", zap.Error(err))
				}
				st := sess.State()
				if st.IsAuthenticated || len(sess.API().Cookies()) > 0 {
					token, err := cfg.JWT.GenerateToken(sess.ID())
					if err != nil {
						log.Error("Failed to sign session cookie", zap.Error(err))
						return
					}
					setCookie(c, cfg, token, int(cfg.Manager.TTL().Seconds()))
				} else if hadCookie {
					setCookie(c, cfg, "", -1)
				}
			}
			c.Response().Before(persist)

			err = next(c)
			if !c.Response().Committed {
				persist()
			}
			return err
		}
	}
}

func setCookie(c echo.Context, cfg SessionConfig, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSession returns the session restored by SessionMiddleware, or nil.
func GetSession(c echo.Context) *session.Session {
	s, _ := c.Get(sessionKey).(*session.Session)
	return s
}

// CurrentState returns the session state, or the zero State when no session is attached.
func CurrentState(c echo.Context) session.State {
	if s := GetSession(c); s != nil {
		return s.State()
	}
	return session.State{}
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentState(c).IsAuthenticated {
			return next(c)
		}
		target := "/login"
		if c.Request().Method == http.MethodGet && c.Request().URL.Path != "/" {
			target += "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
		}
		return c.Redirect(http.StatusSeeOther, target)
	}
}

// RequireRole rejects users whose role is below min.
func RequireRole(min model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := CurrentState(c)
			if !st.HasRole(min) {
				logger.FromEcho(c).Warn("Role check failed",
					zap.String("path", c.Path()),
					zap.String("required", string(min)))
				return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to access this page")
			}
			return next(c)
		}
	}
}

// SafeRedirect keeps post-login redirects on this site.
func SafeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
