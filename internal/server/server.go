// Package server assembles the console: echo, its middleware chain and the page routes.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/internal/handler"
	mid "github.com/LuckylisaBemeye/Bomahub/internal/middleware"
	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/session"
	"github.com/LuckylisaBemeye/Bomahub/pkg/config"
	"github.com/LuckylisaBemeye/Bomahub/pkg/jwtutil"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"

// ipExtractor reads the peer address directly unless trusted proxies are
// configured; only then is X-Forwarded-For consulted.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// Server is the HTTP front of the console.
type Server struct {
	echo    *echo.Echo
	cfg     *config.Config
	limiter *mid.RateLimiter
}

// New builds the echo instance with every route registered.
func New(cfg *config.Config, manager *session.Manager, jwt *jwtutil.JWTUtil) (*Server, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	trusted, err := cfg.TrustedProxyNets()
	if err != nil {
		return nil, err
	}
	e.IPExtractor = ipExtractor(trusted)

	h := handler.New(cfg.ServiceName)
	e.HTTPErrorHandler = h.ErrorHandler

	s := &Server{
		echo:    e,
		cfg:     cfg,
		limiter: mid.NewRateLimiter(cfg.Security.LoginRatePerMinute),
	}

	// Forms tunnel PUT, PATCH and DELETE through POST.
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: contentSecurityPolicy,
		ReferrerPolicy:        "same-origin",
	}))
	if cfg.Security.CSRF {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper:        infraPath,
			TokenLookup:    "form:_csrf",
			ContextKey:     "csrf",
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.Session.Secure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	// Routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)
	e.StaticFS("/static", handler.StaticFS())

	sess := mid.SessionMiddleware(mid.SessionConfig{
		Manager:    manager,
		JWT:        jwt,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})
	manage := mid.RequireRole(model.RoleManager)

	e.GET("/login", h.LoginForm, sess)
	e.POST("/login", h.Login, s.limiter.Middleware(), sess)
	e.POST("/logout", h.Logout, sess)
	e.GET("/", h.Dashboard, sess, mid.RequireAuth)

	properties := e.Group("/properties", sess, mid.RequireAuth)
	properties.GET("", h.ListProperties)
	properties.POST("", h.CreateProperty, manage)
	properties.GET("/:id", h.ShowProperty)
	properties.PUT("/:id", h.UpdateProperty, manage)
	properties.DELETE("/:id", h.DeleteProperty, manage)

	units := e.Group("/units", sess, mid.RequireAuth)
	units.GET("", h.ListUnits)
	units.POST("", h.CreateUnit, manage)
	units.GET("/:id", h.ShowUnit)
	units.PUT("/:id", h.UpdateUnit, manage)
	units.PATCH("/:id/status", h.UpdateUnitStatus, manage)
	units.DELETE("/:id", h.DeleteUnit, manage)

	tenants := e.Group("/tenants", sess, mid.RequireAuth)
	tenants.GET("", h.ListTenants)
	tenants.POST("", h.CreateTenant, manage)
	tenants.GET("/:id", h.ShowTenant)
	tenants.PUT("/:id", h.UpdateTenant, manage)
	tenants.DELETE("/:id", h.DeleteTenant, manage)
	tenants.POST("/:id/remove", h.RemoveTenant, manage)
	tenants.POST("/:id/payments", h.ProcessPayment, manage)

	tenancies := e.Group("/tenancies", sess, mid.RequireAuth)
	tenancies.GET("", h.ListTenancies)
	tenancies.POST("", h.CreateTenancy, manage)
	tenancies.PUT("/:id", h.UpdateTenancy, manage)
	tenancies.PATCH("/:id/terminate", h.TerminateTenancy, manage)
	tenancies.DELETE("/:id", h.DeleteTenancy, manage)

	payments := e.Group("/payments", sess, mid.RequireAuth)
	payments.GET("", h.ListPayments)
	payments.GET("/:id", h.ShowPayment)
	payments.PATCH("/:id/status", h.UpdatePaymentStatus, manage)

	users := e.Group("/users", sess, mid.RequireAuth, mid.RequireRole(model.RoleAdmin))
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	return s, nil
}

func infraPath(c echo.Context) bool {
	switch c.Path() {
	case "/health", "/metrics", "/static/*":
		return true
	}
	return false
}

// ServeHTTP lets the server be mounted or tested without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	logger.GetLogger().Info("Starting server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.echo.Shutdown(ctx)
}
