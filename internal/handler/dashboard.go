package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

type dashboardPage struct {
	view.Page[view.Dashboard]
	Properties []model.Property
}

// Dashboard shows the portfolio counters.
func (h *Handler) Dashboard(c echo.Context) error {
	log := logger.FromEcho(c)
	cl := api(c)

	var (
		properties []model.Property
		units      []model.Unit
		tenants    []model.Tenant
	)
	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		properties, err = cl.ListProperties(ctx)
		return err
	})
	g.Go(func() (err error) {
		units, err = cl.ListUnits(ctx)
		return err
	})
	g.Go(func() (err error) {
		tenants, err = cl.ListTenants(ctx)
		return err
	})
	err := g.Wait()
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	stats := view.DashboardStats(properties, units, tenants)
	if err == nil {
		log.Info("Dashboard loaded",
			zap.Int("properties", stats.Properties),
			zap.Int("units", stats.Units),
			zap.Int("tenants", stats.Tenants))
	}
	return h.render(c, "dashboard", "Dashboard", "dashboard", dashboardPage{
		Page:       view.Load(stats, err),
		Properties: properties,
	})
}
