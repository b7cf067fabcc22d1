package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
)

// TenancyRequest is the create/update form of a single tenancy.
type TenancyRequest struct {
	UnitID          int64   `form:"unitId"`
	TenantID        int64   `form:"tenantId"`
	StartDate       string  `form:"startDate"`
	EndDate         string  `form:"endDate"`
	MonthlyRent     float64 `form:"monthlyRent"`
	SecurityDeposit float64 `form:"securityDeposit"`
	LeaseDocument   string  `form:"leaseDocument"`
}

func (r TenancyRequest) input() (model.TenancyInput, error) {
	start, err := model.ParseDate(r.StartDate)
	if err != nil {
		return model.TenancyInput{}, client.Validation("Start date is invalid")
	}
	end, err := model.ParseDate(r.EndDate)
	if err != nil {
		return model.TenancyInput{}, client.Validation("End date is invalid")
	}
	return model.TenancyInput{
		UnitID:          r.UnitID,
		TenantID:        r.TenantID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     r.MonthlyRent,
		SecurityDeposit: r.SecurityDeposit,
		LeaseDocument:   strings.TrimSpace(r.LeaseDocument),
	}, nil
}

type tenanciesPage struct {
	view.Page[[]model.UnitTenancy]
	Units   []model.Unit
	Tenants []model.Tenant
	Editing *model.UnitTenancy
}

// ListTenancies shows every tenancy. ?edit=ID opens the edit form.
func (h *Handler) ListTenancies(c echo.Context) error {
	cl := api(c)

	var page tenanciesPage
	var tenancies []model.UnitTenancy
	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		tenancies, err = cl.ListTenancies(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Units, err = cl.ListUnits(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Tenants, err = cl.ListTenants(ctx)
		return err
	})
	if edit := queryID(c, "edit"); edit > 0 {
		g.Go(func() error {
			t, err := cl.GetTenancy(ctx, edit)
			if client.IsNotFound(err) {
				return nil
			}
			page.Editing = t
			return err
		})
	}
	err := g.Wait()
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	page.Page = view.Load(tenancies, err)
	return h.render(c, "tenancies", "Tenancies", "tenancies", page)
}

// CreateTenancy assigns an existing tenant to a unit.
func (h *Handler) CreateTenancy(c echo.Context) error {
	var req TenancyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	in, err := req.input()
	if err == nil {
		_, err = api(c).CreateTenancy(reqCtx(c), in)
	}
	return finish(c, "tenancy", "create", err, "Tenancy created", "Failed to create tenancy", "/tenancies")
}

// UpdateTenancy saves the edit form.
func (h *Handler) UpdateTenancy(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req TenancyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	in, err := req.input()
	if err == nil {
		_, err = api(c).UpdateTenancy(reqCtx(c), id, in)
	}
	return finish(c, "tenancy", "update", err, "Tenancy updated", "Failed to update tenancy", "/tenancies")
}

// TerminateTenancy ends a tenancy as of today.
func (h *Handler) TerminateTenancy(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = api(c).TerminateTenancy(reqCtx(c), id, model.Today())
	return finish(c, "tenancy", "terminate", err, "Tenancy terminated", "Failed to terminate tenancy", backTo(c, "/tenancies"))
}

// DeleteTenancy removes a tenancy record.
func (h *Handler) DeleteTenancy(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = api(c).DeleteTenancy(reqCtx(c), id)
	return finish(c, "tenancy", "delete", err, "Tenancy deleted", "Failed to delete tenancy", "/tenancies")
}
