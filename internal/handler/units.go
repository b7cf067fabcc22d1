package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LuckylisaBemeye/Bomahub/internal/middleware"
	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

// UnitRequest is the create/update form of a unit.
type UnitRequest struct {
	UnitNumber  string  `form:"unitNumber"`
	PropertyID  int64   `form:"propertyId"`
	FloorID     int64   `form:"floorId"`
	MonthlyRent float64 `form:"monthlyRent"`
	Status      string  `form:"status"`
	Bedrooms    int     `form:"bedrooms"`
	Bathrooms   int     `form:"bathrooms"`
	FloorArea   float64 `form:"floorArea"`
}

func (r UnitRequest) unit() (model.Unit, error) {
	u := model.Unit{
		UnitNumber:  strings.TrimSpace(r.UnitNumber),
		PropertyID:  r.PropertyID,
		FloorID:     r.FloorID,
		MonthlyRent: r.MonthlyRent,
		Status:      model.UnitStatus(r.Status),
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		FloorArea:   r.FloorArea,
	}
	if u.Status == "" {
		u.Status = model.UnitAvailable
	}
	switch {
	case u.UnitNumber == "":
		return u, client.Validation("Unit number is required")
	case u.PropertyID <= 0:
		return u, client.Validation("Select a property")
	case u.MonthlyRent < 0:
		return u, client.Validation("Monthly rent cannot be negative")
	case !u.Status.Valid():
		return u, client.Validation("Unknown unit status %q", r.Status)
	}
	return u, nil
}

type unitsPage struct {
	view.Page[[]model.Unit]
	Properties []model.Property
	Statuses   []model.UnitStatus
	Property   int64
	Status     string
	Editing    *model.Unit
}

// ListUnits shows the units, filtered by ?property= and ?status=.
func (h *Handler) ListUnits(c echo.Context) error {
	log := logger.FromEcho(c)
	cl := api(c)

	propertyID := queryID(c, "property")
	status := model.UnitStatus(c.QueryParam("status"))
	if !status.Valid() {
		status = ""
	}

	var (
		units      []model.Unit
		properties []model.Property
	)
	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		units, err = cl.ListUnits(ctx)
		return err
	})
	g.Go(func() (err error) {
		properties, err = cl.ListProperties(ctx)
		return err
	})
	err := g.Wait()
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	filtered := view.FilterUnits(units, propertyID, status)
	log.Info("Units retrieved",
		zap.Int("count", len(units)),
		zap.Int("shown", len(filtered)))

	page := unitsPage{
		Page:       view.Load(filtered, err),
		Properties: properties,
		Statuses:   model.UnitStatuses,
		Property:   propertyID,
		Status:     string(status),
	}
	if edit := queryID(c, "edit"); edit > 0 {
		for i := range units {
			if units[i].ID == edit {
				page.Editing = &units[i]
				break
			}
		}
	}
	return h.render(c, "units", "Units", "units", page)
}

// CreateUnit adds a unit to a property.
func (h *Handler) CreateUnit(c echo.Context) error {
	var req UnitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	u, err := req.unit()
	if err == nil {
		_, err = api(c).CreateUnit(reqCtx(c), u)
	}
	return finish(c, "unit", "create", err, fmt.Sprintf("Unit %s created", u.UnitNumber), "Failed to create unit", "/units")
}

// UpdateUnit saves the edit form.
func (h *Handler) UpdateUnit(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UnitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	u, err := req.unit()
	if err == nil {
		_, err = api(c).UpdateUnit(reqCtx(c), id, u)
	}
	return finish(c, "unit", "update", err, "Unit updated", "Failed to update unit", "/units")
}

// UpdateUnitStatus changes only the status of a unit.
func (h *Handler) UpdateUnitStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	status := model.UnitStatus(c.FormValue("status"))
	_, err = api(c).UpdateUnitStatus(reqCtx(c), id, status)
	return finish(c, "unit", "status", err,
		fmt.Sprintf("Unit marked %s", status), "Failed to update unit status",
		backTo(c, "/units"))
}

// DeleteUnit removes a unit.
func (h *Handler) DeleteUnit(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = api(c).DeleteUnit(reqCtx(c), id)
	return finish(c, "unit", "delete", err, "Unit deleted", "Failed to delete unit", "/units")
}

type unitDetails struct {
	Unit      *model.Unit
	Property  *model.Property
	Tenancies []model.UnitTenancy
	Statuses  []model.UnitStatus
}

// ShowUnit shows one unit and its tenancy history.
func (h *Handler) ShowUnit(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cl := api(c)

	d := unitDetails{Statuses: model.UnitStatuses}
	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		d.Unit, err = cl.GetUnit(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Tenancies, err = cl.ListTenanciesByUnit(ctx, id)
		return err
	})
	err = g.Wait()
	if client.IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "Unit not found")
	}
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	if err == nil && d.Unit.PropertyID > 0 {
		if p, perr := cl.GetProperty(reqCtx(c), d.Unit.PropertyID); perr == nil {
			d.Property = p
		}
	}
	if d.Property == nil {
		for _, t := range d.Tenancies {
			if t.Property.ID > 0 {
				p := t.Property
				d.Property = &p
				break
			}
		}
	}

	title := "Unit"
	if d.Unit != nil {
		title = "Unit " + d.Unit.UnitNumber
	}
	return h.render(c, "unit", title, "units", view.Load(d, err))
}

// backTo returns the form's "back" field when it is a local path.
func backTo(c echo.Context, fallback string) string {
	back := c.FormValue("back")
	if back == "" {
		return fallback
	}
	return middleware.SafeRedirect(back)
}
