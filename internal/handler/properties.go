package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

// PropertyRequest is the create/update form of a property. When FloorCount is
// set, creation also lays out floors and units.
type PropertyRequest struct {
	Name             string  `form:"name"`
	Address          string  `form:"address"`
	Type             string  `form:"type"`
	TotalUnits       int     `form:"totalUnits"`
	Description      string  `form:"description"`
	FloorCount       int     `form:"floorCount"`
	UnitsPerFloor    int     `form:"unitsPerFloor"`
	DefaultRent      float64 `form:"defaultRent"`
	StartFloor       int     `form:"startFloor"`
	CustomFloorUnits string  `form:"customFloorUnits"`
	CustomFloorRent  string  `form:"customFloorRent"`
}

func (r PropertyRequest) property() model.Property {
	return model.Property{
		Name:        strings.TrimSpace(r.Name),
		Address:     strings.TrimSpace(r.Address),
		Type:        r.Type,
		TotalUnits:  r.TotalUnits,
		Description: r.Description,
	}
}

func (r PropertyRequest) structure() (model.PropertyStructure, error) {
	s := model.PropertyStructure{
		PropertyName:    strings.TrimSpace(r.Name),
		PropertyAddress: strings.TrimSpace(r.Address),
		FloorCount:      r.FloorCount,
		UnitsPerFloor:   r.UnitsPerFloor,
		DefaultRent:     r.DefaultRent,
		StartFloor:      r.StartFloor,
	}
	if v := strings.TrimSpace(r.CustomFloorUnits); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, client.Validation("Custom floor units must be a whole number")
		}
		s.CustomFloorUnits = &n
	}
	if v := strings.TrimSpace(r.CustomFloorRent); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, client.Validation("Custom floor rent must be a number")
		}
		s.CustomFloorRent = &f
	}
	return s, nil
}

type propertiesPage struct {
	view.Page[[]model.Property]
	Editing *model.Property
}

// ListProperties shows every property. ?edit=ID opens the edit form.
func (h *Handler) ListProperties(c echo.Context) error {
	properties, err := api(c).ListProperties(reqCtx(c))
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	page := propertiesPage{Page: view.Load(properties, err)}
	if edit := queryID(c, "edit"); edit > 0 {
		for i := range properties {
			if properties[i].ID == edit {
				page.Editing = &properties[i]
				break
			}
		}
	}
	return h.render(c, "properties", "Properties", "properties", page)
}

// CreateProperty adds a property, optionally with its floors and units.
func (h *Handler) CreateProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid property form", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}

	if req.FloorCount > 0 {
		st, err := req.structure()
		msg := ""
		if err == nil {
			msg, err = api(c).CreatePropertyStructure(reqCtx(c), st)
		}
		if msg == "" {
			msg = fmt.Sprintf("Property %s created with %d floors", st.PropertyName, st.FloorCount)
		}
		return finish(c, "property", "create_structure", err, msg, "Failed to create property", "/properties")
	}

	if req.Name == "" {
		return finish(c, "property", "create", client.Validation("Property name is required"), "", "", "/properties")
	}
	p, err := api(c).CreateProperty(reqCtx(c), req.property())
	msg := ""
	if err == nil {
		msg = fmt.Sprintf("Property %s created", p.Name)
	}
	return finish(c, "property", "create", err, msg, "Failed to create property", "/properties")
}

// UpdateProperty saves the edit form.
func (h *Handler) UpdateProperty(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if req.Name == "" {
		return finish(c, "property", "update", client.Validation("Property name is required"), "", "", "/properties?edit="+c.Param("id"))
	}
	_, err = api(c).UpdateProperty(reqCtx(c), id, req.property())
	return finish(c, "property", "update", err, "Property updated", "Failed to update property", "/properties")
}

// DeleteProperty removes a property.
func (h *Handler) DeleteProperty(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = api(c).DeleteProperty(reqCtx(c), id)
	return finish(c, "property", "delete", err, "Property deleted", "Failed to delete property", "/properties")
}

type propertyDetails struct {
	Property  *model.Property
	Stats     *model.PropertyStats
	Floors    []model.Floor
	Units     []model.Unit
	Tenancies []model.UnitTenancy
	Payments  []model.Payment
}

// ShowProperty shows one property with its counters, floors and units.
func (h *Handler) ShowProperty(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	log := logger.FromEcho(c)
	cl := api(c)

	var d propertyDetails
	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		d.Property, err = cl.GetProperty(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Units, err = cl.ListUnitsByProperty(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Tenancies, err = cl.ListTenanciesByProperty(ctx, id)
		return err
	})
	// Stats, floors and payments are optional; a failure only hides their panels.
	g.Go(func() error {
		stats, err := cl.PropertyStats(ctx, id)
		if err != nil {
			log.Debug("Property stats unavailable", zap.Int64("property_id", id), zap.Error(err))
			return nil
		}
		d.Stats = stats
		return nil
	})
	g.Go(func() error {
		floors, err := cl.ListFloors(ctx, id)
		if err != nil {
			log.Debug("Property floors unavailable", zap.Int64("property_id", id), zap.Error(err))
			return nil
		}
		d.Floors = floors
		return nil
	})
	g.Go(func() error {
		payments, err := cl.ListPaymentsByProperty(ctx, id)
		if err != nil {
			log.Debug("Property payments unavailable", zap.Int64("property_id", id), zap.Error(err))
			return nil
		}
		d.Payments = payments
		return nil
	})
	err = g.Wait()
	if client.IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "Property not found")
	}
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	title := "Property"
	if d.Property != nil {
		title = d.Property.Name
	}
	return h.render(c, "property", title, "properties", view.Load(d, err))
}
