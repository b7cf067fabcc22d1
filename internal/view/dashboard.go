package view

import (
	"math"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

// Dashboard holds the headline counters of the home page.
type Dashboard struct {
	Properties       int
	Units            int
	OccupiedUnits    int
	VacantUnits      int
	MaintenanceUnits int
	Tenants          int
	OccupancyRate    int
}

// DashboardStats counts units by status. The occupancy rate is a whole percentage.
func DashboardStats(properties []model.Property, units []model.Unit, tenants []model.Tenant) Dashboard {
	d := Dashboard{
		Properties: len(properties),
		Units:      len(units),
		Tenants:    len(tenants),
	}
	for _, u := range units {
		switch u.Status {
		case model.UnitOccupied:
			d.OccupiedUnits++
		case model.UnitAvailable:
			d.VacantUnits++
		case model.UnitMaintenance:
			d.MaintenanceUnits++
		}
	}
	if d.Units > 0 {
		d.OccupancyRate = int(math.Round(float64(d.OccupiedUnits) * 100 / float64(d.Units)))
	}
	return d
}

// FilterUnits narrows a unit list by property id and status. Zero values match everything.
func FilterUnits(units []model.Unit, propertyID int64, status model.UnitStatus) []model.Unit {
	out := make([]model.Unit, 0, len(units))
	for _, u := range units {
		if propertyID != 0 && u.PropertyID != propertyID {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, u)
	}
	return out
}
