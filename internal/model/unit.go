package model

// UnitStatus is the occupancy state of a unit.
type UnitStatus string

const (
	UnitOccupied    UnitStatus = "occupied"
	UnitAvailable   UnitStatus = "available"
	UnitMaintenance UnitStatus = "maintenance"
)

// UnitStatuses lists every status in display order.
var UnitStatuses = []UnitStatus{UnitAvailable, UnitOccupied, UnitMaintenance}

// Valid reports whether s is a known unit status.
func (s UnitStatus) Valid() bool {
	for _, v := range UnitStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Unit is a rentable space inside a property.
type Unit struct {
	ID          int64      `json:"id"`
	UnitNumber  string     `json:"unitNumber"`
	PropertyID  int64      `json:"propertyId,omitempty"`
	FloorID     int64      `json:"floorId,omitempty"`
	MonthlyRent float64    `json:"monthlyRent"`
	Status      UnitStatus `json:"status"`
	Bedrooms    int        `json:"bedrooms,omitempty"`
	Bathrooms   int        `json:"bathrooms,omitempty"`
	FloorArea   float64    `json:"floorArea,omitempty"`
}
