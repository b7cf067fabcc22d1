package model

// Property is a managed building or estate.
type Property struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	Type           string `json:"type,omitempty"`
	TotalUnits     int    `json:"totalUnits"`
	AvailableUnits int    `json:"availableUnits"`
	Description    string `json:"description,omitempty"`
}

// PropertyStructure creates a property together with its floors and units in one call.
type PropertyStructure struct {
	PropertyName     string   `json:"propertyName"`
	PropertyAddress  string   `json:"propertyAddress"`
	FloorCount       int      `json:"floorCount"`
	UnitsPerFloor    int      `json:"unitsPerFloor"`
	DefaultRent      float64  `json:"defaultRent"`
	StartFloor       int      `json:"startFloor"`
	CustomFloorUnits *int     `json:"customFloorUnits,omitempty"`
	CustomFloorRent  *float64 `json:"customFloorRent,omitempty"`
}

// Floor is one level of a property.
type Floor struct {
	ID          int64  `json:"id"`
	FloorNumber int    `json:"floorNumber"`
	Name        string `json:"name,omitempty"`
	PropertyID  int64  `json:"propertyId,omitempty"`
}

// PropertyStats are the per-property counters served by the dashboard endpoint.
type PropertyStats struct {
	TotalUnits        int64 `json:"totalUnits"`
	AvailableUnits    int64 `json:"availableUnits"`
	OccupiedUnits     int64 `json:"occupiedUnits"`
	OccupancyRate     int64 `json:"occupancyRate"`
	TenantCount       int64 `json:"tenantCount"`
	PendingPayments   int64 `json:"pendingPayments"`
	CompletedPayments int64 `json:"completedPayments"`
	OverduePayments   int64 `json:"overduePayments"`
}
