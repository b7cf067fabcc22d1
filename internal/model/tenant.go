package model

// Tenant is a person renting one or more units.
type Tenant struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	IDNumber         string `json:"idNumber,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
}

// TenancyStatus is the lifecycle state of a tenancy.
type TenancyStatus string

const (
	TenancyActive   TenancyStatus = "active"
	TenancyInactive TenancyStatus = "inactive"
)

// UnitTenancy links one tenant to one unit of a property for a date range.
type UnitTenancy struct {
	ID              int64         `json:"id"`
	Unit            Unit          `json:"unit"`
	Tenant          Tenant        `json:"tenant"`
	Property        Property      `json:"property"`
	MonthlyRent     float64       `json:"monthlyRent"`
	SecurityDeposit float64       `json:"securityDeposit,omitempty"`
	StartDate       Date          `json:"startDate"`
	EndDate         Date          `json:"endDate"`
	Status          TenancyStatus `json:"status"`
	LeaseDocument   string        `json:"leaseDocument,omitempty"`
}

// Active reports whether the tenancy is currently running.
func (t UnitTenancy) Active() bool {
	return t.Status == TenancyActive
}

// TenancyInput is the create/update payload of a single tenancy.
type TenancyInput struct {
	UnitID          int64   `json:"unitId"`
	TenantID        int64   `json:"tenantId"`
	StartDate       Date    `json:"startDate"`
	EndDate         Date    `json:"endDate"`
	MonthlyRent     float64 `json:"monthlyRent"`
	SecurityDeposit float64 `json:"securityDeposit"`
	LeaseDocument   string  `json:"leaseDocument,omitempty"`
}

// CompleteTenancy creates a tenant and assigns it to one or more available units.
type CompleteTenancy struct {
	PropertyID       int64   `json:"propertyId"`
	UnitIDs          []int64 `json:"unitIds"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	IDNumber         string  `json:"idNumber"`
	EmergencyContact string  `json:"emergencyContact"`
	MonthlyRent      float64 `json:"monthlyRent"`
	StartDate        Date    `json:"startDate"`
}
