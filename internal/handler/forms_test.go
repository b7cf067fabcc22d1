package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
)

func TestPropertyStructure(t *testing.T) {
	req := PropertyRequest{
		Name:             " Sunrise Court ",
		FloorCount:       3,
		UnitsPerFloor:    4,
		DefaultRent:      1200,
		CustomFloorUnits: "2",
		CustomFloorRent:  "2500.5",
	}
	s, err := req.structure()
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Court", s.PropertyName)
	require.NotNil(t, s.CustomFloorUnits)
	assert.Equal(t, 2, *s.CustomFloorUnits)
	require.NotNil(t, s.CustomFloorRent)
	assert.Equal(t, 2500.5, *s.CustomFloorRent)

	req.CustomFloorUnits = "two"
	_, err = req.structure()
	assert.Equal(t, client.KindValidation, client.KindOf(err))

	req.CustomFloorUnits, req.CustomFloorRent = "", ""
	s, err = req.structure()
	require.NoError(t, err)
	assert.Nil(t, s.CustomFloorUnits)
	assert.Nil(t, s.CustomFloorRent)
}

func TestUnitRequest(t *testing.T) {
	u, err := UnitRequest{UnitNumber: "A1", PropertyID: 1, MonthlyRent: 500}.unit()
	require.NoError(t, err)
	assert.Equal(t, model.UnitAvailable, u.Status, "new units default to available")

	tests := []struct {
		name string
		req  UnitRequest
		msg  string
	}{
		{"missing number", UnitRequest{PropertyID: 1}, "Unit number is required"},
		{"missing property", UnitRequest{UnitNumber: "A1"}, "Select a property"},
		{"negative rent", UnitRequest{UnitNumber: "A1", PropertyID: 1, MonthlyRent: -1}, "Monthly rent cannot be negative"},
		{"bad status", UnitRequest{UnitNumber: "A1", PropertyID: 1, Status: "demolished"}, `Unknown unit status "demolished"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.unit()
			assert.Equal(t, tt.msg, client.Message(err, ""))
		})
	}
}

func TestTenantRequestDefaultsStartDate(t *testing.T) {
	in, err := TenantRequest{PropertyID: 1, UnitIDs: []int64{11, 12}, FirstName: " Jane "}.complete()
	require.NoError(t, err)
	assert.Equal(t, "Jane", in.FirstName)
	assert.Equal(t, model.Today(), in.StartDate)
	assert.Equal(t, []int64{11, 12}, in.UnitIDs)

	_, err = TenantRequest{StartDate: "01/02/2024"}.complete()
	assert.Equal(t, "Start date is invalid", client.Message(err, ""))
}

func TestTenancyRequest(t *testing.T) {
	in, err := TenancyRequest{UnitID: 11, TenantID: 1, StartDate: "2024-01-01", EndDate: ""}.input()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", in.StartDate.String())
	assert.True(t, in.EndDate.IsZero())

	_, err = TenancyRequest{EndDate: "soon"}.input()
	assert.Equal(t, "End date is invalid", client.Message(err, ""))
}

func TestUserRequest(t *testing.T) {
	u, err := UserRequest{Username: "jane", Password: "pw", Role: "role_manager", Age: "30"}.user(true)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, u.Role)
	require.NotNil(t, u.Age)
	assert.Equal(t, 30, *u.Age)

	_, err = UserRequest{Username: "jane"}.user(true)
	assert.Equal(t, "Password is required", client.Message(err, ""))

	_, err = UserRequest{Username: "jane"}.user(false)
	assert.NoError(t, err, "updates keep the current password")

	_, err = UserRequest{Username: "jane", Age: "-3"}.user(false)
	assert.Equal(t, "Age must be a positive number", client.Message(err, ""))
}
