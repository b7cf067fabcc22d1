package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	t.Run("calendar date", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01"`), &d))
		assert.Equal(t, "2024-03-01", d.String())

		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `"2024-03-01"`, string(out))
	})

	t.Run("timestamp is truncated", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T10:15:00Z"`), &d))
		assert.Equal(t, "2024-03-01", d.String())
	})

	t.Run("null and zero", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())

		out, err := json.Marshal(Date{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})

	t.Run("garbage", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	})
}

func TestNewDate(t *testing.T) {
	d := NewDate(time.Date(2025, 7, 9, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2025-07-09", d.String())
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":        RoleAdmin,
		"admin":        RoleAdmin,
		"ROLE_MANAGER": RoleManager,
		" user ":       RoleUser,
		"":             RoleUser,
		"superuser":    RoleUser,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseRole(in), in)
	}
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleManager))
	assert.False(t, RoleUser.AtLeast(RoleManager))
	assert.False(t, Role("").AtLeast(RoleUser))
}

func TestUserUnmarshal(t *testing.T) {
	t.Run("resource with role", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"id":4,"username":"jane","email":"j@x.io","name":"Jane","role":"MANAGER","age":31}`), &u))
		assert.Equal(t, int64(4), u.ID)
		assert.Equal(t, RoleManager, u.Role)
		require.NotNil(t, u.Age)
		assert.Equal(t, 31, *u.Age)
	})

	t.Run("me payload with authorities objects", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"username":"root","authorities":[{"authority":"ROLE_USER"},{"authority":"ROLE_ADMIN"}]}`), &u))
		assert.Equal(t, "root", u.Username)
		assert.Equal(t, RoleAdmin, u.Role)
		assert.Equal(t, "root", u.DisplayName())
	})

	t.Run("login payload with authority strings", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"username":"m","authenticated":true,"authorities":["ROLE_MANAGER"]}`), &u))
		assert.Equal(t, RoleManager, u.Role)
	})

	t.Run("no role at all", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"username":"x","name":"Ann","lastName":"Otieno"}`), &u))
		assert.Equal(t, RoleUser, u.Role)
		assert.Equal(t, "Ann Otieno", u.Name)
		assert.Equal(t, "A", u.Initial())
	})
}

func TestStatusValid(t *testing.T) {
	assert.True(t, UnitMaintenance.Valid())
	assert.False(t, UnitStatus("vacant").Valid())
	assert.True(t, PaymentCancelled.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
}
