package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
)

func TestPrintTenants(t *testing.T) {
	tenancies := []model.UnitTenancy{
		{ID: 1, Unit: model.Unit{UnitNumber: "A1"}, Tenant: model.Tenant{ID: 1, Name: "Jane Wanjiku"}, Property: model.Property{Name: "Sunrise"}, MonthlyRent: 500, Status: model.TenancyActive},
		{ID: 2, Unit: model.Unit{UnitNumber: "A2"}, Tenant: model.Tenant{ID: 1, Name: "Jane Wanjiku"}, Property: model.Property{Name: "Sunrise"}, MonthlyRent: 300, Status: model.TenancyInactive},
	}
	var out bytes.Buffer
	require.NoError(t, printTenants(&out, view.GroupTenancies(tenancies)))

	assert.Contains(t, out.String(), "Jane Wanjiku")
	assert.Contains(t, out.String(), "A1 (Sunrise), A2 (Sunrise)")
	assert.Contains(t, out.String(), "KES 800.00")
	assert.Contains(t, out.String(), "1 tenants")
}

func TestPrintPayments(t *testing.T) {
	payments := []model.Payment{
		{ID: 1, Amount: 1000, PaymentStatus: model.PaymentPending, Property: model.Property{ID: 1, Name: "Sunrise"}},
		{ID: 2, Amount: 250, PaymentStatus: model.PaymentPaid, Property: model.Property{ID: 1, Name: "Sunrise"}},
	}
	var out bytes.Buffer
	require.NoError(t, printPayments(&out, view.FilterPayments(payments, view.PaymentFilter{Status: "pending", Property: "1"})))

	assert.Contains(t, out.String(), "KES 1,000.00")
	assert.NotContains(t, out.String(), "KES 250.00")
	assert.Contains(t, out.String(), "1 payments")
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["tenants"])
	assert.True(t, names["payments"])

	status := paymentsCmd.Flags().Lookup("status")
	require.NotNil(t, status)
	assert.Equal(t, view.FilterAll, status.DefValue)
}

func TestSignInAndOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"id":1,"username":"jane","authorities":["ROLE_ADMIN"]}`))
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Session store unavailable"}`))
	})
	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_BASE_URL", upstream.URL)
	oldUser, oldPass := username, password
	t.Cleanup(func() { username, password = oldUser, oldPass })
	username, password = "jane", "secret"

	api, err := signIn(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, api.Cookies(), "the session cookie is kept in the client jar")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	signOut(cmd, api)
	assert.Contains(t, stderr.String(), "warning: logout failed: Session store unavailable")
}
