package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuckylisaBemeye/Bomahub/internal/session"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/config"
	"github.com/LuckylisaBemeye/Bomahub/pkg/jwtutil"
)

const (
	propertiesJSON = `[{"id":1,"name":"Sunrise Court","address":"Ngong Road","totalUnits":3,"availableUnits":1}]`
	unitsJSON      = `[
		{"id":11,"unitNumber":"A1","propertyId":1,"monthlyRent":500,"status":"occupied"},
		{"id":12,"unitNumber":"A2","propertyId":1,"monthlyRent":300,"status":"occupied"},
		{"id":13,"unitNumber":"A3","propertyId":1,"monthlyRent":700,"status":"available"}]`
	tenantsJSON   = `[{"id":1,"name":"Jane Wanjiku"},{"id":2,"name":"Otieno Odhiambo"}]`
	tenanciesJSON = `[
		{"id":101,"unit":{"id":11,"unitNumber":"A1"},"tenant":{"id":1,"name":"Jane Wanjiku"},"property":{"id":1,"name":"Sunrise Court"},"monthlyRent":500,"status":"active","startDate":"2024-01-01"},
		{"id":102,"unit":{"id":12,"unitNumber":"A2"},"tenant":{"id":1,"name":"Jane Wanjiku"},"property":{"id":1,"name":"Sunrise Court"},"monthlyRent":300,"status":"inactive","startDate":"2023-01-01","endDate":"2023-12-31"},
		{"id":103,"unit":{"id":13,"unitNumber":"A3"},"tenant":{"id":2,"name":"Otieno Odhiambo"},"property":{"id":1,"name":"Sunrise Court"},"monthlyRent":700,"status":"active","startDate":"2024-02-01"}]`
	paymentsJSON = `[
		{"id":201,"description":"March rent","amount":500,"paymentStatus":"pending","property":{"id":1,"name":"Sunrise Court"},"unitTenancy":{"id":101,"tenant":{"id":1,"name":"Jane Wanjiku"}}},
		{"id":202,"description":"February rent","amount":500,"paymentStatus":"paid","property":{"id":1,"name":"Sunrise Court"},"unitTenancy":{"id":101,"tenant":{"id":1,"name":"Jane Wanjiku"}}}]`
)

// fakeAPI is an in-memory property API that records every call it serves.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	expired bool
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeAPI) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeAPI) expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = true
}

func userJSON(name string) string {
	role := "ROLE_USER"
	if name == "jane" {
		role = "ROLE_ADMIN"
	}
	return `{"id":7,"username":"` + name + `","authorities":["` + role + `"]}`
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	authed := func(h func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			f.mu.Lock()
			expired := f.expired
			f.mu.Unlock()
			if _, err := r.Cookie("JSESSIONID"); err != nil || expired {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Full authentication is required"}`))
				return
			}
			h(w, r)
		}
	}
	static := func(body string) http.HandlerFunc {
		return authed(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	ok := authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var cred client.Credentials
		_ = json.NewDecoder(r.Body).Decode(&cred)
		if cred.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: cred.Username, Path: "/"})
		_, _ = w.Write([]byte(userJSON(cred.Username)))
	})
	mux.HandleFunc("GET /api/auth/me", authed(func(w http.ResponseWriter, r *http.Request) {
		c, _ := r.Cookie("JSESSIONID")
		_, _ = w.Write([]byte(userJSON(c.Value)))
	}))
	mux.HandleFunc("POST /api/auth/logout", ok)
	mux.HandleFunc("GET /api/properties", static(propertiesJSON))
	mux.HandleFunc("GET /api/units", static(unitsJSON))
	mux.HandleFunc("DELETE /api/units/{id}", ok)
	mux.HandleFunc("GET /api/tenants", static(tenantsJSON))
	mux.HandleFunc("POST /api/tenants", static(`{"id":3,"name":"Achieng Atieno"}`))
	mux.HandleFunc("GET /api/tenants/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":` + r.PathValue("id") + `,"name":"Tenant ` + r.PathValue("id") + `","email":"t@example.com"}`))
	}))
	mux.HandleFunc("PUT /api/tenants/{id}", ok)
	mux.HandleFunc("DELETE /api/tenants/{id}", ok)
	mux.HandleFunc("GET /api/properties/{id}", static(`{"id":1,"name":"Sunrise Court","address":"Ngong Road"}`))
	mux.HandleFunc("GET /api/units/property/{id}", static(unitsJSON))
	mux.HandleFunc("GET /api/unit-tenancy/property/{id}", static(tenanciesJSON))
	mux.HandleFunc("GET /api/unit-tenancy/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		var all []json.RawMessage
		_ = json.Unmarshal([]byte(tenanciesJSON), &all)
		for _, raw := range all {
			var t struct {
				ID json.Number `json:"id"`
			}
			_ = json.Unmarshal(raw, &t)
			if t.ID.String() == r.PathValue("id") {
				_, _ = w.Write(raw)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	mux.HandleFunc("GET /api/users", static(`[{"id":7,"username":"jane","role":"ROLE_ADMIN"},{"id":8,"username":"mwangi","name":"Peter Mwangi","email":"peter@example.com","role":"ROLE_MANAGER"}]`))
	mux.HandleFunc("GET /api/users/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "8" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":8,"username":"mwangi","name":"Peter Mwangi","email":"peter@example.com","role":"ROLE_MANAGER"}`))
	}))
	mux.HandleFunc("GET /api/unit-tenancy", static(tenanciesJSON))
	mux.HandleFunc("GET /api/unit-tenancy/tenant/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		var all []json.RawMessage
		_ = json.Unmarshal([]byte(tenanciesJSON), &all)
		out := []json.RawMessage{}
		for _, raw := range all {
			var t struct {
				Tenant struct {
					ID json.Number `json:"id"`
				} `json:"tenant"`
			}
			_ = json.Unmarshal(raw, &t)
			if t.Tenant.ID.String() == r.PathValue("id") {
				out = append(out, raw)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	mux.HandleFunc("PATCH /api/unit-tenancy/{id}/end", ok)
	mux.HandleFunc("GET /api/payments", static(paymentsJSON))
	mux.HandleFunc("GET /api/payments/property/{id}", static(paymentsJSON))
	mux.HandleFunc("GET /api/payments/unit-tenancy/{id}", static(`[]`))
	mux.HandleFunc("GET /api/payments/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "201" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Payment not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":201,"description":"March rent","amount":500,"paymentStatus":"pending","paymentMethod":"BANK_TRANSFER","referenceNumber":"MPX-1","property":{"id":1,"name":"Sunrise Court"},"unitTenancy":{"id":101,"unit":{"id":11,"unitNumber":"A1"},"tenant":{"id":1,"name":"Jane Wanjiku"}}}`))
	}))
	mux.HandleFunc("POST /api/payments/process-payment", static(`{"success":true,"paymentIds":[201]}`))
	return mux
}

type console struct {
	t        *testing.T
	url      string
	browser  *http.Client
	upstream *fakeAPI
}

func newConsole(t *testing.T) *console {
	t.Helper()
	return newConsoleWith(t, nil)
}

func newConsoleWith(t *testing.T, configure func(*config.Config)) *console {
	t.Helper()

	api := &fakeAPI{}
	upstream := httptest.NewServer(api.handler())
	t.Cleanup(upstream.Close)

	cfg := config.Default("bomahub")
	cfg.API.BaseURL = upstream.URL
	cfg.Security.CSRF = false
	cfg.Security.LoginRatePerMinute = 100
	if configure != nil {
		configure(cfg)
	}

	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	manager := session.NewManager(store, func() *client.Client { return client.NewClient(upstream.URL) },
		session.Options{TTL: time.Hour, RecheckInterval: time.Hour})
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test", TTL: time.Hour})

	srv, err := New(cfg, manager, jwt)
	require.NoError(t, err)
	t.Cleanup(func() { srv.limiter.Stop() })

	front := httptest.NewServer(srv)
	t.Cleanup(front.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &console{
		t:   t,
		url: front.URL,
		browser: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		upstream: api,
	}
}

type page struct {
	status   int
	location string
	body     string
}

func (c *console) do(req *http.Request) page {
	c.t.Helper()
	resp, err := c.browser.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return page{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (c *console) get(path string) page {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.url+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *console) post(path string, form url.Values) page {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.url+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *console) login(username string) {
	c.t.Helper()
	p := c.post("/login", url.Values{"username": {username}, "password": {"secret"}})
	require.Equal(c.t, http.StatusSeeOther, p.status, p.body)
	require.Equal(c.t, "/", p.location)
}

func (c *console) loginFrom(forwardedFor string) page {
	c.t.Helper()
	form := url.Values{"username": {"jane"}, "password": {"wrong"}}
	req, err := http.NewRequest(http.MethodPost, c.url+"/login", strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	return c.do(req)
}

func TestLoginThrottleIgnoresForwardedHeaders(t *testing.T) {
	c := newConsoleWith(t, func(cfg *config.Config) {
		cfg.Security.LoginRatePerMinute = 3
	})

	throttled := 0
	for i := 0; i < 6; i++ {
		p := c.loginFrom("203.0.113." + strconv.Itoa(i+1))
		if p.status == http.StatusTooManyRequests {
			throttled++
		}
	}
	assert.Equal(t, 3, throttled, "rotating X-Forwarded-For must not open new buckets")
}

func TestLoginThrottleTrustedProxy(t *testing.T) {
	c := newConsoleWith(t, func(cfg *config.Config) {
		cfg.Security.LoginRatePerMinute = 1
		cfg.Security.TrustedProxies = []string{"127.0.0.0/8", "::1"}
	})

	assert.Equal(t, http.StatusUnauthorized, c.loginFrom("203.0.113.1").status)
	assert.Equal(t, http.StatusTooManyRequests, c.loginFrom("203.0.113.1").status)
	assert.Equal(t, http.StatusUnauthorized, c.loginFrom("203.0.113.2").status,
		"behind a trusted proxy each client address gets its own bucket")
}

func TestHealth(t *testing.T) {
	c := newConsole(t)
	p := c.get("/health")
	assert.Equal(t, http.StatusOK, p.status)
	assert.JSONEq(t, `{"status":"ok"}`, p.body)
}

func TestAnonymousVisitorIsSentToLogin(t *testing.T) {
	c := newConsole(t)

	p := c.get("/properties")
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/login?next=%2Fproperties", p.location)

	p = c.get("/login?next=%2Fproperties")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, `name="next" value="/properties"`)
}

func TestLoginFailureShowsUpstreamMessage(t *testing.T) {
	c := newConsole(t)

	p := c.post("/login", url.Values{"username": {"jane"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, p.status)
	assert.Contains(t, p.body, "Bad credentials")
	assert.Contains(t, p.body, `value="jane"`)
}

func TestDashboard(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/")
	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Welcome back, jane")
	assert.Contains(t, p.body, "67% of units are occupied")
	assert.Contains(t, p.body, "Sunrise Court")

	// the flash is shown once
	p = c.get("/")
	assert.NotContains(t, p.body, "Welcome back")
}

func TestTenantsAreGrouped(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/tenants")
	require.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, 1, strings.Count(p.body, ">Jane Wanjiku</a>"), "one row per tenant")
	assert.Contains(t, p.body, "KES 800.00")
	assert.Contains(t, p.body, "KES 700.00")
}

func TestRemoveTenantEndsOnlyActiveTenancies(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.post("/tenants/1/remove", nil)
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/tenants", p.location)
	assert.True(t, c.upstream.called("PATCH /api/unit-tenancy/101/end"))
	assert.False(t, c.upstream.called("PATCH /api/unit-tenancy/102/end"))

	p = c.get("/tenants")
	assert.Contains(t, p.body, "Tenant removed, 1 tenancies ended")
}

func TestRegisterTenantWithoutUnits(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.post("/tenants", url.Values{"propertyId": {"1"}, "lastName": {"Atieno"}})
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/tenants?property=1", p.location)
	assert.False(t, c.upstream.called("POST /api/tenants"))

	p = c.post("/tenants", url.Values{"propertyId": {"1"}, "firstName": {"Achieng"}, "lastName": {"Atieno"}})
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/tenancies", p.location)
	assert.True(t, c.upstream.called("POST /api/tenants"))
	assert.False(t, c.upstream.called("POST /api/unit-tenancy/create-complete"))

	p = c.get("/tenancies")
	assert.Contains(t, p.body, "Tenant Achieng Atieno registered")
}

func TestUpdateTenantContact(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/tenants/3")
	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, `action="/tenants/3"`)
	assert.Contains(t, p.body, `name="email" value="t@example.com"`)

	p = c.post("/tenants/3", url.Values{"_method": {"PUT"}, "name": {"  "}})
	assert.Equal(t, "/tenants/3", p.location)
	assert.False(t, c.upstream.called("PUT /api/tenants/3"))

	p = c.post("/tenants/3", url.Values{"_method": {"PUT"}, "name": {"Tenant Three"}, "phone": {"0700 000 000"}})
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/tenants/3", p.location)
	assert.True(t, c.upstream.called("PUT /api/tenants/3"))
}

func TestDeleteTenantRequiresNoActiveTenancy(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/tenants/1")
	require.Equal(t, http.StatusOK, p.status)
	assert.NotContains(t, p.body, "Delete this tenant?")

	p = c.post("/tenants/1", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, "/tenants/1", p.location)
	assert.False(t, c.upstream.called("DELETE /api/tenants/1"))
	p = c.get("/tenants/1")
	assert.Contains(t, p.body, "End the tenant&#39;s active tenancies before deleting")

	p = c.get("/tenants/3")
	assert.Contains(t, p.body, "Delete this tenant?")
	p = c.post("/tenants/3", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, "/tenants", p.location)
	assert.True(t, c.upstream.called("DELETE /api/tenants/3"))
}

func TestEditFormsLoadTheRecord(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/tenancies?edit=101")
	require.Equal(t, http.StatusOK, p.status)
	assert.True(t, c.upstream.called("GET /api/unit-tenancy/101"))
	assert.Contains(t, p.body, `action="/tenancies/101"`)
	assert.Contains(t, p.body, `<option value="11" selected>A1</option>`)
	assert.Contains(t, p.body, `name="startDate" value="2024-01-01"`)

	p = c.get("/tenancies?edit=999")
	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "New tenancy", "an unknown record falls back to the add form")

	p = c.get("/users?edit=8")
	require.Equal(t, http.StatusOK, p.status)
	assert.True(t, c.upstream.called("GET /api/users/8"))
	assert.Contains(t, p.body, "Edit mwangi")
	assert.Contains(t, p.body, `<option value="MANAGER" selected>`)
}

func TestPaymentDetails(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/payments")
	assert.Contains(t, p.body, `href="/payments/201"`)

	p = c.get("/payments/201")
	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "March rent")
	assert.Contains(t, p.body, "Bank transfer")
	assert.Contains(t, p.body, "MPX-1")
	assert.Contains(t, p.body, `href="/tenants/1"`)

	p = c.get("/payments/999")
	assert.Equal(t, http.StatusNotFound, p.status)
}

func TestPropertyShowsItsPayments(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/properties/1")
	require.Equal(t, http.StatusOK, p.status)
	assert.True(t, c.upstream.called("GET /api/payments/property/1"))
	assert.Contains(t, p.body, "<h3>Payments</h3>")
	assert.Contains(t, p.body, "February rent")
}

func TestProcessPaymentValidation(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.post("/tenants/1/payments", url.Values{"amount": {"500"}})
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/tenants/1", p.location)
	assert.False(t, c.upstream.called("POST /api/payments/process-payment"))

	p = c.post("/tenants/1/payments", url.Values{"paymentIds": {"201"}, "amount": {"500"}, "paymentMethod": {"CASH"}})
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.True(t, c.upstream.called("POST /api/payments/process-payment"))
}

func TestPaymentsFilter(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.get("/payments?status=pending&property=all")
	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "March rent")
	assert.NotContains(t, p.body, "February rent")
}

func TestMethodOverride(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.post("/units/13", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/units", p.location)
	assert.True(t, c.upstream.called("DELETE /api/units/13"))
}

func TestReadOnlyUserCannotMutate(t *testing.T) {
	c := newConsole(t)
	c.login("viewer")

	p := c.get("/units")
	require.Equal(t, http.StatusOK, p.status)
	assert.NotContains(t, p.body, "Add unit")

	p = c.post("/units/13", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, http.StatusForbidden, p.status)
	assert.False(t, c.upstream.called("DELETE /api/units/13"))

	p = c.get("/users")
	assert.Equal(t, http.StatusForbidden, p.status)
}

func TestExpiredUpstreamSessionLogsOut(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	c.upstream.expire()
	p := c.get("/properties")
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/login", p.location)

	p = c.get("/properties")
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/login?next=%2Fproperties", p.location)
}

func TestLogout(t *testing.T) {
	c := newConsole(t)
	c.login("jane")

	p := c.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/login", p.location)
	assert.True(t, c.upstream.called("POST /api/auth/logout"))

	p = c.get("/")
	assert.Equal(t, http.StatusSeeOther, p.status)
}

func TestUnknownPage(t *testing.T) {
	c := newConsole(t)
	p := c.get("/nope")
	assert.Equal(t, http.StatusNotFound, p.status)
	assert.Contains(t, p.body, "404")
}
