package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

// TenantRequest is the "add tenant" form. With units ticked it creates the
// tenant and its tenancies in one upstream call.
type TenantRequest struct {
	PropertyID       int64   `form:"propertyId"`
	UnitIDs          []int64 `form:"unitIds"`
	FirstName        string  `form:"firstName"`
	LastName         string  `form:"lastName"`
	Email            string  `form:"email"`
	Phone            string  `form:"phone"`
	IDNumber         string  `form:"idNumber"`
	EmergencyContact string  `form:"emergencyContact"`
	MonthlyRent      float64 `form:"monthlyRent"`
	StartDate        string  `form:"startDate"`
}

func (r TenantRequest) complete() (model.CompleteTenancy, error) {
	start, err := model.ParseDate(r.StartDate)
	if err != nil {
		return model.CompleteTenancy{}, client.Validation("Start date is invalid")
	}
	if start.IsZero() {
		start = model.Today()
	}
	return model.CompleteTenancy{
		PropertyID:       r.PropertyID,
		UnitIDs:          r.UnitIDs,
		FirstName:        strings.TrimSpace(r.FirstName),
		LastName:         strings.TrimSpace(r.LastName),
		Email:            strings.TrimSpace(r.Email),
		Phone:            strings.TrimSpace(r.Phone),
		IDNumber:         strings.TrimSpace(r.IDNumber),
		EmergencyContact: strings.TrimSpace(r.EmergencyContact),
		MonthlyRent:      r.MonthlyRent,
		StartDate:        start,
	}, nil
}

type tenantsPage struct {
	view.Page[[]view.GroupedTenant]
	Properties     []model.Property
	Adding         bool
	Property       int64
	AvailableUnits []model.Unit
	Today          model.Date
}

// ListTenants shows one row per tenant with all of its units. ?add=1 opens the
// add form and ?property=ID loads the available units of that property.
func (h *Handler) ListTenants(c echo.Context) error {
	log := logger.FromEcho(c)
	cl := api(c)

	page := tenantsPage{
		Adding:   c.QueryParam("add") != "" || queryID(c, "property") > 0,
		Property: queryID(c, "property"),
		Today:    model.Today(),
	}

	var tenancies []model.UnitTenancy
	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		tenancies, err = cl.ListTenancies(ctx)
		return err
	})
	if page.Adding {
		g.Go(func() (err error) {
			page.Properties, err = cl.ListProperties(ctx)
			return err
		})
	}
	if page.Property > 0 {
		g.Go(func() (err error) {
			page.AvailableUnits, err = cl.ListUnitsByPropertyAndStatus(ctx, page.Property, model.UnitAvailable)
			return err
		})
	}
	err := g.Wait()
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	grouped := view.GroupTenancies(tenancies)
	log.Info("Tenants retrieved",
		zap.Int("tenancies", len(tenancies)),
		zap.Int("tenants", len(grouped)))
	page.Page = view.Load(grouped, err)
	return h.render(c, "tenants", "Tenants", "tenants", page)
}

// CreateTenant registers a tenant on one or more available units. With no
// unit ticked only the tenant record is created.
func (h *Handler) CreateTenant(c echo.Context) error {
	log := logger.FromEcho(c)

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid tenant form", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	failTo := "/tenants"
	if req.PropertyID > 0 {
		failTo = fmt.Sprintf("/tenants?property=%d", req.PropertyID)
	}
	in, err := req.complete()
	if err != nil {
		return finish(c, "tenant", "create", err, "", "Failed to add tenant", failTo)
	}
	name := strings.TrimSpace(in.FirstName + " " + in.LastName)

	if len(in.UnitIDs) == 0 {
		if in.FirstName == "" {
			err = client.Validation("First name is required")
		} else {
			var t *model.Tenant
			t, err = api(c).CreateTenant(reqCtx(c), model.Tenant{
				Name:             name,
				Email:            in.Email,
				Phone:            in.Phone,
				IDNumber:         in.IDNumber,
				EmergencyContact: in.EmergencyContact,
			})
			if err == nil {
				log.Info("Tenant registered without units", zap.Int64("tenant_id", t.ID))
				return finish(c, "tenant", "create", nil,
					fmt.Sprintf("Tenant %s registered, assign a unit from Tenancies", name), "", "/tenancies")
			}
		}
		return finish(c, "tenant", "create", err, "", "Failed to add tenant", failTo)
	}

	tenantID, err := api(c).CreateCompleteTenancy(reqCtx(c), in)
	if err != nil {
		return finish(c, "tenant", "create", err, "", "Failed to add tenant", failTo)
	}
	log.Info("Tenant created",
		zap.Int64("tenant_id", tenantID),
		zap.Int("units", len(in.UnitIDs)))
	return finish(c, "tenant", "create", nil, fmt.Sprintf("Tenant %s added", name), "", "/tenants")
}

// TenantContactRequest is the contact form of the tenant page.
type TenantContactRequest struct {
	Name             string `form:"name"`
	Email            string `form:"email"`
	Phone            string `form:"phone"`
	IDNumber         string `form:"idNumber"`
	EmergencyContact string `form:"emergencyContact"`
}

// UpdateTenant saves a tenant's contact details.
func (h *Handler) UpdateTenant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req TenantContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	t := model.Tenant{
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		IDNumber:         strings.TrimSpace(req.IDNumber),
		EmergencyContact: strings.TrimSpace(req.EmergencyContact),
	}
	if t.Name == "" {
		err = client.Validation("Name is required")
	} else {
		_, err = api(c).UpdateTenant(reqCtx(c), id, t)
	}
	return finish(c, "tenant", "update", err, "Tenant updated", "Failed to update tenant",
		fmt.Sprintf("/tenants/%d", id))
}

// DeleteTenant removes a tenant record once none of its tenancies is active.
func (h *Handler) DeleteTenant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cl := api(c)
	tenancies, err := cl.ListTenanciesByTenant(reqCtx(c), id)
	if err == nil {
		for _, t := range tenancies {
			if t.Active() {
				err = client.Validation("End the tenant's active tenancies before deleting")
				break
			}
		}
	}
	if err == nil {
		err = cl.DeleteTenant(reqCtx(c), id)
	}
	if err != nil {
		return finish(c, "tenant", "delete", err, "", "Failed to delete tenant", fmt.Sprintf("/tenants/%d", id))
	}
	return finish(c, "tenant", "delete", nil, "Tenant deleted", "", "/tenants")
}

// RemoveTenant ends every active tenancy of the tenant as of today.
func (h *Handler) RemoveTenant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	log := logger.FromEcho(c)
	cl := api(c)

	tenancies, err := cl.ListTenanciesByTenant(reqCtx(c), id)
	ended := 0
	if err == nil {
		today := model.Today()
		for _, t := range tenancies {
			if !t.Active() {
				continue
			}
			if err = cl.TerminateTenancy(reqCtx(c), t.ID, today); err != nil {
				break
			}
			ended++
		}
	}
	log.Info("Tenant removal",
		zap.Int64("tenant_id", id),
		zap.Int("ended_tenancies", ended),
		zap.Error(err))
	if err == nil && ended == 0 {
		err = client.Validation("Tenant has no active tenancies")
	}
	return finish(c, "tenant", "remove", err,
		fmt.Sprintf("Tenant removed, %d tenancies ended", ended),
		"Failed to remove tenant", "/tenants")
}

// PaymentRequest is the process-payment form of the tenant page.
type PaymentRequest struct {
	PaymentIDs      []int64 `form:"paymentIds"`
	Amount          float64 `form:"amount"`
	PaymentDate     string  `form:"paymentDate"`
	PaymentMethod   string  `form:"paymentMethod"`
	ReferenceNumber string  `form:"referenceNumber"`
	Description     string  `form:"description"`
}

type tenantDetails struct {
	Tenant    *model.Tenant
	Tenancies []model.UnitTenancy
	Payments  map[int64][]model.Payment
	Pending   []model.Payment
	TotalRent float64
	// ActiveTenancies counts the running tenancies; a tenant with none may be deleted.
	ActiveTenancies int
	Methods         []model.PaymentMethod
	Today           model.Date
}

// ShowTenant shows a tenant's tenancies, their payments and the pending ones.
func (h *Handler) ShowTenant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.loadTenant(c, id)
	if client.IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
	}
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	title := "Tenant"
	if d.Tenant != nil {
		title = d.Tenant.Name
	}
	return h.render(c, "tenant", title, "tenants", view.Load(d, err))
}

func (h *Handler) loadTenant(c echo.Context, id int64) (tenantDetails, error) {
	cl := api(c)
	d := tenantDetails{
		Payments: make(map[int64][]model.Payment),
		Methods:  model.PaymentMethods,
		Today:    model.Today(),
	}

	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		d.Tenant, err = cl.GetTenant(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Tenancies, err = cl.ListTenanciesByTenant(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return d, err
	}

	results := make([][]model.Payment, len(d.Tenancies))
	g, ctx = errgroup.WithContext(reqCtx(c))
	g.SetLimit(4)
	for i, t := range d.Tenancies {
		g.Go(func() (err error) {
			results[i], err = cl.ListPaymentsByTenancy(ctx, t.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return d, err
	}

	var all []model.Payment
	for i, t := range d.Tenancies {
		d.Payments[t.ID] = results[i]
		all = append(all, results[i]...)
	}
	d.Pending = view.PendingPayments(all)
	d.TotalRent = view.TenancyTotalRent(d.Tenancies)
	for _, t := range d.Tenancies {
		if t.Active() {
			d.ActiveTenancies++
		}
	}
	return d, nil
}

// ProcessPayment settles the selected pending payments of a tenant.
func (h *Handler) ProcessPayment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	log := logger.FromEcho(c)
	back := fmt.Sprintf("/tenants/%d", id)

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	paid, err := model.ParseDate(req.PaymentDate)
	if err != nil {
		return finish(c, "payment", "process", client.Validation("Payment date is invalid"), "", "", back)
	}
	if paid.IsZero() {
		paid = model.Today()
	}
	method := model.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = model.MethodCash
	}

	batch := model.PaymentBatch{
		TenantID:          id,
		PendingPaymentIDs: req.PaymentIDs,
		Amount:            req.Amount,
		PaymentDate:       paid,
		PaymentMethod:     method,
		ReferenceNumber:   strings.TrimSpace(req.ReferenceNumber),
		Description:       strings.TrimSpace(req.Description),
	}

	tenancies, err := api(c).ListTenanciesByTenant(reqCtx(c), id)
	if err == nil {
		err = view.ValidatePaymentBatch(tenancies, batch)
	}
	if err == nil {
		var ids []int64
		ids, err = api(c).ProcessPayments(reqCtx(c), batch)
		if err == nil {
			log.Info("Payments processed",
				zap.Int64("tenant_id", id),
				zap.Int("payments", len(ids)),
				zap.Float64("amount", batch.Amount))
		}
	}
	return finish(c, "payment", "process", err,
		fmt.Sprintf("Payment of %s recorded", view.Money(batch.Amount)),
		"Failed to process payment", back)
}
