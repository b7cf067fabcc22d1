package model

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentStatuses lists every status in display order.
var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentMethod is how a tenant settled a payment.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCash         PaymentMethod = "CASH"
	MethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{MethodBankTransfer, MethodCash, MethodMobileMoney}

// Payment is a rent charge against a tenancy.
type Payment struct {
	ID              int64         `json:"id"`
	Description     string        `json:"description,omitempty"`
	Amount          float64       `json:"amount"`
	DueDate         Date          `json:"dueDate"`
	PaymentDate     Date          `json:"paymentDate"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	PaymentMethod   PaymentMethod `json:"paymentMethod,omitempty"`
	UnitTenancy     *UnitTenancy  `json:"unitTenancy,omitempty"`
	Property        Property      `json:"property"`
	ReferenceNumber string        `json:"referenceNumber,omitempty"`
}

// PaymentBatch settles several pending payments of one tenant at once.
type PaymentBatch struct {
	TenantID          int64         `json:"tenantId"`
	PendingPaymentIDs []int64       `json:"pendingPaymentIds"`
	Amount            float64       `json:"amount"`
	PaymentDate       Date          `json:"paymentDate"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	ReferenceNumber   string        `json:"referenceNumber"`
	Description       string        `json:"description"`
}
