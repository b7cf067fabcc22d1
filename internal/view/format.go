package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

// Currency prefixes every formatted amount.
var Currency = "KES"

var printer = message.NewPrinter(language.English)

// Money formats an amount with thousands separators and two decimals.
func Money(v float64) string {
	return printer.Sprintf("%s %.2f", Currency, v)
}

// Number formats an integer with thousands separators.
func Number(v int) string {
	return printer.Sprintf("%d", v)
}

// FormatDate renders a date, or a dash when it is not set.
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02 Jan 2006")
}

// StatusClass maps any entity status to a badge style.
func StatusClass(status string) string {
	switch status {
	case string(model.UnitAvailable), string(model.TenancyActive), string(model.PaymentPaid):
		return "badge-green"
	case string(model.UnitOccupied):
		return "badge-blue"
	case string(model.UnitMaintenance), string(model.PaymentPending):
		return "badge-yellow"
	case string(model.PaymentOverdue):
		return "badge-red"
	default:
		return "badge-gray"
	}
}

// Label turns an enum value such as BANK_TRANSFER into sentence case
// ("Bank transfer").
func Label(value string) string {
	words := strings.Fields(strings.ReplaceAll(value, "_", " "))
	if len(words) == 0 {
		return ""
	}
	words[0] = cases.Title(language.English).String(words[0])
	lower := cases.Lower(language.English)
	for i := 1; i < len(words); i++ {
		words[i] = lower.String(words[i])
	}
	return strings.Join(words, " ")
}
