package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "KES 1,234.50", Money(1234.5))
	assert.Equal(t, "KES 0.00", Money(0))
	assert.Equal(t, "12,000", Number(12000))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(model.Date{}))
	assert.Equal(t, "05 Mar 2024", FormatDate(model.NewDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-green", StatusClass("active"))
	assert.Equal(t, "badge-red", StatusClass("overdue"))
	assert.Equal(t, "badge-gray", StatusClass("inactive"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Bank transfer", Label("BANK_TRANSFER"))
	assert.Equal(t, "Occupied", Label("occupied"))
	assert.Equal(t, "École normale", Label("école_NORMALE"))
	assert.Equal(t, "Ärende", Label("ärende"))
	assert.Equal(t, "", Label("  "))
}
