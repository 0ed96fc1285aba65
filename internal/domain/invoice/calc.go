package invoice

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// DefaultHourlyRate applies when neither the request nor the organization sets one.
var DefaultHourlyRate = decimal.NewFromInt(30)

const DefaultDueDays = 14

// ResolveRate picks the first positive rate from override, organization, default.
func ResolveRate(override *decimal.Decimal, org decimal.Decimal) decimal.Decimal {
	if override != nil && override.IsPositive() {
		return override.Round(2)
	}
	if org.IsPositive() {
		return org.Round(2)
	}
	return DefaultHourlyRate
}

// BuildLineItems turns billable shifts into one line item each and returns
// the invoice total, which is always the sum of the line amounts.
func BuildLineItems(shifts []models.StaffShift, rate decimal.Decimal) ([]models.InvoiceLineItem, decimal.Decimal, error) {
	items := make([]models.InvoiceLineItem, 0, len(shifts))
	total := decimal.Zero

	for i := range shifts {
		sh := &shifts[i]
		if !shift.Billable(sh) {
			continue
		}

		hours, err := shift.Hours(sh.StartTime, sh.EndTime, sh.BreakMinutes)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("shift %d: %w", sh.ID, err)
		}
		if hours.IsZero() {
			continue
		}

		amount := hours.Mul(rate).Round(2)
		id := sh.ID
		items = append(items, models.InvoiceLineItem{
			ShiftID:     &id,
			Description: describe(sh),
			Hours:       hours,
			Rate:        rate,
			Amount:      amount,
		})
		total = total.Add(amount)
	}

	if len(items) == 0 {
		return nil, decimal.Zero, httperr.ErrBusiness("no_billable_shifts")
	}

	return items, total, nil
}

func describe(sh *models.StaffShift) string {
	d := fmt.Sprintf("Care shift %s %s-%s", sh.ShiftDate.Format("2006-01-02"), sh.StartTime, sh.EndTime)
	if sh.Staff.Name != "" {
		d += " (" + sh.Staff.Name + ")"
	}
	if sh.BreakMinutes > 0 {
		d += fmt.Sprintf(", %d min break", sh.BreakMinutes)
	}
	return d
}

// Sum recomputes a total from stored line items.
func Sum(items []models.InvoiceLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// FormatNumber renders INV-YYYYMM-NNNN.
func FormatNumber(issued time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%04d", issued.Format("200601"), seq)
}

// NumberPrefix is the per-month prefix used to find the next sequence.
func NumberPrefix(issued time.Time) string {
	return fmt.Sprintf("INV-%s-", issued.Format("200601"))
}

// IsOverdue reports whether a sent invoice has passed its due date.
func IsOverdue(inv *models.Invoice, now time.Time) bool {
	return Status(inv.Status) == StatusSent && now.After(inv.DueDate.AddDate(0, 0, 1))
}
