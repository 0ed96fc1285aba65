package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func shiftAt(id uint, start, end string, breakMin int) models.StaffShift {
	return models.StaffShift{
		ID:           id,
		ShiftDate:    time.Date(2026, 3, int(id), 0, 0, 0, 0, time.UTC),
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: breakMin,
		Status:       "completed",
		Confirmation: "accepted",
	}
}

func TestBuildLineItemsDefaultRate(t *testing.T) {
	shifts := []models.StaffShift{
		shiftAt(1, "08:00", "16:00", 0),
		shiftAt(2, "08:00", "16:00", 0),
		shiftAt(3, "22:00", "06:00", 0),
	}

	items, total, err := BuildLineItems(shifts, ResolveRate(nil, decimal.Zero))
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "720", total.String())
	require.True(t, total.Equal(Sum(items)))

	for _, it := range items {
		require.Equal(t, "8", it.Hours.String())
		require.Equal(t, "240", it.Amount.String())
	}
}

func TestBuildLineItemsSkipsUnbillable(t *testing.T) {
	cancelled := shiftAt(2, "09:00", "17:00", 0)
	cancelled.Status = "cancelled"
	billed := shiftAt(4, "09:00", "17:00", 0)
	invID := uint(9)
	billed.InvoiceID = &invID

	shifts := []models.StaffShift{shiftAt(1, "09:00", "17:00", 30), cancelled, billed}
	items, total, err := BuildLineItems(shifts, decimal.NewFromInt(40))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "300", total.String())
	require.Equal(t, uint(1), *items[0].ShiftID)
	require.Contains(t, items[0].Description, "30 min break")
}

func TestBuildLineItemsIgnoresConfirmation(t *testing.T) {
	accepted := shiftAt(1, "08:00", "16:00", 0)
	declined := shiftAt(2, "08:00", "16:00", 0)
	declined.Status = "scheduled"
	declined.Confirmation = "declined"
	pending := shiftAt(3, "08:00", "16:00", 0)
	pending.Status = "scheduled"
	pending.Confirmation = "pending"

	items, total, err := BuildLineItems([]models.StaffShift{accepted, declined, pending}, DefaultHourlyRate)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "720", total.String())
}

func TestBuildLineItemsNothingBillable(t *testing.T) {
	_, _, err := BuildLineItems(nil, DefaultHourlyRate)
	require.True(t, httperr.IsBusiness(err, "no_billable_shifts"))
}

func TestResolveRate(t *testing.T) {
	override := decimal.RequireFromString("42.505")
	negative := decimal.NewFromInt(-1)

	require.Equal(t, "42.51", ResolveRate(&override, decimal.NewFromInt(35)).String())
	require.Equal(t, "35", ResolveRate(&negative, decimal.NewFromInt(35)).String())
	require.Equal(t, "30", ResolveRate(nil, decimal.Zero).String())
}

func TestNumberAndOverdue(t *testing.T) {
	issued := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "INV-202603-0007", FormatNumber(issued, 7))
	require.Equal(t, "INV-202603-", NumberPrefix(issued))

	inv := &models.Invoice{Status: "sent", DueDate: issued}
	require.False(t, IsOverdue(inv, issued.Add(23*time.Hour)))
	require.True(t, IsOverdue(inv, issued.AddDate(0, 0, 2)))

	inv.Status = "paid"
	require.False(t, IsOverdue(inv, issued.AddDate(0, 1, 0)))
}

func TestStatusGuards(t *testing.T) {
	require.NoError(t, CanSend(StatusDraft))
	require.Error(t, CanSend(StatusPaid))
	require.NoError(t, CanMarkPaid(StatusOverdue))
	require.Error(t, CanCancel(StatusCancelled))
}
