package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
	"github.com/BruksfildServices01/care-scheduler/internal/tracing"
)

// ======================================================
// INPUT
// ======================================================

type GenerateInput struct {
	OrganizationID uint
	UserID         uint
	ClientID       uint

	PeriodStart string
	PeriodEnd   string

	HourlyRate *decimal.Decimal
	DueDays    int
	Notes      string
}

// ======================================================
// USE CASE
// ======================================================

type GenerateInvoice struct {
	repo   domain.Repository
	locker cache.Locker
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewGenerateInvoice(
	repo domain.Repository,
	locker cache.Locker,
	audit *audit.Dispatcher,
) *GenerateInvoice {
	return &GenerateInvoice{
		repo:   repo,
		locker: locker,
		audit:  audit,
		now:    time.Now,
	}
}

// Execute bills the client's unbilled shifts in the period. Generation is
// serialised per organization so numbering and shift marking never race.
func (uc *GenerateInvoice) Execute(
	ctx context.Context,
	in GenerateInput,
) (*models.Invoice, error) {
	ctx, span := tracing.Tracer("invoice").Start(ctx, "GenerateInvoice")
	defer span.End()
	span.SetAttributes(
		attribute.Int("organization.id", int(in.OrganizationID)),
		attribute.Int("client.id", int(in.ClientID)),
	)

	org, err := uc.repo.GetOrganization(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	from, err := timezone.ParseDate("UTC", in.PeriodStart)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_period")
	}
	to, err := timezone.ParseDate("UTC", in.PeriodEnd)
	if err != nil || to.Before(from) {
		return nil, httperr.ErrBusiness("invalid_period")
	}

	client, err := uc.repo.GetClient(ctx, in.OrganizationID, in.ClientID)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Obtain(ctx, fmt.Sprintf("invoices:%d", in.OrganizationID), 30*time.Second)
	if err != nil {
		return nil, err
	}
	defer release()

	shifts, err := uc.repo.ListUninvoicedShifts(ctx, in.OrganizationID, client.ID, from, to)
	if err != nil {
		return nil, err
	}

	rate := domain.ResolveRate(in.HourlyRate, org.DefaultHourlyRate)
	items, total, err := domain.BuildLineItems(shifts, rate)
	if err != nil {
		return nil, err
	}

	dueDays := in.DueDays
	if dueDays <= 0 {
		dueDays = domain.DefaultDueDays
	}
	issued := timezone.DateOnly(uc.now().In(timezone.Location(org.Timezone)))

	inv := &models.Invoice{
		OrganizationID: in.OrganizationID,
		ClientID:       client.ID,
		PeriodStart:    from,
		PeriodEnd:      to,
		IssueDate:      issued,
		DueDate:        issued.AddDate(0, 0, dueDays),
		Status:         string(domain.StatusDraft),
		HourlyRate:     rate,
		Subtotal:       total,
		Total:          total,
		Notes:          in.Notes,
		LineItems:      items,
	}

	shiftIDs := make([]uint, 0, len(items))
	for _, it := range items {
		shiftIDs = append(shiftIDs, *it.ShiftID)
	}

	if err := uc.repo.CreateWithLineItems(ctx, inv, shiftIDs); err != nil {
		return nil, err
	}
	inv.Client = *client

	uc.audit.Dispatch(audit.Event{
		OrganizationID: in.OrganizationID,
		UserID:         &in.UserID,
		Action:         "invoice_generated",
		Entity:         "invoice",
		EntityID:       &inv.ID,
		Metadata: map[string]any{
			"number": inv.Number,
			"total":  inv.Total.StringFixed(2),
			"shifts": len(shiftIDs),
		},
	})

	return inv, nil
}
