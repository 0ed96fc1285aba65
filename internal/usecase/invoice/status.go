package invoice

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type UpdateStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateStatus(repo domain.Repository, audit *audit.Dispatcher) *UpdateStatus {
	return &UpdateStatus{repo: repo, audit: audit, now: time.Now}
}

func (uc *UpdateStatus) MarkPaid(ctx context.Context, orgID, userID, invoiceID uint) (*models.Invoice, error) {
	inv, err := uc.repo.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanMarkPaid(domain.Status(inv.Status)); err != nil {
		return nil, err
	}

	now := uc.now()
	inv.Status = string(domain.StatusPaid)
	inv.PaidAt = &now

	return inv, uc.save(ctx, inv, userID, "invoice_paid")
}

// Cancel voids the invoice and frees its shifts for a later invoice.
func (uc *UpdateStatus) Cancel(ctx context.Context, orgID, userID, invoiceID uint) (*models.Invoice, error) {
	inv, err := uc.repo.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanCancel(domain.Status(inv.Status)); err != nil {
		return nil, err
	}

	inv.Status = string(domain.StatusCancelled)
	if err := uc.repo.CancelAndRelease(ctx, inv); err != nil {
		return nil, err
	}
	uc.record(inv, userID, "invoice_cancelled")
	return inv, nil
}

func (uc *UpdateStatus) save(ctx context.Context, inv *models.Invoice, userID uint, action string) error {
	if err := uc.repo.UpdateInvoice(ctx, inv); err != nil {
		return err
	}
	uc.record(inv, userID, action)
	return nil
}

func (uc *UpdateStatus) record(inv *models.Invoice, userID uint, action string) {
	uc.audit.Dispatch(audit.Event{
		OrganizationID: inv.OrganizationID,
		UserID:         &userID,
		Action:         action,
		Entity:         "invoice",
		EntityID:       &inv.ID,
	})
}

// MarkOverdue flips every sent invoice past its due date. Used by the CLI sweep.
type MarkOverdue struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewMarkOverdue(repo domain.Repository, audit *audit.Dispatcher) *MarkOverdue {
	return &MarkOverdue{repo: repo, audit: audit, now: time.Now}
}

func (uc *MarkOverdue) Execute(ctx context.Context) (int, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	list, err := uc.repo.ListSentDueBefore(ctx, today)
	if err != nil {
		return 0, err
	}

	n := 0
	for i := range list {
		inv := &list[i]
		if !domain.IsOverdue(inv, now) {
			continue
		}
		inv.Status = string(domain.StatusOverdue)
		if err := uc.repo.UpdateInvoice(ctx, inv); err != nil {
			return n, err
		}
		uc.audit.Dispatch(audit.Event{
			OrganizationID: inv.OrganizationID,
			Action:         "invoice_overdue",
			Entity:         "invoice",
			EntityID:       &inv.ID,
		})
		n++
	}
	return n, nil
}
