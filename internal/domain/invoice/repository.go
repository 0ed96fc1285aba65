package invoice

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type Repository interface {
	GetOrganization(ctx context.Context, id uint) (*models.Organization, error)
	GetClient(ctx context.Context, orgID, clientID uint) (*models.Client, error)

	// ListUninvoicedShifts returns the client's shifts in [from, to] not yet billed.
	ListUninvoicedShifts(ctx context.Context, orgID, clientID uint, from, to time.Time) ([]models.StaffShift, error)

	// CreateWithLineItems persists the invoice, its items, and marks the
	// shifts as billed in one transaction. It assigns the invoice number.
	CreateWithLineItems(ctx context.Context, inv *models.Invoice, shiftIDs []uint) error

	GetInvoice(ctx context.Context, orgID, invoiceID uint) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error

	// CancelAndRelease saves the cancelled invoice and clears invoice_id on
	// its shifts in one transaction.
	CancelAndRelease(ctx context.Context, inv *models.Invoice) error

	ListInvoices(ctx context.Context, orgID uint, status string, clientID *uint) ([]models.Invoice, error)
	ListSentDueBefore(ctx context.Context, before time.Time) ([]models.Invoice, error)
}
