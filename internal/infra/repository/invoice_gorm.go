package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invoice"
	shiftdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) GetOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	return getOrganization(ctx, r.db, id)
}

func (r *InvoiceGormRepository) GetClient(ctx context.Context, orgID, clientID uint) (*models.Client, error) {
	return scoped[models.Client](ctx, r.db, orgID, clientID, "client_not_found")
}

// --------------------------------------------------
// Generation
// --------------------------------------------------

func (r *InvoiceGormRepository) ListUninvoicedShifts(
	ctx context.Context,
	orgID uint,
	clientID uint,
	from time.Time,
	to time.Time,
) ([]models.StaffShift, error) {

	var list []models.StaffShift
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where(
			"organization_id = ? AND client_id = ? AND shift_date >= ? AND shift_date <= ? AND invoice_id IS NULL AND status <> ?",
			orgID, clientID, from, to, string(shiftdomain.StatusCancelled),
		).
		Order("shift_date ASC, start_time ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *InvoiceGormRepository) CreateWithLineItems(
	ctx context.Context,
	inv *models.Invoice,
	shiftIDs []uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Model(&models.Invoice{}).
			Where("organization_id = ? AND number LIKE ?", inv.OrganizationID, domain.NumberPrefix(inv.IssueDate)+"%").
			Count(&seq).Error; err != nil {
			return err
		}
		inv.Number = domain.FormatNumber(inv.IssueDate, seq+1)

		if err := tx.Omit("Client").Create(inv).Error; err != nil {
			return err
		}

		res := tx.Model(&models.StaffShift{}).
			Where("id IN ? AND invoice_id IS NULL", shiftIDs).
			Update("invoice_id", inv.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(shiftIDs)) {
			return httperr.ErrBusiness("shifts_already_invoiced")
		}
		return nil
	})
}

// --------------------------------------------------
// Invoices
// --------------------------------------------------

func (r *InvoiceGormRepository) GetInvoice(ctx context.Context, orgID, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND organization_id = ?", invoiceID, orgID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("invoice_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceGormRepository) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(inv).Error
}

// CancelAndRelease makes a cancelled invoice's shifts billable again.
func (r *InvoiceGormRepository) CancelAndRelease(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
			return err
		}
		return tx.Model(&models.StaffShift{}).
			Where("organization_id = ? AND invoice_id = ?", inv.OrganizationID, inv.ID).
			Update("invoice_id", nil).Error
	})
}

func (r *InvoiceGormRepository) ListInvoices(
	ctx context.Context,
	orgID uint,
	status string,
	clientID *uint,
) ([]models.Invoice, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Where("organization_id = ?", orgID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}

	var list []models.Invoice
	err := q.Order("issue_date DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *InvoiceGormRepository) ListSentDueBefore(ctx context.Context, before time.Time) ([]models.Invoice, error) {
	var list []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", string(domain.StatusSent), before).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

var _ domain.Repository = (*InvoiceGormRepository)(nil)
