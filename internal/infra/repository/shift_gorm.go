package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type ShiftGormRepository struct {
	db *gorm.DB
}

func NewShiftGormRepository(db *gorm.DB) *ShiftGormRepository {
	return &ShiftGormRepository{db: db}
}

// --------------------------------------------------
// Organization
// --------------------------------------------------

func (r *ShiftGormRepository) GetOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	return getOrganization(ctx, r.db, id)
}

func (r *ShiftGormRepository) ListAdminUserIDs(ctx context.Context, orgID uint) ([]uint, error) {
	return adminUserIDs(ctx, r.db, orgID)
}

// --------------------------------------------------
// People
// --------------------------------------------------

func (r *ShiftGormRepository) GetStaff(ctx context.Context, orgID, staffID uint) (*models.StaffMember, error) {
	return scoped[models.StaffMember](ctx, r.db, orgID, staffID, "staff_not_found")
}

func (r *ShiftGormRepository) GetStaffByUser(ctx context.Context, orgID, userID uint) (*models.StaffMember, error) {
	var st models.StaffMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("staff_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *ShiftGormRepository) GetClient(ctx context.Context, orgID, clientID uint) (*models.Client, error) {
	return scoped[models.Client](ctx, r.db, orgID, clientID, "client_not_found")
}

// --------------------------------------------------
// Shifts
// --------------------------------------------------

func (r *ShiftGormRepository) CreateShift(ctx context.Context, sh *models.StaffShift) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sh).Error
}

func (r *ShiftGormRepository) GetShift(ctx context.Context, orgID, shiftID uint) (*models.StaffShift, error) {
	var sh models.StaffShift
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Client").
		Where("id = ? AND organization_id = ?", shiftID, orgID).
		First(&sh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("shift_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (r *ShiftGormRepository) UpdateShift(ctx context.Context, sh *models.StaffShift) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sh).Error
}

func (r *ShiftGormRepository) ListShifts(ctx context.Context, f domain.Filter) ([]models.StaffShift, error) {
	q := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Client").
		Where("organization_id = ?", f.OrganizationID)

	if f.From != nil {
		q = q.Where("shift_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("shift_date <= ?", *f.To)
	}
	if f.StaffID != nil {
		q = q.Where("staff_id = ?", *f.StaffID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Confirmation != "" {
		q = q.Where("confirmation = ?", f.Confirmation)
	}

	var list []models.StaffShift
	if err := q.Order("shift_date ASC, start_time ASC, id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

var _ domain.Repository = (*ShiftGormRepository)(nil)
