package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func adminUserIDs(ctx context.Context, db *gorm.DB, orgID uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("organization_id = ? AND role IN ?", orgID, []string{models.RoleOwner, models.RoleAdmin}).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func getOrganization(ctx context.Context, db *gorm.DB, id uint) (*models.Organization, error) {
	var org models.Organization
	err := db.WithContext(ctx).First(&org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("organization_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// scoped loads one tenant row, translating a miss into code.
func scoped[T any](ctx context.Context, db *gorm.DB, orgID, id uint, code string) (*T, error) {
	var row T
	err := db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness(code)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
