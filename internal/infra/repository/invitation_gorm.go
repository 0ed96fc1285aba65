package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invitation"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type InvitationGormRepository struct {
	db *gorm.DB
}

func NewInvitationGormRepository(db *gorm.DB) *InvitationGormRepository {
	return &InvitationGormRepository{db: db}
}

func (r *InvitationGormRepository) GetOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	return getOrganization(ctx, r.db, id)
}

func (r *InvitationGormRepository) ListAdminUserIDs(ctx context.Context, orgID uint) ([]uint, error) {
	return adminUserIDs(ctx, r.db, orgID)
}

func (r *InvitationGormRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// --------------------------------------------------
// Invitations
// --------------------------------------------------

func (r *InvitationGormRepository) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvitationGormRepository) GetByTokenHash(ctx context.Context, hash string) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("invitation_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationGormRepository) GetInvitation(ctx context.Context, orgID, id uint) (*models.Invitation, error) {
	return scoped[models.Invitation](ctx, r.db, orgID, id, "invitation_not_found")
}

func (r *InvitationGormRepository) UpdateInvitation(ctx context.Context, inv *models.Invitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvitationGormRepository) RevokePending(ctx context.Context, orgID uint, email string, kind string) error {
	return r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("organization_id = ? AND LOWER(email) = ? AND kind = ? AND status = ?",
			orgID, strings.ToLower(email), kind, string(domain.StatusPending)).
		Update("status", string(domain.StatusRevoked)).Error
}

func (r *InvitationGormRepository) ListInvitations(ctx context.Context, orgID uint, kind, status string) ([]models.Invitation, error) {
	q := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var list []models.Invitation
	err := q.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *InvitationGormRepository) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", string(domain.StatusPending), now).
		Update("status", string(domain.StatusExpired))
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Acceptance
// --------------------------------------------------

func (r *InvitationGormRepository) Accept(ctx context.Context, in domain.AcceptInput) error {
	inv := in.Invitation
	user := in.User

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guard against a concurrent accept of the same token.
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", inv.ID, string(domain.StatusPending)).
			Updates(map[string]any{
				"status":      inv.Status,
				"accepted_at": inv.AcceptedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness("invitation_accepted")
		}

		if err := tx.Omit("Organization").Create(user).Error; err != nil {
			return err
		}

		targetID, err := linkRecord(tx, inv, user)
		if err != nil {
			return err
		}
		inv.TargetID = &targetID

		return tx.Model(&models.Invitation{}).
			Where("id = ?", inv.ID).
			Update("target_id", targetID).Error
	})
}

// linkRecord attaches the new user to the pre-created staff/client row, or
// creates one when the invitation did not point at any.
func linkRecord(tx *gorm.DB, inv *models.Invitation, user *models.User) (uint, error) {
	var model any
	switch domain.Kind(inv.Kind) {
	case domain.KindStaff:
		model = &models.StaffMember{}
	default:
		model = &models.Client{}
	}

	if inv.TargetID != nil {
		res := tx.Model(model).
			Where("id = ? AND organization_id = ?", *inv.TargetID, inv.OrganizationID).
			Update("user_id", user.ID)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 1 {
			return *inv.TargetID, nil
		}
	}

	if domain.Kind(inv.Kind) == domain.KindStaff {
		st := models.StaffMember{
			OrganizationID: inv.OrganizationID,
			UserID:         &user.ID,
			Name:           user.Name,
			Email:          user.Email,
			Phone:          user.Phone,
			Status:         "active",
		}
		if err := tx.Create(&st).Error; err != nil {
			return 0, err
		}
		return st.ID, nil
	}

	cl := models.Client{
		OrganizationID: inv.OrganizationID,
		UserID:         &user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Status:         "active",
	}
	if err := tx.Create(&cl).Error; err != nil {
		return 0, err
	}
	return cl.ID, nil
}

var _ domain.Repository = (*InvitationGormRepository)(nil)
