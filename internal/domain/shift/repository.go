package shift

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type Filter struct {
	OrganizationID uint
	From           *time.Time
	To             *time.Time
	StaffID        *uint
	ClientID       *uint
	Status         string
	Confirmation   string
}

type Repository interface {
	// -------- Organization --------
	GetOrganization(ctx context.Context, id uint) (*models.Organization, error)
	ListAdminUserIDs(ctx context.Context, orgID uint) ([]uint, error)

	// -------- People --------
	GetStaff(ctx context.Context, orgID, staffID uint) (*models.StaffMember, error)
	GetStaffByUser(ctx context.Context, orgID, userID uint) (*models.StaffMember, error)
	GetClient(ctx context.Context, orgID, clientID uint) (*models.Client, error)

	// -------- Shifts --------
	CreateShift(ctx context.Context, sh *models.StaffShift) error
	GetShift(ctx context.Context, orgID, shiftID uint) (*models.StaffShift, error)
	UpdateShift(ctx context.Context, sh *models.StaffShift) error
	ListShifts(ctx context.Context, f Filter) ([]models.StaffShift, error)
}
