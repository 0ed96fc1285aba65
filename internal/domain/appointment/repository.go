package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type Repository interface {
	// -------- Organization --------
	GetOrganizationByID(ctx context.Context, id uint) (*models.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error)
	ListAdminUserIDs(ctx context.Context, orgID uint) ([]uint, error)

	// -------- Client --------
	GetOrCreateClient(ctx context.Context, orgID uint, name, phone, email string) (*models.Client, error)

	// -------- Appointment --------
	// CreateIfFree inserts the appointment unless an open one overlaps it.
	CreateIfFree(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, orgID, appointmentID uint) (*models.Appointment, error)
	GetAppointmentByID(ctx context.Context, appointmentID uint) (*models.Appointment, error)
	GetAppointmentByPaymentReference(ctx context.Context, ref string) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Availability --------
	GetOpeningHours(ctx context.Context, orgID uint, weekday int) (*models.OpeningHours, error)
	ListOpenAppointments(ctx context.Context, orgID uint, start, end time.Time) ([]models.Appointment, error)
	ListAppointmentsForPeriod(ctx context.Context, orgID uint, start, end time.Time) ([]models.Appointment, error)
}
