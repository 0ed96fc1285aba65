package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// ByDate lists one calendar day in the organization's timezone.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	orgID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	org, err := uc.repo.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(org.Timezone)
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	return uc.period(ctx, orgID, start, start.AddDate(0, 0, 1))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	orgID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	org, err := uc.repo.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Location(org.Timezone))
	return uc.period(ctx, orgID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) period(ctx context.Context, orgID uint, start, end time.Time) ([]dto.AppointmentListDTO, error) {
	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, ToListDTO(ap))
	}
	return out, nil
}

func ToListDTO(ap models.Appointment) dto.AppointmentListDTO {
	return dto.AppointmentListDTO{
		ID:            ap.ID,
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		Status:        ap.Status,
		PaymentStatus: ap.PaymentStatus,
		Price:         ap.Price,
		Service:       ap.Service,
		ClientName:    ap.Client.Name,
		SeekerName:    ap.SeekerName,
	}
}
