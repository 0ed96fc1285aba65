package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

type GetAvailabilityInput struct {
	Slug string
	Date string
}

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]domain.TimeSlot, error) {

	org, err := uc.repo.GetOrganizationBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(org.Timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	oh, err := uc.repo.GetOpeningHours(ctx, org.ID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if oh == nil || !oh.Active {
		return []domain.TimeSlot{}, nil
	}

	booked, err := uc.repo.ListOpenAppointments(ctx, org.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	notBefore := uc.now().In(day.Location()).Add(minAdvance(org.MinAdvanceMinutes))
	return domain.Slots(oh, day, booked, notBefore), nil
}

func minAdvance(minutes int) time.Duration {
	if minutes <= 0 {
		minutes = 120
	}
	return time.Duration(minutes) * time.Minute
}
