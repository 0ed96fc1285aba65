package appointment

import (
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type AvailabilityInput struct {
	OrganizationID uint
	Date           time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func clockOn(day time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

// WithinOpeningHours checks [start, end) fits the day's hours and avoids the break.
func WithinOpeningHours(oh *models.OpeningHours, start, end time.Time) bool {
	if oh == nil || !oh.Active {
		return false
	}
	open, ok1 := clockOn(start, oh.StartTime)
	closeAt, ok2 := clockOn(start, oh.EndTime)
	if !ok1 || !ok2 || start.Before(open) || end.After(closeAt) {
		return false
	}
	if bs, ok := clockOn(start, oh.BreakStart); ok {
		if be, ok := clockOn(start, oh.BreakEnd); ok && start.Before(be) && end.After(bs) {
			return false
		}
	}
	return true
}

// Slots walks the day in slot-sized steps, skipping the break, booked
// appointments (sorted by start) and anything before notBefore.
func Slots(oh *models.OpeningHours, day time.Time, booked []models.Appointment, notBefore time.Time) []TimeSlot {
	slots := []TimeSlot{}
	if oh == nil || !oh.Active {
		return slots
	}

	dayStart, ok1 := clockOn(day, oh.StartTime)
	dayEnd, ok2 := clockOn(day, oh.EndTime)
	if !ok1 || !ok2 {
		return slots
	}

	slotMin := oh.SlotMin
	if slotMin <= 0 {
		slotMin = 60
	}
	step := time.Duration(slotMin) * time.Minute

	apIdx := 0
	for cur := dayStart; !cur.Add(step).After(dayEnd); cur = cur.Add(step) {
		slotStart := cur
		slotEnd := cur.Add(step)

		if slotStart.Before(notBefore) || !WithinOpeningHours(oh, slotStart, slotEnd) {
			continue
		}

		for apIdx < len(booked) && !booked[apIdx].EndTime.After(slotStart) {
			apIdx++
		}

		conflict := false
		for j := apIdx; j < len(booked) && booked[j].StartTime.Before(slotEnd); j++ {
			if slotStart.Before(booked[j].EndTime) && slotEnd.After(booked[j].StartTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}
