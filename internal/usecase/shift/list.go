package shift

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

var errUnknownTransition = httperr.ErrBusiness("invalid_transition")

type ListInput struct {
	OrganizationID uint
	From           string
	To             string
	StaffID        *uint
	ClientID       *uint
	Status         string
	Confirmation   string
}

type ListShifts struct {
	repo domain.Repository
}

func NewListShifts(repo domain.Repository) *ListShifts {
	return &ListShifts{repo: repo}
}

func (uc *ListShifts) Execute(ctx context.Context, in ListInput) ([]dto.ShiftDTO, error) {
	f := domain.Filter{
		OrganizationID: in.OrganizationID,
		StaffID:        in.StaffID,
		ClientID:       in.ClientID,
	}

	if in.Status != "" {
		if _, ok := domain.ParseStatus(in.Status); !ok {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		f.Status = in.Status
	}
	if in.Confirmation != "" {
		if _, ok := domain.ParseConfirmation(in.Confirmation); !ok {
			return nil, httperr.ErrBusiness("invalid_confirmation")
		}
		f.Confirmation = in.Confirmation
	}

	if in.From != "" {
		d, err := timezone.ParseDate("UTC", in.From)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		f.From = &d
	}
	if in.To != "" {
		d, err := timezone.ParseDate("UTC", in.To)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		f.To = &d
	}

	list, err := uc.repo.ListShifts(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ShiftDTO, 0, len(list))
	for i := range list {
		out = append(out, ToDTO(&list[i]))
	}
	return out, nil
}

// Mine lists the shifts assigned to the staff member linked to userID.
func (uc *ListShifts) Mine(ctx context.Context, orgID, userID uint, in ListInput) ([]dto.ShiftDTO, error) {
	staff, err := uc.repo.GetStaffByUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	in.OrganizationID = orgID
	in.StaffID = &staff.ID
	return uc.Execute(ctx, in)
}

func ToDTO(sh *models.StaffShift) dto.ShiftDTO {
	hours, _ := domain.Hours(sh.StartTime, sh.EndTime, sh.BreakMinutes)
	return dto.ShiftDTO{
		ID:            sh.ID,
		ShiftDate:     sh.ShiftDate.Format("2006-01-02"),
		StartTime:     sh.StartTime,
		EndTime:       sh.EndTime,
		BreakMinutes:  sh.BreakMinutes,
		Hours:         hours,
		Overnight:     domain.Overnight(sh.StartTime, sh.EndTime),
		Status:        sh.Status,
		Confirmation:  sh.Confirmation,
		DeclineReason: sh.DeclineReason,
		StaffID:       sh.StaffID,
		StaffName:     sh.Staff.Name,
		ClientID:      sh.ClientID,
		ClientName:    sh.Client.Name,
		Notes:         sh.Notes,
		Invoiced:      sh.InvoiceID != nil,
	}
}
