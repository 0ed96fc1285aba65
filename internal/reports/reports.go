// Package reports builds shift and hours exports as CSV or XLSX.
package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

const sheet = "Sheet1"

var (
	shiftHeader = []string{"date", "staff", "client", "start", "end", "break_minutes", "hours", "status", "confirmation"}
	hoursHeader = []string{"staff_id", "staff", "shifts", "hours"}
)

type ShiftRow struct {
	Date         string
	Staff        string
	Client       string
	Start        string
	End          string
	BreakMinutes int
	Hours        decimal.Decimal
	Status       string
	Confirmation string
}

func (r ShiftRow) cells() []any {
	return []any{r.Date, r.Staff, r.Client, r.Start, r.End, r.BreakMinutes, r.Hours.StringFixed(2), r.Status, r.Confirmation}
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Shifts lists every shift in [from, to], cancelled ones included, in date order.
func (s *Service) Shifts(ctx context.Context, orgID uint, from, to time.Time) ([]ShiftRow, error) {
	var list []models.StaffShift
	err := s.db.WithContext(ctx).
		Preload("Staff").
		Preload("Client").
		Where("organization_id = ? AND shift_date >= ? AND shift_date <= ?", orgID, from, to).
		Order("shift_date ASC, start_time ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	rows := make([]ShiftRow, 0, len(list))
	for _, sh := range list {
		hours, err := shift.Hours(sh.StartTime, sh.EndTime, sh.BreakMinutes)
		if err != nil {
			return nil, fmt.Errorf("shift %d: %w", sh.ID, err)
		}
		rows = append(rows, ShiftRow{
			Date:         sh.ShiftDate.Format("2006-01-02"),
			Staff:        sh.Staff.Name,
			Client:       sh.Client.Name,
			Start:        sh.StartTime,
			End:          sh.EndTime,
			BreakMinutes: sh.BreakMinutes,
			Hours:        hours,
			Status:       sh.Status,
			Confirmation: sh.Confirmation,
		})
	}
	return rows, nil
}

// StaffHours totals worked hours per staff member, skipping cancelled and
// declined shifts.
func (s *Service) StaffHours(ctx context.Context, orgID uint, from, to time.Time) ([]dto.StaffHoursDTO, error) {
	var list []models.StaffShift
	err := s.db.WithContext(ctx).
		Preload("Staff").
		Where("organization_id = ? AND shift_date >= ? AND shift_date <= ? AND status <> ? AND confirmation <> ?",
			orgID, from, to, string(shift.StatusCancelled), string(shift.ConfirmationDeclined)).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	byStaff := map[uint]*dto.StaffHoursDTO{}
	for _, sh := range list {
		hours, err := shift.Hours(sh.StartTime, sh.EndTime, sh.BreakMinutes)
		if err != nil {
			return nil, fmt.Errorf("shift %d: %w", sh.ID, err)
		}
		agg, ok := byStaff[sh.StaffID]
		if !ok {
			agg = &dto.StaffHoursDTO{StaffID: sh.StaffID, StaffName: sh.Staff.Name, Hours: decimal.Zero}
			byStaff[sh.StaffID] = agg
		}
		agg.Shifts++
		agg.Hours = agg.Hours.Add(hours)
	}

	out := make([]dto.StaffHoursDTO, 0, len(byStaff))
	for _, agg := range byStaff {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StaffName != out[j].StaffName {
			return out[i].StaffName < out[j].StaffName
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}

// ------------------------------------------------------------
// CSV
// ------------------------------------------------------------

func WriteShiftsCSV(w io.Writer, rows []ShiftRow) error {
	return writeCSV(w, shiftHeader, len(rows), func(i int) []any { return rows[i].cells() })
}

func WriteHoursCSV(w io.Writer, rows []dto.StaffHoursDTO) error {
	return writeCSV(w, hoursHeader, len(rows), func(i int) []any { return hoursCells(rows[i]) })
}

func writeCSV(w io.Writer, header []string, n int, row func(int) []any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		cells := row(i)
		rec := make([]string, len(cells))
		for j, c := range cells {
			rec[j] = fmt.Sprint(c)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ------------------------------------------------------------
// XLSX
// ------------------------------------------------------------

func WriteShiftsXLSX(w io.Writer, rows []ShiftRow) error {
	return writeXLSX(w, shiftHeader, len(rows), func(i int) []any { return rows[i].cells() })
}

func WriteHoursXLSX(w io.Writer, rows []dto.StaffHoursDTO) error {
	return writeXLSX(w, hoursHeader, len(rows), func(i int) []any { return hoursCells(rows[i]) })
}

func writeXLSX(w io.Writer, header []string, n int, row func(int) []any) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i := 0; i < n; i++ {
		for col, v := range row(i) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func hoursCells(h dto.StaffHoursDTO) []any {
	return []any{h.StaffID, h.StaffName, h.Shifts, h.Hours.StringFixed(2)}
}
