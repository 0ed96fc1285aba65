package shift

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

type sent struct {
	user uint
	typ  string
}

type fakeNotifier struct {
	mu  sync.Mutex
	out []sent
}

func (f *fakeNotifier) Notify(_ context.Context, userID uint, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, sent{userID, msg.Type})
	return nil
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, ids []uint, msg notify.Message) {
	for _, id := range ids {
		_ = f.Notify(ctx, id, msg)
	}
}

type fixture struct {
	db       *gorm.DB
	seed     testutil.Seed
	repo     *repository.ShiftGormRepository
	audit    *audit.Dispatcher
	notifier *fakeNotifier
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	d := audit.NewDispatcher()
	t.Cleanup(d.Close)
	return fixture{
		db:       db,
		seed:     testutil.SeedOrg(t, db, "shifts"),
		repo:     repository.NewShiftGormRepository(db),
		audit:    d,
		notifier: &fakeNotifier{},
	}
}

func (f fixture) create(t *testing.T, start, end string, breakMin int) *models.StaffShift {
	t.Helper()
	sh, err := NewCreateShift(f.repo, f.audit, f.notifier).Execute(context.Background(), CreateShiftInput{
		OrganizationID: f.seed.Org.ID,
		UserID:         f.seed.Owner.ID,
		StaffID:        f.seed.Staff.ID,
		ClientID:       f.seed.Client.ID,
		Date:           "2026-02-02",
		StartTime:      start,
		EndTime:        end,
		BreakMinutes:   breakMin,
	})
	require.NoError(t, err)
	return sh
}

func TestCreateShiftValidates(t *testing.T) {
	f := setup(t)
	uc := NewCreateShift(f.repo, f.audit, f.notifier)
	ctx := context.Background()

	base := CreateShiftInput{
		OrganizationID: f.seed.Org.ID,
		StaffID:        f.seed.Staff.ID,
		ClientID:       f.seed.Client.ID,
		Date:           "2026-02-02",
		StartTime:      "09:00",
		EndTime:        "17:00",
	}

	cases := []struct {
		name string
		mod  func(*CreateShiftInput)
		code string
	}{
		{"bad clock", func(in *CreateShiftInput) { in.StartTime = "9am" }, "invalid_time"},
		{"negative break", func(in *CreateShiftInput) { in.BreakMinutes = -5 }, "invalid_break"},
		{"zero length", func(in *CreateShiftInput) { in.EndTime = "09:00" }, "invalid_duration"},
		{"bad date", func(in *CreateShiftInput) { in.Date = "02/02/2026" }, "invalid_date"},
		{"foreign staff", func(in *CreateShiftInput) { in.StaffID = 999 }, "staff_not_found"},
		{"foreign client", func(in *CreateShiftInput) { in.ClientID = 999 }, "client_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mod(&in)
			_, err := uc.Execute(ctx, in)
			require.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestCreateNotifiesStaff(t *testing.T) {
	f := setup(t)
	sh := f.create(t, "22:00", "06:00", 0)

	require.Equal(t, "scheduled", sh.Status)
	require.Equal(t, "pending", sh.Confirmation)
	require.Equal(t, []sent{{f.seed.StaffUser.ID, notifdomain.TypeShiftAssigned}}, f.notifier.out)

	dto := ToDTO(sh)
	require.True(t, dto.Overnight)
	require.Equal(t, "8", dto.Hours.String())
}

func TestAcceptDeclineFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sh := f.create(t, "09:00", "17:00", 30)
	uc := NewRespondToShift(f.repo, f.audit, f.notifier)

	_, err := uc.Execute(ctx, RespondInput{OrganizationID: f.seed.Org.ID, UserID: f.seed.Owner.ID, ShiftID: sh.ID, Accept: true})
	require.True(t, httperr.IsBusiness(err, "not_shift_owner"))

	got, err := uc.Execute(ctx, RespondInput{OrganizationID: f.seed.Org.ID, UserID: f.seed.StaffUser.ID, ShiftID: sh.ID, Reason: " sick "})
	require.NoError(t, err)
	require.Equal(t, "declined", got.Confirmation)
	require.Equal(t, "sick", got.DeclineReason)
	require.NotNil(t, got.RespondedAt)
	require.Equal(t, sent{f.seed.Owner.ID, notifdomain.TypeShiftDeclined}, f.notifier.out[len(f.notifier.out)-1])

	_, err = uc.Execute(ctx, RespondInput{OrganizationID: f.seed.Org.ID, UserID: f.seed.StaffUser.ID, ShiftID: sh.ID, Accept: true})
	require.True(t, httperr.IsBusiness(err, "already_responded"))

	// Moving the shift re-opens confirmation.
	newStart := "10:00"
	updated, err := NewUpdateShift(f.repo, f.audit, f.notifier).Execute(ctx, UpdateShiftInput{
		OrganizationID: f.seed.Org.ID,
		ShiftID:        sh.ID,
		StartTime:      &newStart,
	})
	require.NoError(t, err)
	require.Equal(t, "pending", updated.Confirmation)
	require.Empty(t, updated.DeclineReason)

	got, err = uc.Execute(ctx, RespondInput{OrganizationID: f.seed.Org.ID, UserID: f.seed.StaffUser.ID, ShiftID: sh.ID, Accept: true})
	require.NoError(t, err)
	require.Equal(t, "accepted", got.Confirmation)

	notes := "bring meds"
	updated, err = NewUpdateShift(f.repo, f.audit, f.notifier).Execute(ctx, UpdateShiftInput{
		OrganizationID: f.seed.Org.ID,
		ShiftID:        sh.ID,
		Notes:          &notes,
	})
	require.NoError(t, err)
	require.Equal(t, "accepted", updated.Confirmation)
}

func TestLifecycleAndSoftCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := NewChangeShiftStatus(f.repo, f.audit, f.notifier)

	a := f.create(t, "09:00", "17:00", 0)
	got, err := uc.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, a.ID, TransitionStart)
	require.NoError(t, err)
	require.Equal(t, "in_progress", got.Status)
	got, err = uc.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, a.ID, TransitionComplete)
	require.NoError(t, err)
	require.Equal(t, "completed", got.Status)

	b := f.create(t, "18:00", "20:00", 0)
	got, err = uc.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, b.ID, TransitionCancel)
	require.NoError(t, err)
	require.Equal(t, "cancelled", got.Status)
	require.Equal(t, sent{f.seed.StaffUser.ID, notifdomain.TypeShiftCancelled}, f.notifier.out[len(f.notifier.out)-1])

	_, err = uc.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, b.ID, TransitionStart)
	require.True(t, httperr.IsBusiness(err, "invalid_state"))

	_, err = uc.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, b.ID, Transition("delete"))
	require.True(t, httperr.IsBusiness(err, "invalid_transition"))

	list, err := NewListShifts(f.repo).Execute(ctx, ListInput{OrganizationID: f.seed.Org.ID, Status: "cancelled"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, b.ID, list[0].ID)

	mine, err := NewListShifts(f.repo).Mine(ctx, f.seed.Org.ID, f.seed.StaffUser.ID, ListInput{From: "2026-02-01", To: "2026-02-28"})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	_, err = NewListShifts(f.repo).Execute(ctx, ListInput{OrganizationID: f.seed.Org.ID, Status: "deleted"})
	require.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestUpdateRejectsInactiveStaff(t *testing.T) {
	f := setup(t)
	sh := f.create(t, "09:00", "17:00", 0)

	gone := models.StaffMember{OrganizationID: f.seed.Org.ID, Name: "Former Carer", Status: "inactive"}
	require.NoError(t, f.db.Create(&gone).Error)

	_, err := NewUpdateShift(f.repo, f.audit, f.notifier).Execute(context.Background(), UpdateShiftInput{
		OrganizationID: f.seed.Org.ID,
		UserID:         f.seed.Owner.ID,
		ShiftID:        sh.ID,
		StaffID:        &gone.ID,
	})
	require.True(t, httperr.IsBusiness(err, "staff_inactive"))

	stored, err := f.repo.GetShift(context.Background(), f.seed.Org.ID, sh.ID)
	require.NoError(t, err)
	require.Equal(t, f.seed.Staff.ID, stored.StaffID)
}

type adminLookupFails struct {
	*repository.ShiftGormRepository
}

func (adminLookupFails) ListAdminUserIDs(context.Context, uint) ([]uint, error) {
	return nil, errors.New("db down")
}

func TestRespondSurvivesAdminLookupFailure(t *testing.T) {
	f := setup(t)
	sh := f.create(t, "09:00", "17:00", 0)
	before := len(f.notifier.out)

	uc := NewRespondToShift(adminLookupFails{f.repo}, f.audit, f.notifier)
	got, err := uc.Execute(context.Background(), RespondInput{
		OrganizationID: f.seed.Org.ID,
		UserID:         f.seed.StaffUser.ID,
		ShiftID:        sh.ID,
		Accept:         true,
	})
	require.NoError(t, err)
	require.Equal(t, "accepted", got.Confirmation)
	require.Len(t, f.notifier.out, before)
}
