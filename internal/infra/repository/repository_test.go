package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	invdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/invitation"
	shiftdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

var jan5 = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func newShift(t *testing.T, repo *ShiftGormRepository, seed testutil.Seed, day time.Time) models.StaffShift {
	t.Helper()
	sh := models.StaffShift{
		OrganizationID: seed.Org.ID,
		StaffID:        seed.Staff.ID,
		ClientID:       seed.Client.ID,
		ShiftDate:      day,
		StartTime:      "09:00",
		EndTime:        "17:00",
		Status:         string(shiftdomain.StatusScheduled),
		Confirmation:   string(shiftdomain.ConfirmationPending),
	}
	require.NoError(t, repo.CreateShift(context.Background(), &sh))
	return sh
}

func TestShiftRepositoryFilters(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "shifts")
	other := testutil.SeedOrg(t, db, "other")
	repo := NewShiftGormRepository(db)
	ctx := context.Background()

	a := newShift(t, repo, seed, jan5)
	newShift(t, repo, seed, jan5.AddDate(0, 0, 3))
	newShift(t, repo, other, jan5)

	from, to := jan5, jan5.AddDate(0, 0, 1)
	list, err := repo.ListShifts(ctx, shiftdomain.Filter{OrganizationID: seed.Org.ID, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)
	require.Equal(t, "Nurse Joy", list[0].Staff.Name)

	_, err = repo.GetShift(ctx, other.Org.ID, a.ID)
	require.True(t, httperr.IsBusiness(err, "shift_not_found"))

	st, err := repo.GetStaffByUser(ctx, seed.Org.ID, seed.StaffUser.ID)
	require.NoError(t, err)
	require.Equal(t, seed.Staff.ID, st.ID)

	admins, err := repo.ListAdminUserIDs(ctx, seed.Org.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{seed.Owner.ID}, admins)
}

func TestInvoiceCreateIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "billing")
	shifts := NewShiftGormRepository(db)
	repo := NewInvoiceGormRepository(db)
	ctx := context.Background()

	s1 := newShift(t, shifts, seed, jan5)
	s2 := newShift(t, shifts, seed, jan5.AddDate(0, 0, 1))

	pending, err := repo.ListUninvoicedShifts(ctx, seed.Org.ID, seed.Client.ID, jan5, jan5.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, pending, 2)

	inv := &models.Invoice{
		OrganizationID: seed.Org.ID,
		ClientID:       seed.Client.ID,
		IssueDate:      jan5,
		DueDate:        jan5.AddDate(0, 0, 14),
		Status:         "draft",
		Total:          decimal.NewFromInt(480),
		LineItems: []models.InvoiceLineItem{
			{ShiftID: &s1.ID, Amount: decimal.NewFromInt(240)},
			{ShiftID: &s2.ID, Amount: decimal.NewFromInt(240)},
		},
	}
	require.NoError(t, repo.CreateWithLineItems(ctx, inv, []uint{s1.ID, s2.ID}))
	require.Equal(t, "INV-202601-0001", inv.Number)

	pending, err = repo.ListUninvoicedShifts(ctx, seed.Org.ID, seed.Client.ID, jan5, jan5.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Empty(t, pending)

	// Billing the same shift twice rolls the whole invoice back.
	dup := &models.Invoice{OrganizationID: seed.Org.ID, ClientID: seed.Client.ID, IssueDate: jan5, DueDate: jan5}
	err = repo.CreateWithLineItems(ctx, dup, []uint{s1.ID})
	require.True(t, httperr.IsBusiness(err, "shifts_already_invoiced"))

	var count int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	got, err := repo.GetInvoice(ctx, seed.Org.ID, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	require.Equal(t, "Ada Client", got.Client.Name)

	got.Status = "cancelled"
	require.NoError(t, repo.CancelAndRelease(ctx, got))
	pending, err = repo.ListUninvoicedShifts(ctx, seed.Org.ID, seed.Client.ID, jan5, jan5.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, pending, 2)

	var stored models.Invoice
	require.NoError(t, db.First(&stored, inv.ID).Error)
	require.Equal(t, "cancelled", stored.Status)

	next := &models.Invoice{OrganizationID: seed.Org.ID, ClientID: seed.Client.ID, IssueDate: jan5, DueDate: jan5}
	require.NoError(t, repo.CreateWithLineItems(ctx, next, []uint{s1.ID}))
	require.Equal(t, "INV-202601-0002", next.Number)
}

func TestAppointmentCreateIfFree(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "appts")
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	start := jan5.Add(9 * time.Hour)
	first := &models.Appointment{OrganizationID: seed.Org.ID, StartTime: start, EndTime: start.Add(time.Hour), Status: "scheduled"}
	require.NoError(t, repo.CreateIfFree(ctx, first))

	overlap := &models.Appointment{OrganizationID: seed.Org.ID, StartTime: start.Add(30 * time.Minute), EndTime: start.Add(90 * time.Minute), Status: "scheduled"}
	require.True(t, httperr.IsBusiness(repo.CreateIfFree(ctx, overlap), "time_conflict"))

	first.Status = "cancelled"
	require.NoError(t, repo.UpdateAppointment(ctx, first))
	require.NoError(t, repo.CreateIfFree(ctx, overlap))

	c1, err := repo.GetOrCreateClient(ctx, seed.Org.ID, "Ada", "555-0100", "")
	require.NoError(t, err)
	require.Equal(t, seed.Client.ID, c1.ID)

	c2, err := repo.GetOrCreateClient(ctx, seed.Org.ID, "Bob", "555-0199", "bob@example.com")
	require.NoError(t, err)
	require.NotEqual(t, seed.Client.ID, c2.ID)

	oh, err := repo.GetOpeningHours(ctx, seed.Org.ID, 1)
	require.NoError(t, err)
	require.Nil(t, oh)
}

func TestInvitationAcceptLinksRecord(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "invites")
	repo := NewInvitationGormRepository(db)
	ctx := context.Background()

	_, hash := invdomain.NewToken()
	inv := &models.Invitation{
		OrganizationID: seed.Org.ID,
		Kind:           string(invdomain.KindStaff),
		Email:          "new@invites.test",
		Name:           "New Nurse",
		TokenHash:      hash,
		Status:         string(invdomain.StatusPending),
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.CreateInvitation(ctx, inv))

	now := time.Now()
	require.NoError(t, invdomain.Accept(inv, now))
	user := &models.User{OrganizationID: seed.Org.ID, Name: inv.Name, Email: inv.Email, PasswordHash: "x", Role: models.RoleStaff}
	require.NoError(t, repo.Accept(ctx, invdomain.AcceptInput{Invitation: inv, User: user}))
	require.NotNil(t, inv.TargetID)

	var st models.StaffMember
	require.NoError(t, db.First(&st, *inv.TargetID).Error)
	require.Equal(t, user.ID, *st.UserID)

	// A second accept of the same row writes nothing.
	again := &models.User{OrganizationID: seed.Org.ID, Name: "x", Email: "other@invites.test", PasswordHash: "x"}
	err := repo.Accept(ctx, invdomain.AcceptInput{Invitation: inv, User: again})
	require.True(t, httperr.IsBusiness(err, "invitation_accepted"))

	inUse, err := repo.EmailInUse(ctx, "other@invites.test")
	require.NoError(t, err)
	require.False(t, inUse)

	inUse, err = repo.EmailInUse(ctx, " NEW@invites.test ")
	require.NoError(t, err)
	require.True(t, inUse)
}

func TestInvitationExpireAndRevoke(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "sweep")
	repo := NewInvitationGormRepository(db)
	ctx := context.Background()

	mk := func(email string, expires time.Time) *models.Invitation {
		_, hash := invdomain.NewToken()
		inv := &models.Invitation{OrganizationID: seed.Org.ID, Kind: "client", Email: email, TokenHash: hash, Status: "pending", ExpiresAt: expires}
		require.NoError(t, repo.CreateInvitation(ctx, inv))
		return inv
	}

	mk("old@x.test", time.Now().Add(-time.Hour))
	fresh := mk("fresh@x.test", time.Now().Add(time.Hour))

	n, err := repo.ExpireBefore(ctx, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, repo.RevokePending(ctx, seed.Org.ID, "FRESH@x.test", "client"))
	got, err := repo.GetInvitation(ctx, seed.Org.ID, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, "revoked", got.Status)

	list, err := repo.ListInvitations(ctx, seed.Org.ID, "client", "expired")
	require.NoError(t, err)
	require.Len(t, list, 1)
}
