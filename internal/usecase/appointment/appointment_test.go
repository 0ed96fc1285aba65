package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/payments"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

type fakeNotifier struct {
	mu    sync.Mutex
	types []string
	users []uint
}

func (f *fakeNotifier) Notify(_ context.Context, userID uint, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
	f.types = append(f.types, msg.Type)
	return nil
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, ids []uint, msg notify.Message) {
	for _, id := range ids {
		_ = f.Notify(ctx, id, msg)
	}
}

type fakeGateway struct {
	status string
	ref    string
}

func (g *fakeGateway) CreateCheckout(_ context.Context, in payments.CheckoutInput) (payments.Checkout, error) {
	g.ref = in.Reference
	return payments.Checkout{ID: "pref-1", URL: "https://pay.example/" + in.Reference}, nil
}

func (g *fakeGateway) Lookup(context.Context, string) (string, string, error) {
	return g.status, g.ref, nil
}

// Monday 2030-01-07, far enough ahead for any minimum notice.
const bookingDate = "2030-01-07"

type fixture struct {
	seed     testutil.Seed
	repo     *repository.AppointmentGormRepository
	audit    *audit.Dispatcher
	notifier *fakeNotifier
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "clinic")
	require.NoError(t, db.Create(&models.OpeningHours{
		OrganizationID: seed.Org.ID,
		Weekday:        int(time.Monday),
		StartTime:      "09:00",
		EndTime:        "12:00",
		SlotMin:        60,
		Active:         true,
	}).Error)

	d := audit.NewDispatcher()
	t.Cleanup(d.Close)

	return fixture{
		seed:     seed,
		repo:     repository.NewAppointmentGormRepository(db),
		audit:    d,
		notifier: &fakeNotifier{},
	}
}

func TestPublicBookingFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	book := NewCreatePublicAppointment(f.repo, f.audit, f.notifier)

	in := CreatePublicAppointmentInput{
		Slug:  "clinic",
		Name:  "Grace",
		Phone: "555-0200",
		Date:  bookingDate,
		Time:  "10:00",
		Price: decimal.NewFromInt(80),
	}

	ap, err := book.Execute(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "scheduled", ap.Status)
	require.Equal(t, "unpaid", ap.PaymentStatus)
	require.Equal(t, 11, ap.EndTime.Hour())
	require.Equal(t, []uint{f.seed.Owner.ID}, f.notifier.users)

	_, err = book.Execute(ctx, in)
	require.True(t, httperr.IsBusiness(err, "time_conflict"))

	in.Time = "12:00"
	_, err = book.Execute(ctx, in)
	require.True(t, httperr.IsBusiness(err, "outside_opening_hours"))

	in.Slug = "nope"
	_, err = book.Execute(ctx, in)
	require.True(t, httperr.IsBusiness(err, "organization_not_found"))

	slots, err := NewGetAvailability(f.repo).Execute(ctx, GetAvailabilityInput{Slug: "clinic", Date: bookingDate})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.Equal(t, "09:00", slots[0].Start)
	require.Equal(t, "11:00", slots[1].Start)
}

func TestPublicBookingTooSoon(t *testing.T) {
	f := setup(t)
	book := NewCreatePublicAppointment(f.repo, f.audit, f.notifier)
	book.now = func() time.Time { return time.Date(2030, 1, 7, 9, 30, 0, 0, time.UTC) }

	_, err := book.Execute(context.Background(), CreatePublicAppointmentInput{
		Slug: "clinic", Name: "Grace", Phone: "555", Date: bookingDate, Time: "10:00",
	})
	require.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestPaymentFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ap, err := NewCreatePrivateAppointment(f.repo, f.audit).Execute(ctx, CreatePrivateAppointmentInput{
		OrganizationID: f.seed.Org.ID,
		UserID:         f.seed.Owner.ID,
		ClientName:     "Ada Client",
		ClientPhone:    "555-0100",
		Date:           bookingDate,
		Time:           "18:00",
		Price:          decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	require.Equal(t, f.seed.Client.ID, *ap.ClientID)

	_, err = NewPayAppointment(f.repo, nil, f.audit, "").Execute(ctx, ap.ID)
	require.True(t, httperr.IsBusiness(err, "payments_disabled"))

	gw := &fakeGateway{status: "pending"}
	paid, err := NewPayAppointment(f.repo, gw, f.audit, "https://app.example").Execute(ctx, ap.ID)
	require.NoError(t, err)
	require.Equal(t, "pending", paid.PaymentStatus)
	require.Equal(t, Reference(ap.ID), paid.PaymentReference)
	require.Contains(t, paid.PaymentURL, "appt-")

	confirm := NewConfirmPayment(f.repo, gw, f.audit)
	got, err := confirm.Execute(ctx, "99")
	require.NoError(t, err)
	require.Nil(t, got)

	gw.status = payments.StatusApproved
	got, err = confirm.Execute(ctx, "99")
	require.NoError(t, err)
	require.Equal(t, "paid", got.PaymentStatus)

	_, err = NewPayAppointment(f.repo, gw, f.audit, "").Execute(ctx, ap.ID)
	require.True(t, httperr.IsBusiness(err, "already_paid"))
}

func TestStatusChanges(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ap, err := NewCreatePrivateAppointment(f.repo, f.audit).Execute(ctx, CreatePrivateAppointmentInput{
		OrganizationID: f.seed.Org.ID,
		ClientName:     "Ada Client",
		ClientPhone:    "555-0100",
		Date:           bookingDate,
		Time:           "14:00",
		DurationMin:    30,
	})
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, ap.EndTime.Sub(ap.StartTime))

	ap, err = NewConfirmAppointment(f.repo, f.audit).Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, ap.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmed", ap.Status)

	status := NewChangeAppointmentStatus(f.repo, f.audit)
	ap, err = status.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, ap.ID, TransitionCancel)
	require.NoError(t, err)
	require.NotNil(t, ap.CancelledAt)

	_, err = status.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, ap.ID, TransitionComplete)
	require.True(t, httperr.IsBusiness(err, "invalid_state"))

	_, err = status.Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, ap.ID, Transition("reopen"))
	require.True(t, httperr.IsBusiness(err, "invalid_transition"))

	list, err := NewListAppointments(f.repo).ByMonth(ctx, f.seed.Org.ID, 2030, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ada Client", list[0].ClientName)
}

func TestCompleteConfirmedAppointment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ap, err := NewCreatePrivateAppointment(f.repo, f.audit).Execute(ctx, CreatePrivateAppointmentInput{
		OrganizationID: f.seed.Org.ID,
		ClientName:     "Ada Client",
		ClientPhone:    "555-0100",
		Date:           bookingDate,
		Time:           "14:00",
	})
	require.NoError(t, err)

	_, err = NewConfirmAppointment(f.repo, f.audit).Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, ap.ID)
	require.NoError(t, err)

	done, err := NewChangeAppointmentStatus(f.repo, f.audit).
		Execute(ctx, f.seed.Org.ID, f.seed.Owner.ID, ap.ID, TransitionComplete)
	require.NoError(t, err)
	require.Equal(t, "completed", done.Status)
	require.NotNil(t, done.CompletedAt)
}
