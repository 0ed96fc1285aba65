package invoice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/cache"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/payments"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

type outbox struct {
	mu   sync.Mutex
	sent []string
}

func (o *outbox) Send(to, subject, _ string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, to+"|"+subject)
	return nil
}

type nopNotifier struct{ n int }

func (f *nopNotifier) Notify(context.Context, uint, notify.Message) error { f.n++; return nil }
func (f *nopNotifier) NotifyMany(context.Context, []uint, notify.Message) {}

type stubCheckout struct{ in payments.CheckoutInput }

func (s *stubCheckout) CreateCheckout(_ context.Context, in payments.CheckoutInput) (payments.Checkout, error) {
	s.in = in
	return payments.Checkout{ID: "cs_1", URL: "https://pay.test/cs_1"}, nil
}

type fixture struct {
	db    *gorm.DB
	seed  testutil.Seed
	repo  *repository.InvoiceGormRepository
	audit *audit.Dispatcher
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	d := audit.NewDispatcher()
	t.Cleanup(d.Close)
	return fixture{
		db:    db,
		seed:  testutil.SeedOrg(t, db, "billing"),
		repo:  repository.NewInvoiceGormRepository(db),
		audit: d,
	}
}

func (f fixture) shift(t *testing.T, day int, start, end, status string) models.StaffShift {
	t.Helper()
	sh := models.StaffShift{
		OrganizationID: f.seed.Org.ID,
		StaffID:        f.seed.Staff.ID,
		ClientID:       f.seed.Client.ID,
		ShiftDate:      time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		StartTime:      start,
		EndTime:        end,
		Status:         status,
		Confirmation:   "accepted",
	}
	require.NoError(t, f.db.Create(&sh).Error)
	return sh
}

func (f fixture) generate(t *testing.T, rate *decimal.Decimal) (*models.Invoice, error) {
	t.Helper()
	uc := NewGenerateInvoice(f.repo, cache.NewLocalLocker(), f.audit)
	uc.now = func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) }
	return uc.Execute(context.Background(), GenerateInput{
		OrganizationID: f.seed.Org.ID,
		UserID:         f.seed.Owner.ID,
		ClientID:       f.seed.Client.ID,
		PeriodStart:    "2026-03-01",
		PeriodEnd:      "2026-03-31",
		HourlyRate:     rate,
	})
}

func TestGenerateInvoice(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "08:00", "16:00", "completed")
	f.shift(t, 3, "08:00", "16:00", "completed")
	f.shift(t, 4, "22:00", "06:00", "scheduled")
	f.shift(t, 5, "08:00", "16:00", "cancelled")

	inv, err := f.generate(t, nil)
	require.NoError(t, err)
	require.Equal(t, "INV-202604-0001", inv.Number)
	require.Len(t, inv.LineItems, 3)
	require.Equal(t, "720", inv.Total.String())
	require.Equal(t, "2026-04-15", inv.DueDate.Format("2006-01-02"))
	require.Equal(t, "draft", inv.Status)

	var billed int64
	f.db.Model(&models.StaffShift{}).Where("invoice_id = ?", inv.ID).Count(&billed)
	require.Equal(t, int64(3), billed)

	// Every shift in the period is billed now.
	_, err = f.generate(t, nil)
	require.True(t, httperr.IsBusiness(err, "no_billable_shifts"))
}

func TestGenerateInvoiceRateOverrideAndNumbering(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "09:00", "13:00", "completed")

	rate := decimal.NewFromInt(50)
	first, err := f.generate(t, &rate)
	require.NoError(t, err)
	require.Equal(t, "200", first.Total.String())

	f.shift(t, 9, "09:00", "10:30", "completed")
	second, err := f.generate(t, nil)
	require.NoError(t, err)
	require.Equal(t, "INV-202604-0002", second.Number)
	require.Equal(t, "45", second.Total.String())
}

func TestGenerateInvoiceRejectsBadPeriod(t *testing.T) {
	f := setup(t)
	uc := NewGenerateInvoice(f.repo, cache.NewLocalLocker(), f.audit)

	_, err := uc.Execute(context.Background(), GenerateInput{
		OrganizationID: f.seed.Org.ID,
		ClientID:       f.seed.Client.ID,
		PeriodStart:    "2026-03-31",
		PeriodEnd:      "2026-03-01",
	})
	require.True(t, httperr.IsBusiness(err, "invalid_period"))

	_, err = uc.Execute(context.Background(), GenerateInput{
		OrganizationID: f.seed.Org.ID,
		ClientID:       999,
		PeriodStart:    "2026-03-01",
		PeriodEnd:      "2026-03-31",
	})
	require.True(t, httperr.IsBusiness(err, "client_not_found"))
}

func TestSendPayAndCancel(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "08:00", "16:00", "completed")
	inv, err := f.generate(t, nil)
	require.NoError(t, err)

	box := &outbox{}
	mail := mailer.NewAsync(box)
	notifier := &nopNotifier{}

	sent, err := NewSendInvoice(f.repo, mail, notifier, f.audit).
		Execute(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.NoError(t, err)
	mail.Wait()

	require.Equal(t, "sent", sent.Status)
	require.NotNil(t, sent.SentAt)
	require.Equal(t, []string{"ada@billing.test|Invoice INV-202604-0001 from Org billing"}, box.sent)
	require.Zero(t, notifier.n, "client has no portal account")

	status := NewUpdateStatus(f.repo, f.audit)
	paid, err := status.MarkPaid(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "paid", paid.Status)

	_, err = status.Cancel(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCancelReleasesShifts(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "08:00", "16:00", "completed")
	inv, err := f.generate(t, nil)
	require.NoError(t, err)

	_, err = NewUpdateStatus(f.repo, f.audit).Cancel(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.NoError(t, err)

	again, err := f.generate(t, nil)
	require.NoError(t, err)
	require.Equal(t, "INV-202604-0002", again.Number)
}

func TestCancelRollsBackWhenReleaseFails(t *testing.T) {
	f := setup(t)
	sh := f.shift(t, 2, "08:00", "16:00", "completed")
	inv, err := f.generate(t, nil)
	require.NoError(t, err)

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("fail_shift_release", func(tx *gorm.DB) {
		if tx.Statement.Table == "staff_shifts" {
			_ = tx.AddError(errors.New("release failed"))
		}
	}))

	_, err = NewUpdateStatus(f.repo, f.audit).Cancel(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.Error(t, err)

	var stored models.Invoice
	require.NoError(t, f.db.First(&stored, inv.ID).Error)
	require.Equal(t, "draft", stored.Status)

	var billed models.StaffShift
	require.NoError(t, f.db.First(&billed, sh.ID).Error)
	require.NotNil(t, billed.InvoiceID)
	require.Equal(t, inv.ID, *billed.InvoiceID)
}

func TestGenerateInvoiceBillsDeclinedShifts(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "08:00", "16:00", "completed")
	declined := f.shift(t, 3, "08:00", "16:00", "scheduled")
	require.NoError(t, f.db.Model(&declined).Update("confirmation", "declined").Error)
	f.shift(t, 4, "08:00", "16:00", "scheduled")

	inv, err := f.generate(t, nil)
	require.NoError(t, err)
	require.Len(t, inv.LineItems, 3)
	require.Equal(t, "720", inv.Total.String())
}

func TestSendRejectsTotalMismatch(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "08:00", "16:00", "completed")
	inv, err := f.generate(t, nil)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Update("total", decimal.NewFromInt(1)).Error)

	box := &outbox{}
	mail := mailer.NewAsync(box)
	_, err = NewSendInvoice(f.repo, mail, &nopNotifier{}, f.audit).
		Execute(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	mail.Wait()
	require.True(t, httperr.IsBusiness(err, "invoice_total_mismatch"))
	require.Empty(t, box.sent)

	var stored models.Invoice
	require.NoError(t, f.db.First(&stored, inv.ID).Error)
	require.Equal(t, "draft", stored.Status)
}

func TestMarkOverdue(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "08:00", "16:00", "completed")
	inv, err := f.generate(t, nil)
	require.NoError(t, err)
	inv.Status = "sent"
	require.NoError(t, f.repo.UpdateInvoice(context.Background(), inv))

	uc := NewMarkOverdue(f.repo, f.audit)
	uc.now = func() time.Time { return time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC) }
	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	uc.now = func() time.Time { return time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC) }
	n, err = uc.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := NewListInvoices(f.repo).Get(context.Background(), f.seed.Org.ID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "overdue", got.Status)

	list, err := NewListInvoices(f.repo).Execute(context.Background(), f.seed.Org.ID, "overdue", nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ada Client", list[0].ClientName)

	_, err = NewListInvoices(f.repo).Execute(context.Background(), f.seed.Org.ID, "bogus", nil)
	require.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestPaymentLink(t *testing.T) {
	f := setup(t)
	f.shift(t, 2, "08:00", "16:00", "completed")
	inv, err := f.generate(t, nil)
	require.NoError(t, err)

	_, err = NewCreatePaymentLink(f.repo, nil, f.audit, "http://app").
		Execute(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.True(t, httperr.IsBusiness(err, "payments_disabled"))

	gw := &stubCheckout{}
	got, err := NewCreatePaymentLink(f.repo, gw, f.audit, "http://app/").
		Execute(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "https://pay.test/cs_1", got.PaymentURL)
	require.Equal(t, "240", gw.in.Amount.String())
	require.Contains(t, gw.in.SuccessURL, "http://app/invoices/")
}
