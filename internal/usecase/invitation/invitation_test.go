package invitation

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/auth"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

type outbox struct {
	mu     sync.Mutex
	bodies []string
}

func (o *outbox) Send(_, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bodies = append(o.bodies, body)
	return nil
}

var linkRe = regexp.MustCompile(`/invite/([0-9a-f-]{36})`)

func (o *outbox) lastToken(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.bodies)
	m := linkRe.FindStringSubmatch(o.bodies[len(o.bodies)-1])
	require.Len(t, m, 2)
	return m[1]
}

type recorder struct {
	mu   sync.Mutex
	seen []uint
}

func (r *recorder) Notify(_ context.Context, id uint, _ notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, id)
	return nil
}

func (r *recorder) NotifyMany(ctx context.Context, ids []uint, msg notify.Message) {
	for _, id := range ids {
		_ = r.Notify(ctx, id, msg)
	}
}

type fixture struct {
	db    *gorm.DB
	seed  testutil.Seed
	repo  *repository.InvitationGormRepository
	box   *outbox
	mail  *mailer.Async
	audit *audit.Dispatcher
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	d := audit.NewDispatcher()
	t.Cleanup(d.Close)
	box := &outbox{}
	return fixture{
		db:    db,
		seed:  testutil.SeedOrg(t, db, "invites"),
		repo:  repository.NewInvitationGormRepository(db),
		box:   box,
		mail:  mailer.NewAsync(box),
		audit: d,
	}
}

func (f fixture) send(t *testing.T, kind, email string, target *uint) (*models.Invitation, string) {
	t.Helper()
	inv, err := NewSendInvitation(f.repo, f.mail, f.audit, "http://app/", 0).Execute(context.Background(), SendInput{
		OrganizationID: f.seed.Org.ID,
		UserID:         f.seed.Owner.ID,
		Kind:           kind,
		Email:          email,
		Name:           "Grace",
		TargetID:       target,
	})
	require.NoError(t, err)
	f.mail.Wait()
	return inv, f.box.lastToken(t)
}

func TestSendStoresFingerprintOnly(t *testing.T) {
	f := setup(t)
	inv, token := f.send(t, "staff", " Grace@Care.test ", nil)

	require.Equal(t, "grace@care.test", inv.Email)
	require.Equal(t, "pending", inv.Status)
	require.NotEqual(t, token, inv.TokenHash)
	require.Len(t, inv.TokenHash, 64)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), inv.ExpiresAt, time.Minute)
	require.Contains(t, f.box.bodies[0], "http://app/invite/"+token)
}

func TestSendRevokesPreviousAndRejectsKnownEmail(t *testing.T) {
	f := setup(t)
	first, _ := f.send(t, "client", "grace@care.test", nil)
	f.send(t, "client", "grace@care.test", nil)

	var got models.Invitation
	require.NoError(t, f.db.First(&got, first.ID).Error)
	require.Equal(t, "revoked", got.Status)

	_, err := NewSendInvitation(f.repo, f.mail, f.audit, "http://app", 0).Execute(context.Background(), SendInput{
		OrganizationID: f.seed.Org.ID,
		Kind:           "staff",
		Email:          f.seed.StaffUser.Email,
	})
	require.True(t, httperr.IsBusiness(err, "email_already_in_use"))

	_, err = NewSendInvitation(f.repo, f.mail, f.audit, "http://app", 0).Execute(context.Background(), SendInput{
		OrganizationID: f.seed.Org.ID,
		Kind:           "admin",
		Email:          "x@care.test",
	})
	require.True(t, httperr.IsBusiness(err, "invalid_kind"))
}

func TestValidateAndAcceptClient(t *testing.T) {
	f := setup(t)
	target := f.seed.Client.ID
	_, token := f.send(t, "client", "grace@care.test", &target)

	preview, err := NewValidateInvitation(f.repo).Execute(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "client", preview.Kind)
	require.Equal(t, "Org invites", preview.OrganizationName)

	notes := &recorder{}
	issuer := auth.NewIssuer("secret")
	accept := NewAcceptInvitation(f.repo, issuer, notes, f.audit)

	_, err = accept.Execute(context.Background(), AcceptInput{Token: token, Password: "short"})
	require.True(t, httperr.IsBusiness(err, "password_too_short"))

	res, err := accept.Execute(context.Background(), AcceptInput{Token: token, Password: "correct horse"})
	require.NoError(t, err)
	require.Equal(t, "client", res.User.Role)
	require.Equal(t, "Grace", res.User.Name)

	claims, err := issuer.Parse(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, claims.UserID)
	require.Equal(t, f.seed.Org.ID, claims.OrganizationID)

	var client models.Client
	require.NoError(t, f.db.First(&client, target).Error)
	require.NotNil(t, client.UserID)
	require.Equal(t, res.User.ID, *client.UserID)

	require.Equal(t, []uint{f.seed.Owner.ID}, notes.seen)

	_, err = accept.Execute(context.Background(), AcceptInput{Token: token, Password: "correct horse"})
	require.True(t, httperr.IsBusiness(err, "invitation_accepted"))
}

func TestAcceptStaffCreatesRecord(t *testing.T) {
	f := setup(t)
	_, token := f.send(t, "staff", "new.nurse@care.test", nil)

	res, err := NewAcceptInvitation(f.repo, auth.NewIssuer("s"), &recorder{}, f.audit).
		Execute(context.Background(), AcceptInput{Token: token, Name: "New Nurse", Password: "long enough"})
	require.NoError(t, err)

	var staff models.StaffMember
	require.NoError(t, f.db.Where("user_id = ?", res.User.ID).First(&staff).Error)
	require.Equal(t, "New Nurse", staff.Name)
	require.Equal(t, "active", staff.Status)
}

func TestExpiredInvitation(t *testing.T) {
	f := setup(t)
	inv, token := f.send(t, "client", "late@care.test", nil)

	validate := NewValidateInvitation(f.repo)
	validate.now = func() time.Time { return inv.ExpiresAt.Add(time.Second) }

	_, err := validate.Execute(context.Background(), token)
	require.True(t, httperr.IsBusiness(err, "invitation_expired"))

	var got models.Invitation
	require.NoError(t, f.db.First(&got, inv.ID).Error)
	require.Equal(t, "expired", got.Status)

	_, err = NewValidateInvitation(f.repo).Execute(context.Background(), "not-a-token")
	require.True(t, httperr.IsBusiness(err, "invitation_not_found"))
}

func TestRevokeResendAndSweep(t *testing.T) {
	f := setup(t)
	inv, token := f.send(t, "client", "grace@care.test", nil)

	manage := NewManageInvitations(f.repo, f.audit)
	_, err := manage.Revoke(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.NoError(t, err)

	_, err = NewValidateInvitation(f.repo).Execute(context.Background(), token)
	require.True(t, httperr.IsBusiness(err, "invitation_revoked"))

	again, err := NewSendInvitation(f.repo, f.mail, f.audit, "http://app", 0).
		Resend(context.Background(), f.seed.Org.ID, f.seed.Owner.ID, inv.ID)
	require.NoError(t, err)
	require.NotEqual(t, inv.ID, again.ID)
	f.mail.Wait()

	manage.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	n, err := manage.ExpireStale(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	list, err := manage.List(context.Background(), f.seed.Org.ID, "client", "expired")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, again.ID, list[0].ID)
}
