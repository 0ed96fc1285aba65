package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

type mailbox struct {
	mu sync.Mutex
	to []string
}

func (m *mailbox) Send(to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	return nil
}

func TestLocalHubDeliversAndCleansUp(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewLocalHub()
	ctx, cancel := context.WithCancel(context.Background())
	ch := hub.Subscribe(ctx, 7)

	require.NoError(t, hub.Publish(context.Background(), 7, []byte("hi")))
	require.NoError(t, hub.Publish(context.Background(), 8, []byte("other")))

	select {
	case got := <-ch:
		require.Equal(t, "hi", string(got))
	case <-time.After(time.Second):
		t.Fatal("no event")
	}

	cancel()
	for range ch {
	}

	hub.mu.Lock()
	require.Empty(t, hub.subs)
	hub.mu.Unlock()
}

func TestMarkReadDecrementsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "notify")
	svc := NewService(db, NewLocalHub(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, seed.Owner.ID, Message{
			OrganizationID: seed.Org.ID,
			Type:           domain.TypeShiftAccepted,
			Title:          "Shift accepted",
		}))
	}

	list, total, err := svc.List(ctx, seed.Owner.ID, true, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	unread, err := svc.MarkRead(ctx, seed.Owner.ID, list[0].ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, unread)

	unread, err = svc.MarkRead(ctx, seed.Owner.ID, list[0].ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, unread)

	n, err := svc.MarkAllRead(ctx, seed.Owner.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	count, err := svc.UnreadCount(ctx, seed.Owner.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	unread, err = svc.MarkRead(ctx, seed.Owner.ID, list[1].ID)
	require.NoError(t, err)
	require.Zero(t, unread)

	_, err = svc.MarkRead(ctx, seed.StaffUser.ID, list[2].ID)
	require.Error(t, err)
}

func TestNotifyEmailsSelectedTypes(t *testing.T) {
	// registered first so it runs after the database is closed
	t.Cleanup(func() { goleak.VerifyNone(t) })

	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "mail")
	box := &mailbox{}
	async := mailer.NewAsync(box)
	svc := NewService(db, NewLocalHub(), async)
	ctx := context.Background()

	svc.NotifyMany(ctx, []uint{seed.StaffUser.ID}, Message{OrganizationID: seed.Org.ID, Type: domain.TypeShiftAssigned, Title: "New shift"})
	svc.NotifyMany(ctx, []uint{seed.StaffUser.ID}, Message{OrganizationID: seed.Org.ID, Type: domain.TypeNewMessage, Title: "Ping"})
	async.Wait()

	require.Equal(t, []string{seed.StaffUser.Email}, box.to)

	require.NoError(t, svc.Delete(ctx, seed.StaffUser.ID, 1))
	require.Error(t, svc.Delete(ctx, seed.StaffUser.ID, 1))
}
