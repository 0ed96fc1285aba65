package mailer

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/BruksfildServices01/care-scheduler/internal/config"
)

type recorder struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recorder) Send(to, subject, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to+"|"+subject)
	return r.err
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("a@x.test", "b@y.test", "Invoice INV-202601-0001", "Total: 720.00")
	require.Contains(t, msg, "Subject: Invoice INV-202601-0001\r\n")
	require.Contains(t, msg, "\r\n\r\nTotal: 720.00\r\n")
}

func TestNewPicksNoopWithoutHost(t *testing.T) {
	_, ok := New(&config.Config{}).(NoopSender)
	require.True(t, ok)

	_, ok = New(&config.Config{SMTPHost: "mail", SMTPPort: "25"}).(*SMTPSender)
	require.True(t, ok)
}

func TestAsyncSwallowsErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &recorder{err: errors.New("smtp down")}
	a := NewAsync(r)

	a.Send("ada@example.com", "hello", "body")
	a.Send("", "skipped", "body")
	a.Wait()

	require.Equal(t, []string{"ada@example.com|hello"}, r.sent)
}
