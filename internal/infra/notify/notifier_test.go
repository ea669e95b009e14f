package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-agent/internal/infra/mail"
	"github.com/yanqian/faq-agent/internal/infra/queue"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	to   []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, _ string, address, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, address)
	m.sent = append(m.sent, text)
	return m.err
}

func TestNotifierEmailsAdministrator(t *testing.T) {
	q := queue.NewImmediateQueue(nil)
	mailer := &recordingMailer{}
	dir := mail.NewDirectory(map[string]string{"Administrador": "admin@example.com", "Enrique": "enrique@example.com"}, "Enrique")
	n := NewNotifier(q, mailer, dir, "", newTestLogger())

	require.NoError(t, n.NotifyPending(context.Background(), "¿Dónde está la cafetería?", "USER"))
	q.Close()

	require.Equal(t, []string{"admin@example.com"}, mailer.to)
	require.Contains(t, mailer.sent[0], "Pregunta: ¿Dónde está la cafetería?")
	require.Contains(t, mailer.sent[0], "Creada por: USER")
}

func TestNotifierSwallowsMailFailure(t *testing.T) {
	q := queue.NewImmediateQueue(nil)
	mailer := &recordingMailer{err: errors.New("relay down")}
	n := NewNotifier(q, mailer, mail.NewDirectory(nil, ""), "Administrador", newTestLogger())

	require.NoError(t, n.NotifyPending(context.Background(), "q", "JOULE"))
	q.Close()
	require.Len(t, mailer.sent, 1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
