package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/mail"
	"github.com/yanqian/faq-agent/internal/infra/queue"
)

const jobPendingQuestion = "faq.pending_question"

// AddressBook resolves a person's name to an address.
type AddressBook interface {
	Lookup(name string) string
}

// Notifier emails the administrator about newly registered questions through a job queue.
type Notifier struct {
	queue     queue.HandlerQueue
	mailer    mail.Mailer
	directory AddressBook
	adminName string
	logger    *slog.Logger
}

// NewNotifier registers itself as the queue's job handler.
func NewNotifier(q queue.HandlerQueue, mailer mail.Mailer, directory AddressBook, adminName string, logger *slog.Logger) *Notifier {
	if adminName == "" {
		adminName = "Administrador"
	}
	n := &Notifier{
		queue:     q,
		mailer:    mailer,
		directory: directory,
		adminName: adminName,
		logger:    logger.With("component", "notify.pending"),
	}
	q.SetHandler(n.handle)
	return n
}

// NotifyPending enqueues the notification; delivery happens in the background.
func (n *Notifier) NotifyPending(ctx context.Context, question, createdBy string) error {
	return n.queue.Enqueue(ctx, jobPendingQuestion, map[string]any{
		"question":  question,
		"createdBy": createdBy,
	})
}

func (n *Notifier) handle(ctx context.Context, name string, payload map[string]any) {
	if name != jobPendingQuestion {
		n.logger.Warn("unknown job", "name", name)
		return
	}
	question, _ := payload["question"].(string)
	createdBy, _ := payload["createdBy"].(string)
	address := n.directory.Lookup(n.adminName)
	if err := n.mailer.Send(ctx, n.adminName, address, pendingBody(question, createdBy)); err != nil {
		n.logger.Warn("pending question email failed", "to", address, "error", err)
		return
	}
	n.logger.Info("pending question email sent", "to", address)
}

func pendingBody(question, createdBy string) string {
	return fmt.Sprintf("Se ha registrado una nueva pregunta pendiente de respuesta en la base de conocimientos.\n\nPregunta: %s\nCreada por: %s\n\nPor favor, revisa la pregunta y proporciona una respuesta.", question, createdBy)
}

var _ faq.Notifier = (*Notifier)(nil)
