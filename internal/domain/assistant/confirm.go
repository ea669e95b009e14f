package assistant

import (
	"context"

	"github.com/yanqian/faq-agent/internal/domain/faq"
)

// confirm runs the confirmation step for a conversation awaiting a yes/no answer.
// It reports handled=false when no question is pending, so the tool loop runs instead.
func (s *service) confirm(ctx context.Context, sess *Session, input string) (string, bool, error) {
	if sess.State() != StateAwaitingConfirmation {
		return "", false, nil
	}
	switch {
	case faq.IsAffirmative(input):
		if _, err := s.knowledge.RegisterPending(ctx, sess.PendingQuestion, faq.CreatedByUser); err != nil {
			return "", true, err
		}
		s.logger.Info("pending question confirmed", "conversationId", sess.ConversationID)
		sess.PendingQuestion = ""
		return RegisteredReply, true, nil
	case faq.IsNegative(input):
		s.logger.Info("pending question declined", "conversationId", sess.ConversationID)
		sess.PendingQuestion = ""
		return DeclinedReply, true, nil
	default:
		return ReaskReply, true, nil
	}
}

// turnOutcome records what the knowledge tools observed during one turn.
type turnOutcome struct {
	lookups        int
	found          int
	registered     bool
	lastMissRound  int
	lastOtherRound int
}

// missed reports whether the turn ended on a failed lookup: nothing matched and no
// other tool ran in or after the round of the last miss.
func (o turnOutcome) missed() bool {
	if o.lookups == 0 || o.found > 0 || o.registered {
		return false
	}
	return o.lastOtherRound < o.lastMissRound
}
