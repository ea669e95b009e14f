package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/faq-agent/pkg/errors"
	"github.com/yanqian/faq-agent/pkg/util"
)

// Service runs conversational turns over the knowledge base.
type Service interface {
	Turn(ctx context.Context, req TurnRequest) (TurnResponse, error)
	Reset(ctx context.Context, conversationID string) error
}

type service struct {
	cfg       Config
	client    ChatClient
	knowledge KnowledgeBase
	sessions  SessionStore
	invoices  InvoiceChecker
	directory AddressBook
	mailer    Mailer
	web       WebFetcher
	liveTV    LiveTV
	tokenizer Tokenizer
	archive   Archive
	tools     *toolbox
	locks     *keyedMutex
	logger    *slog.Logger
}

// NewService wires up the assistant domain.
func NewService(cfg Config, deps Deps, logger *slog.Logger) Service {
	s := &service{
		cfg:       cfg.withDefaults(),
		client:    deps.Chat,
		knowledge: deps.Knowledge,
		sessions:  deps.Sessions,
		invoices:  deps.Invoices,
		directory: deps.Directory,
		mailer:    deps.Mailer,
		web:       deps.Web,
		liveTV:    deps.LiveTV,
		tokenizer: deps.Tokenizer,
		archive:   deps.Archive,
		locks:     newKeyedMutex(),
		logger:    logger.With("component", "assistant.service"),
	}
	s.tools = s.newToolbox()
	return s
}

// Turn handles one user message. A pending confirmation is resolved before the model is consulted.
func (s *service) Turn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	input := strings.TrimSpace(req.UserInput)
	if input == "" {
		return TurnResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Entrada vacía", nil)
	}
	id := strings.TrimSpace(req.ConversationID)
	if id == "" {
		id = DefaultConversationID
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	sess, ok, err := s.sessions.Get(ctx, id)
	if err != nil {
		return TurnResponse{}, apperrors.Wrap(apperrors.CodeStore, "failed to load conversation", err)
	}
	if !ok {
		sess = Session{ConversationID: id}
	}

	tr := &trace{}
	tr.add("Human", input)
	resp := TurnResponse{ConversationID: id}

	reply, handled, err := s.confirm(ctx, &sess, input)
	if err != nil {
		return TurnResponse{}, err
	}
	if handled {
		tr.add("AI", reply)
		sess.History = trimHistory(append(sess.History,
			chatgpt.Message{Role: "user", Content: input},
			chatgpt.Message{Role: "assistant", Content: reply},
		), s.cfg.HistoryTokenBudget, s.tokenizer)
	} else {
		result, err := s.runLoop(ctx, sess.History, input, tr)
		if err != nil {
			return TurnResponse{}, err
		}
		reply = result.reply
		if !result.gaveUp && result.outcome.missed() {
			// the structured lookup outcome decides, not the model's wording
			reply = NotFoundReply
			sess.PendingQuestion = input
			result.messages[len(result.messages)-1].Content = reply
			tr.entries[len(tr.entries)-1].Text = reply
			s.logger.Info("question not in knowledge base, awaiting confirmation", "conversationId", id)
		}
		sess.History = trimHistory(append(sess.History, result.messages...), s.cfg.HistoryTokenBudget, s.tokenizer)
		resp.TokenUsage = result.usage
	}

	sess.UpdatedAt = util.NowUTC()
	if err := s.sessions.Put(ctx, sess); err != nil {
		s.logger.Warn("conversation save failed", "conversationId", id, "error", err)
	}

	resp.Response = reply
	resp.Trace = tr.entries
	resp.Log = tr.String()
	resp.State = sess.State()
	s.archiveTurn(ctx, resp)
	return resp, nil
}

// Reset forgets a conversation, including any pending confirmation.
func (s *service) Reset(ctx context.Context, conversationID string) error {
	id := strings.TrimSpace(conversationID)
	if id == "" {
		id = DefaultConversationID
	}
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := s.sessions.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeStore, "failed to reset conversation", err)
	}
	return nil
}

func (s *service) archiveTurn(ctx context.Context, resp TurnResponse) {
	if s.archive == nil {
		return
	}
	t := Transcript{
		ConversationID: resp.ConversationID,
		Trace:          resp.Trace,
		Response:       resp.Response,
		CreatedAt:      util.ISOMillis(util.NowUTC()),
	}
	if err := s.archive.SaveTranscript(ctx, t); err != nil {
		s.logger.Warn("transcript archive failed", "conversationId", resp.ConversationID, "error", err)
	}
}
