package assistant

import (
	"time"

	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-agent/pkg/metrics"
)

// DefaultConversationID is used when a caller does not name a conversation.
const DefaultConversationID = "default"

// Fixed replies of the confirmation flow.
const (
	NotFoundMessage = "Esta pregunta no se encuentra registrada en la base de conocimientos."
	ConfirmPrompt   = "¿Deseas registrar esta pregunta (Y/N)?"
	RegisteredReply = "Tu pregunta ha sido registrada y está pendiente de revisión."
	DeclinedReply   = "Entendido. No se registrará la pregunta."
	ReaskReply      = "Por favor responde únicamente con Y / Yes / Sí o N / No."
	GiveUpReply     = "No pude completar la solicitud. Por favor intenta de nuevo."
)

// NotFoundReply is the full reply sent when the knowledge base has no answer.
const NotFoundReply = NotFoundMessage + "\n" + ConfirmPrompt

// State of a conversation's confirmation flow.
type State string

const (
	StateIdle                 State = "IDLE"
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
)

// Session is the persisted per-conversation state. The system message is not stored.
type Session struct {
	ConversationID  string            `json:"conversationId"`
	PendingQuestion string            `json:"pendingQuestion,omitempty"`
	History         []chatgpt.Message `json:"history,omitempty"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// State derives the confirmation state from the pending question.
func (s Session) State() State {
	if s.PendingQuestion != "" {
		return StateAwaitingConfirmation
	}
	return StateIdle
}

// TurnRequest is a single user message.
type TurnRequest struct {
	ConversationID string `json:"conversation_id"`
	UserInput      string `json:"user_input"`
}

// TraceEntry is one message of the turn as seen by an observer.
type TraceEntry struct {
	Actor string `json:"actor"`
	Text  string `json:"text"`
}

// TurnResponse is returned for each turn.
type TurnResponse struct {
	ConversationID string             `json:"conversation_id"`
	Response       string             `json:"response"`
	Log            string             `json:"log"`
	Trace          []TraceEntry       `json:"trace"`
	State          State              `json:"state"`
	TokenUsage     metrics.TokenUsage `json:"tokenUsage"`
}

// Transcript is archived after each turn.
type Transcript struct {
	ConversationID string       `json:"conversationId"`
	Trace          []TraceEntry `json:"trace"`
	Response       string       `json:"response"`
	CreatedAt      string       `json:"createdAt"`
}

// Program describes what is currently on air.
type Program struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
