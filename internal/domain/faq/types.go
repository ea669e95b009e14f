package faq

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a knowledge base entry.
type Status string

const (
	// StatusPending marks a question waiting for an administrator's answer.
	StatusPending Status = "PENDING"
	// StatusActive marks an answered question that takes part in lookups.
	StatusActive Status = "ACTIVE"
	// StatusDeleted marks a soft-deleted question; it can be restored to PENDING.
	StatusDeleted Status = "DELETED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDeleted:
		return true
	default:
		return false
	}
}

// Creator tags recorded with each registered question.
const (
	CreatedByUser      = "USER"
	CreatedByJoule     = "JOULE"
	CreatedByJouleUser = "JOULE_USER"
)

// Fixed replies surfaced to callers.
const (
	RegisteredMessage    = "Your question has been registered and is pending review."
	AskNotFoundMessage   = "No encontré esta información en la base de conocimientos. He registrado la pregunta para que un administrador la revise."
	ConfidenceFound      = 0.9
	ConfidenceRegistered = 0.4
)

// ErrEntryNotFound is returned by repositories when an id does not exist.
var ErrEntryNotFound = errors.New("faq entry not found")

// Entry is a question in the knowledge base.
type Entry struct {
	ID           int64     `json:"aid"`
	Question     string    `json:"question"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    string    `json:"created_by"`
	Answer       *string   `json:"answer,omitempty"`
	HasEmbedding bool      `json:"-"`
}

// Match is the closest active entry for a query vector.
type Match struct {
	Entry Entry
	Score float64
}

// LookupResult is the outcome of a similarity lookup. Not-found is a value, not an error.
type LookupResult struct {
	Found   bool    `json:"found"`
	Answer  string  `json:"answer,omitempty"`
	EntryID int64   `json:"-"`
	Score   float64 `json:"-"`
}

// AskResponse is returned by the bare knowledge-question endpoint.
type AskResponse struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// AnswerRecord captures the payload persisted in the answer cache.
type AnswerRecord struct {
	EntryID   int64     `json:"entryId"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}
