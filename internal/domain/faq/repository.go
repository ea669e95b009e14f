package faq

import "context"

// Repository encapsulates knowledge base persistence.
type Repository interface {
	// InsertPending stores a new PENDING question without an embedding and returns its id.
	InsertPending(ctx context.Context, question, createdBy string) (Entry, error)
	Get(ctx context.Context, id int64) (Entry, bool, error)
	// ListByStatus returns entries with the given status. PENDING entries come oldest first
	// so the review queue is worked in arrival order; other statuses come newest first.
	ListByStatus(ctx context.Context, status Status) ([]Entry, error)
	// AnswerAndActivate sets the answer and embedding and moves the entry to ACTIVE.
	AnswerAndActivate(ctx context.Context, id int64, answer string, embedding []float32) error
	// SoftDelete moves the entry to DELETED and clears its embedding.
	SoftDelete(ctx context.Context, id int64) error
	// Restore moves the entry back to PENDING and clears its embedding.
	Restore(ctx context.Context, id int64) error
	UpdateText(ctx context.Context, id int64, question string) error
	// FindBestMatch returns the ACTIVE entry with the highest cosine similarity.
	FindBestMatch(ctx context.Context, embedding []float32) (Match, bool, error)
	Ping(ctx context.Context) error
}
