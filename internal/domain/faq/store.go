package faq

import (
	"context"
	"time"
)

// Store defines the persistence contract for FAQ cache data.
type Store interface {
	GetAnswer(ctx context.Context, entryID int64) (AnswerRecord, bool, error)
	SaveAnswer(ctx context.Context, record AnswerRecord, ttl time.Duration) error
	DeleteAnswer(ctx context.Context, entryID int64) error
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
