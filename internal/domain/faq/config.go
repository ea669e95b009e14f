package faq

import "time"

// DefaultSimilarityThreshold is the minimum cosine similarity for a match to be surfaced.
const DefaultSimilarityThreshold = 0.72

// Config holds runtime knobs for the FAQ service.
type Config struct {
	Model               string
	Temperature         float32
	TranslationPrompt   string
	SimilarityThreshold float64
	CacheTTL            time.Duration
	TopRecommendations  int
}
