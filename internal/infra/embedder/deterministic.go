package embedder

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/yanqian/faq-agent/internal/domain/faq"
)

// DeterministicEmbedder avoids network calls by hashing normalized words into a bag-of-words vector.
// Identical text always maps to the same vector; texts sharing words land close together.
type DeterministicEmbedder struct {
	dim int
}

// NewDeterministicEmbedder constructs the embedder.
func NewDeterministicEmbedder(dim int) *DeterministicEmbedder {
	if dim <= 0 {
		dim = 64
	}
	return &DeterministicEmbedder{dim: dim}
}

// Embed folds each word into one bucket of the vector.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)
	for _, word := range strings.Fields(faq.Normalize(text)) {
		word = strings.Trim(word, "¿?¡!.,;:\"'()")
		if word == "" {
			continue
		}
		hash := fnv.New64a()
		_, _ = hash.Write([]byte(word))
		vector[hash.Sum64()%uint64(e.dim)]++
	}
	// keep the vector non-zero so cosine similarity stays defined
	vector[0] += 0.01
	return vector, nil
}

var _ faq.Embedder = (*DeterministicEmbedder)(nil)
