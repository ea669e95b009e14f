package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// Tiktoken counts tokens with the model's BPE encoding.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken resolves the encoding for model, falling back to cl100k_base.
func NewTiktoken(model string) (*Tiktoken, error) {
	if enc, err := tiktoken.EncodingForModel(strings.TrimSpace(model)); err == nil {
		return &Tiktoken{enc: enc}, nil
	}
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding: %w", err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Count returns the token count of text.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Estimate is the fallback counter used when no encoding can be loaded. It over-counts:
// one token per 2 runes and never below the word count.
type Estimate struct{}

func (Estimate) Count(text string) int {
	if text == "" {
		return 0
	}
	byRunes := (utf8.RuneCountInString(text) + 1) / 2
	if words := len(strings.Fields(text)); words > byRunes {
		return words
	}
	return byRunes
}
