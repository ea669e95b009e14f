package faq

import (
	"context"
	"errors"
	"strings"

	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/faq-agent/pkg/errors"
	"github.com/yanqian/faq-agent/pkg/util"
)

const defaultTranslationPrompt = "Translate the user's text to English. Reply with the translation only."

// Lookup finds the closest ACTIVE entry and returns its answer when the
// similarity reaches the configured threshold (inclusive).
func (s *service) Lookup(ctx context.Context, question string) (LookupResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return LookupResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	s.trackQuery(ctx, question)

	text, err := s.searchText(ctx, question)
	if err != nil {
		return LookupResult{}, err
	}
	vector, err := s.embed(ctx, text)
	if err != nil {
		return LookupResult{}, err
	}
	match, found, err := s.repo.FindBestMatch(ctx, vector)
	if err != nil {
		return LookupResult{}, apperrors.Wrap(apperrors.CodeStore, "similarity lookup failed", err)
	}
	if !found {
		s.logger.Info("faq lookup found no active entries")
		return LookupResult{}, nil
	}
	if match.Score < s.cfg.SimilarityThreshold {
		s.logger.Info("faq best match below threshold", "aid", match.Entry.ID, "score", match.Score)
		return LookupResult{EntryID: match.Entry.ID, Score: match.Score}, nil
	}

	answer := s.answerFor(ctx, match.Entry)
	if answer == "" {
		return LookupResult{EntryID: match.Entry.ID, Score: match.Score}, nil
	}
	s.logger.Info("faq best match", "aid", match.Entry.ID, "score", match.Score)
	return LookupResult{Found: true, Answer: answer, EntryID: match.Entry.ID, Score: match.Score}, nil
}

// Ask answers from the knowledge base or registers the question on a miss.
func (s *service) Ask(ctx context.Context, question string) (AskResponse, error) {
	if strings.TrimSpace(question) == "" {
		return AskResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Pregunta vacía.", nil)
	}
	result, err := s.Lookup(ctx, question)
	if err != nil {
		return AskResponse{}, err
	}
	if result.Found {
		return AskResponse{Answer: result.Answer, Confidence: ConfidenceFound}, nil
	}
	if _, err := s.RegisterPending(ctx, question, CreatedByJoule); err != nil {
		return AskResponse{}, err
	}
	return AskResponse{Answer: AskNotFoundMessage, Confidence: ConfidenceRegistered}, nil
}

func (s *service) answerFor(ctx context.Context, entry Entry) string {
	cached, ok, err := s.store.GetAnswer(ctx, entry.ID)
	if err != nil {
		s.logger.Warn("faq cache lookup failed", "aid", entry.ID, "error", err)
	}
	if ok && strings.TrimSpace(cached.Answer) != "" {
		return cached.Answer
	}
	if entry.Answer == nil || strings.TrimSpace(*entry.Answer) == "" {
		return ""
	}
	record := AnswerRecord{EntryID: entry.ID, Answer: *entry.Answer, CreatedAt: util.NowUTC()}
	if err := s.store.SaveAnswer(ctx, record, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("faq cache save failed", "aid", entry.ID, "error", err)
	}
	return *entry.Answer
}

func (s *service) trackQuery(ctx context.Context, question string) {
	canonical := canonicalQuery(question)
	if canonical == "" {
		return
	}
	if err := s.store.IncrementQuery(ctx, canonical, question); err != nil {
		s.logger.Warn("faq trending increment failed", "error", err)
	}
}

// searchText returns the English form of the question used for embedding.
func (s *service) searchText(ctx context.Context, question string) (string, error) {
	if !NeedsTranslation(question) {
		return question, nil
	}
	translated, err := s.translate(ctx, question)
	if err != nil {
		return "", err
	}
	s.logger.Debug("faq question translated", "original", question, "translated", translated)
	return translated, nil
}

func (s *service) translate(ctx context.Context, text string) (string, error) {
	prompt := strings.TrimSpace(s.cfg.TranslationPrompt)
	if prompt == "" {
		prompt = defaultTranslationPrompt
	}
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: prompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeLLM, "translation request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap(apperrors.CodeLLM, "translation returned no choices", errors.New("empty choices"))
	}
	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return text, nil
	}
	return translated, nil
}

func (s *service) embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLLM, "embedding failed", err)
	}
	if len(vector) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeLLM, "embedding response empty", nil)
	}
	return vector, nil
}
