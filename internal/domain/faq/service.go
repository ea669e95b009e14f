package faq

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/faq-agent/pkg/errors"
)

// Service exposes knowledge base lookup, registration and administration.
type Service interface {
	Lookup(ctx context.Context, question string) (LookupResult, error)
	RegisterPending(ctx context.Context, question, createdBy string) (Entry, error)
	Ask(ctx context.Context, question string) (AskResponse, error)
	List(ctx context.Context, status Status) ([]Entry, error)
	Answer(ctx context.Context, id int64, answer string) (Entry, error)
	Delete(ctx context.Context, id int64) (Entry, error)
	Restore(ctx context.Context, id int64) (Entry, error)
	UpdateQuestion(ctx context.Context, id int64, question string) (Entry, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
}

type service struct {
	cfg      Config
	repo     Repository
	store    Store
	client   ChatClient
	embedder Embedder
	notifier Notifier
	logger   *slog.Logger
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, repo Repository, store Store, client ChatClient, embedder Embedder, notifier Notifier, logger *slog.Logger) Service {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.TopRecommendations <= 0 {
		cfg.TopRecommendations = 5
	}
	return &service{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		client:   client,
		embedder: embedder,
		notifier: notifier,
		logger:   logger.With("component", "faq.service"),
	}
}

// RegisterPending inserts the question as PENDING and notifies the administrator.
// Notification failures are logged and never undo the insert.
func (s *service) RegisterPending(ctx context.Context, question, createdBy string) (Entry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	createdBy = strings.TrimSpace(createdBy)
	if createdBy == "" {
		createdBy = CreatedByUser
	}

	entry, err := s.repo.InsertPending(ctx, question, createdBy)
	if err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeStore, "failed to register question", err)
	}
	s.logger.Info("faq question registered", "aid", entry.ID, "createdBy", createdBy)

	if s.notifier != nil {
		if err := s.notifier.NotifyPending(ctx, question, createdBy); err != nil {
			s.logger.Warn("faq admin notification failed", "aid", entry.ID, "error", err)
		}
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, status Status) ([]Entry, error) {
	if !status.Valid() {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown status", nil)
	}
	entries, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "failed to list questions", err)
	}
	return entries, nil
}

// Answer attaches an answer to a PENDING or ACTIVE entry, re-embeds the
// question text and makes it ACTIVE.
func (s *service) Answer(ctx context.Context, id int64, answer string) (Entry, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "answer cannot be empty", nil)
	}
	entry, err := s.load(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.Status == StatusDeleted {
		return Entry{}, apperrors.Wrap(apperrors.CodeConflict, "deleted questions must be restored before answering", nil)
	}

	text, err := s.searchText(ctx, entry.Question)
	if err != nil {
		return Entry{}, err
	}
	vector, err := s.embed(ctx, text)
	if err != nil {
		return Entry{}, err
	}
	if err := s.repo.AnswerAndActivate(ctx, id, answer, vector); err != nil {
		return Entry{}, s.storeError("failed to answer question", err)
	}
	s.invalidate(ctx, id)
	s.logger.Info("faq question answered", "aid", id, "previousStatus", entry.Status)
	return s.load(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) (Entry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.Status == StatusDeleted {
		return Entry{}, apperrors.Wrap(apperrors.CodeConflict, "question already deleted", nil)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return Entry{}, s.storeError("failed to delete question", err)
	}
	s.invalidate(ctx, id)
	s.logger.Info("faq question deleted", "aid", id)
	return s.load(ctx, id)
}

func (s *service) Restore(ctx context.Context, id int64) (Entry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.Status != StatusDeleted {
		return Entry{}, apperrors.Wrap(apperrors.CodeConflict, "only deleted questions can be restored", nil)
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return Entry{}, s.storeError("failed to restore question", err)
	}
	s.invalidate(ctx, id)
	s.logger.Info("faq question restored", "aid", id)
	return s.load(ctx, id)
}

func (s *service) UpdateQuestion(ctx context.Context, id int64, question string) (Entry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	entry, err := s.load(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.Status != StatusPending {
		return Entry{}, apperrors.Wrap(apperrors.CodeConflict, "only pending questions can be edited", nil)
	}
	if err := s.repo.UpdateText(ctx, id, question); err != nil {
		return Entry{}, s.storeError("failed to update question", err)
	}
	return s.load(ctx, id)
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "failed to load trending queries", err)
	}
	return recs, nil
}

func (s *service) load(ctx context.Context, id int64) (Entry, error) {
	if id <= 0 {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "aid must be positive", nil)
	}
	entry, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeStore, "failed to load question", err)
	}
	if !ok {
		return Entry{}, apperrors.Wrap(apperrors.CodeNotFound, "question not found", nil)
	}
	return entry, nil
}

func (s *service) storeError(msg string, err error) error {
	if errors.Is(err, ErrEntryNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, "question not found", err)
	}
	return apperrors.Wrap(apperrors.CodeStore, msg, err)
}

func (s *service) invalidate(ctx context.Context, id int64) {
	if err := s.store.DeleteAnswer(ctx, id); err != nil {
		s.logger.Warn("faq cache invalidation failed", "aid", id, "error", err)
	}
}
