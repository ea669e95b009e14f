package faqrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/faq-agent/internal/domain/faq"
)

// PostgresRepository implements faq.Repository using pgx and pgvector.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const entryColumns = `aid, question, status, created_at, created_by, answer, embedding IS NOT NULL`

// InsertPending adds a PENDING row with no embedding.
func (r *PostgresRepository) InsertPending(ctx context.Context, question, createdBy string) (faq.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO faq_entries (question, status, created_by)
		VALUES ($1, 'PENDING', $2)
		RETURNING `+entryColumns, question, createdBy)
	return scanEntry(row)
}

// Get fetches a single entry.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (faq.Entry, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM faq_entries WHERE aid = $1`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return faq.Entry{}, false, nil
	}
	if err != nil {
		return faq.Entry{}, false, err
	}
	return entry, true, nil
}

// ListByStatus lists PENDING entries oldest first and the others newest first.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status faq.Status) ([]faq.Entry, error) {
	order := "created_at DESC, aid DESC"
	if status == faq.StatusPending {
		order = "created_at ASC, aid ASC"
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM faq_entries
		WHERE status = $1
		ORDER BY `+order, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]faq.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// AnswerAndActivate stores the answer and the new embedding.
func (r *PostgresRepository) AnswerAndActivate(ctx context.Context, id int64, answer string, embedding []float32) error {
	return r.exec(ctx, `
		UPDATE faq_entries
		SET answer = $2, embedding = $3, status = 'ACTIVE'
		WHERE aid = $1
	`, id, answer, pgvector.NewVector(embedding))
}

// SoftDelete marks the row DELETED and drops its embedding.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.exec(ctx, `UPDATE faq_entries SET status = 'DELETED', embedding = NULL WHERE aid = $1`, id)
}

// Restore moves the row back to PENDING.
func (r *PostgresRepository) Restore(ctx context.Context, id int64) error {
	return r.exec(ctx, `UPDATE faq_entries SET status = 'PENDING', embedding = NULL WHERE aid = $1`, id)
}

// UpdateText rewrites the question text.
func (r *PostgresRepository) UpdateText(ctx context.Context, id int64, question string) error {
	return r.exec(ctx, `UPDATE faq_entries SET question = $2 WHERE aid = $1`, id, question)
}

// FindBestMatch returns the closest ACTIVE row by cosine distance.
func (r *PostgresRepository) FindBestMatch(ctx context.Context, embedding []float32) (faq.Match, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`, 1 - (embedding <=> $1) AS score
		FROM faq_entries
		WHERE status = 'ACTIVE' AND embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT 1
	`, pgvector.NewVector(embedding))
	var score float64
	entry, err := scanEntry(row, &score)
	if errors.Is(err, pgx.ErrNoRows) {
		return faq.Match{}, false, nil
	}
	if err != nil {
		return faq.Match{}, false, err
	}
	return faq.Match{Entry: entry, Score: score}, true, nil
}

// Ping checks connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return faq.ErrEntryNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner, extras ...any) (faq.Entry, error) {
	var (
		entry  faq.Entry
		status string
		answer sql.NullString
	)
	args := []any{&entry.ID, &entry.Question, &status, &entry.CreatedAt, &entry.CreatedBy, &answer, &entry.HasEmbedding}
	args = append(args, extras...)
	if err := row.Scan(args...); err != nil {
		return faq.Entry{}, err
	}
	entry.Status = faq.Status(status)
	if answer.Valid {
		text := answer.String
		entry.Answer = &text
	}
	return entry, nil
}

var _ faq.Repository = (*PostgresRepository)(nil)
