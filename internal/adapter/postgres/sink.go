// Package postgres persists finished study artifacts so past uploads can be
// listed and reopened later. The synthesis pipeline itself never depends on
// it; callers hand finished artifacts to the sink best-effort.
package postgres

import (
	"context"
	"database/sql"
)

type DocumentRow struct {
	ID        string
	UserID    string
	Title     string
	Summary   string
	CardsJSON string
}

type QuizRow struct {
	DocID        string
	UserID       string
	Title        string
	NumQuestions int
	QuizJSON     string
}

type Sink struct {
	db *sql.DB
}

func NewSink(db *sql.DB) *Sink {
	return &Sink{db: db}
}

// SaveDocument upserts on the content ID, so re-uploading the same bytes
// refreshes the stored artifact instead of duplicating it.
func (s *Sink) SaveDocument(ctx context.Context, row DocumentRow) error {
	query := `INSERT INTO documents (id, user_id, title, summary, cards_json) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, summary = EXCLUDED.summary, cards_json = EXCLUDED.cards_json, updated_at = NOW()`
	_, err := s.db.ExecContext(ctx, query, row.ID, row.UserID, row.Title, row.Summary, row.CardsJSON)
	return err
}

func (s *Sink) SaveQuiz(ctx context.Context, row QuizRow) error {
	query := `INSERT INTO quizzes (doc_id, user_id, title, num_questions, quiz_json) VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, query, row.DocID, row.UserID, row.Title, row.NumQuestions, row.QuizJSON)
	return err
}

// ListDocuments returns the stored artifacts for a user, newest first.
func (s *Sink) ListDocuments(ctx context.Context, userID string) ([]DocumentRow, error) {
	query := `SELECT id, user_id, title, summary, cards_json FROM documents WHERE user_id = $1 ORDER BY updated_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []DocumentRow
	for rows.Next() {
		var d DocumentRow
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Summary, &d.CardsJSON); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
