package snippets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// Insert stores a snippet and returns its new ID.
// CreatedAt defaults to now when zero.
func (s *Store) Insert(ctx context.Context, sn models.Snippet) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return insertSnippet(ctx, s.db, sn)
}

// Seed replaces the whole snippet table with snippets in one transaction.
func (s *Store) Seed(ctx context.Context, snippets []models.Snippet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM code_snippets"); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear snippets: %w", err)
	}

	// Older entries get older timestamps so file order is newest-last.
	base := time.Now().Add(-time.Duration(len(snippets)) * time.Second)
	for i, sn := range snippets {
		if sn.CreatedAt.IsZero() {
			sn.CreatedAt = base.Add(time.Duration(i) * time.Second)
		}
		if _, err := insertSnippet(ctx, tx, sn); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed snippet %q: %w", sn.Title, err)
		}
	}

	return tx.Commit()
}

// Get returns the snippet with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (*models.Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, language, framework, category, difficulty, code, tags, created_at
		FROM code_snippets
		WHERE id = ?
	`, id)

	sn, err := scanSnippet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snippet %d: %w", id, err)
	}
	return sn, nil
}

// Count returns the number of stored snippets.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM code_snippets").Scan(&n); err != nil {
		return 0, fmt.Errorf("count snippets: %w", err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSnippet(ctx context.Context, db execer, sn models.Snippet) (int64, error) {
	if sn.Title == "" || sn.Language == "" || sn.Category == "" || sn.Code == "" {
		return 0, fmt.Errorf("snippet requires title, language, category and code")
	}
	if sn.CreatedAt.IsZero() {
		sn.CreatedAt = time.Now()
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO code_snippets (title, description, language, framework, category, difficulty, code, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sn.Title,
		sn.Description,
		sn.Language,
		nullString(sn.Framework),
		sn.Category,
		nullString(sn.Difficulty),
		sn.Code,
		nullString(sn.Tags),
		formatTime(sn.CreatedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row scanner) (*models.Snippet, error) {
	var (
		sn         models.Snippet
		framework  sql.NullString
		difficulty sql.NullString
		tags       sql.NullString
		createdAt  string
	)
	if err := row.Scan(&sn.ID, &sn.Title, &sn.Description, &sn.Language, &framework,
		&sn.Category, &difficulty, &sn.Code, &tags, &createdAt); err != nil {
		return nil, err
	}
	sn.Framework = framework.String
	sn.Difficulty = difficulty.String
	sn.Tags = tags.String

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	sn.CreatedAt = t
	return &sn, nil
}
