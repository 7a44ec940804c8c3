package snippets

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// Find returns snippets matching filter, newest first. The limit defaults
// to DefaultLimit and never exceeds MaxLimit. Language and category match
// exactly ignoring case; framework matches as a substring; keyword is
// searched in title, description and tags.
func (s *Store) Find(ctx context.Context, filter models.SnippetFilter, limit int) ([]models.Snippet, error) {
	limit = ClampLimit(limit)

	var (
		conditions []string
		args       []any
	)
	if v := truncate(filter.Language); v != "" {
		conditions = append(conditions, "LOWER(language) = LOWER(?)")
		args = append(args, v)
	}
	if v := truncate(filter.Category); v != "" {
		conditions = append(conditions, "LOWER(category) = LOWER(?)")
		args = append(args, v)
	}
	if v := truncate(filter.Framework); v != "" {
		conditions = append(conditions, `LOWER(framework) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(v)+"%")
	}
	if v := truncate(filter.Keyword); v != "" {
		conditions = append(conditions, `(
			LOWER(title) LIKE LOWER(?) ESCAPE '\'
			OR LOWER(description) LIKE LOWER(?) ESCAPE '\'
			OR LOWER(tags) LIKE LOWER(?) ESCAPE '\'
		)`)
		kw := "%" + likeEscaper.Replace(v) + "%"
		args = append(args, kw, kw, kw)
	}

	where := "1=1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}
	query := fmt.Sprintf(`
		SELECT id, title, description, language, framework, category, difficulty, code, tags, created_at
		FROM code_snippets
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, where)
	args = append(args, limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, span := s.tracer.Start(ctx, "snippets.query",
		attribute.String("db.system", "sqlite"),
		attribute.Int("db.limit", limit),
	)
	defer span.End()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find snippets: %w", err)
	}
	defer rows.Close()

	var out []models.Snippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		out = append(out, *sn)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("db.rows", len(out)))
	return out, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Categories returns every category with its snippet count, largest first.
func (s *Store) Categories(ctx context.Context) ([]models.FacetCount, error) {
	return s.facet(ctx, "category")
}

// Languages returns every language with its snippet count, largest first.
func (s *Store) Languages(ctx context.Context) ([]models.FacetCount, error) {
	return s.facet(ctx, "language")
}

func (s *Store) facet(ctx context.Context, column string) ([]models.FacetCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// column is one of two constants above, never user input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS count
		FROM code_snippets
		GROUP BY %[1]s
		ORDER BY count DESC, %[1]s ASC
	`, column))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", column, err)
	}
	defer rows.Close()

	var out []models.FacetCount
	for rows.Next() {
		var fc models.FacetCount
		if err := rows.Scan(&fc.Name, &fc.Count); err != nil {
			return nil, err
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}
