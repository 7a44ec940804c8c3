package snippets

// Migrate creates the necessary tables and indexes if they don't exist.
func (s *Store) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snippet_schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM snippet_schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Snippets},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return err
		}

		if _, err := tx.Exec("INSERT INTO snippet_schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

const migrationV1Snippets = `
CREATE TABLE IF NOT EXISTS code_snippets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL,
	framework TEXT,
	category TEXT NOT NULL,
	difficulty TEXT,
	code TEXT NOT NULL,
	tags TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snippets_language ON code_snippets(language COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_snippets_category ON code_snippets(category COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON code_snippets(created_at);
`
