package database

import (
	"testing"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name          string
		dialect       Dialect
		driver        string
		lastInsertID  bool
		migrationsDir string
		trueLiteral   string
		falseLiteral  string
	}{
		{"SQLite", NewSQLiteDialect(), "sqlite3", true, "sqlite", "1", "0"},
		{"PostgreSQL", NewPostgresDialect(), "postgres", false, "postgres", "TRUE", "FALSE"},
		{"MySQL", NewMySQLDialect(), "mysql", true, "mysql", "TRUE", "FALSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.lastInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.lastInsertID)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.migrationsDir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.migrationsDir)
			}
			if got := tt.dialect.BoolValue(true); got != tt.trueLiteral {
				t.Errorf("BoolValue(true) = %v, want %v", got, tt.trueLiteral)
			}
			if got := tt.dialect.BoolValue(false); got != tt.falseLiteral {
				t.Errorf("BoolValue(false) = %v, want %v", got, tt.falseLiteral)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM players WHERE id = ?",
			expected: "SELECT * FROM players WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM players WHERE id = ?",
			expected: "SELECT * FROM players WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO fragments (player_id, level_id, position, token) VALUES (?, ?, ?, ?)",
			expected: "INSERT INTO fragments (player_id, level_id, position, token) VALUES ($1, $2, $3, $4)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE player_progress SET current_level = ?, failed_attempts = ? WHERE player_id = ?",
			expected: "UPDATE player_progress SET current_level = ?, failed_attempts = ? WHERE player_id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	content := `-- leading comment
CREATE TABLE a (
    id INTEGER
);

-- another
CREATE TABLE b (id INTEGER);
INSERT INTO b VALUES (1)
`
	got := splitStatements(content)
	if len(got) != 3 {
		t.Fatalf("got %d statements, want 3: %q", len(got), got)
	}
	if got[0] != "CREATE TABLE a (\n    id INTEGER\n);" {
		t.Errorf("first statement = %q", got[0])
	}
	if got[2] != "INSERT INTO b VALUES (1)" {
		t.Errorf("trailing statement without semicolon = %q", got[2])
	}
}
