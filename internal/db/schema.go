package db

// SchemaSQL is the complete schema for a fresh sprintboard database.
//
// This is the single source of truth for tests: repository tests load it via
// GetSchemaSQL() instead of declaring their own tables. Keep it in sync with
// the migrations list.
const SchemaSQL = `
-- Last successful save of the ticket table. At most one row (id = 1); no history.
CREATE TABLE IF NOT EXISTS modification_log (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	updated_at TEXT NOT NULL,
	actor TEXT,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema.
func GetSchemaSQL() string {
	return SchemaSQL
}
