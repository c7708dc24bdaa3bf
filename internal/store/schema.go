package store

// schemaV1 creates the initial tables
const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Named rule bundles. The full document (three ordered rule lists plus
-- metadata) is stored as JSON so round-trips preserve rule order exactly.
CREATE TABLE IF NOT EXISTS presets (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	version TEXT NOT NULL DEFAULT '1.0',
	doc TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- One row per batch preset application.
CREATE TABLE IF NOT EXISTS apply_runs (
	id TEXT PRIMARY KEY,
	preset TEXT NOT NULL,
	query TEXT NOT NULL DEFAULT '',
	processed INTEGER NOT NULL DEFAULT 0,
	changed INTEGER NOT NULL DEFAULT 0,
	written INTEGER NOT NULL DEFAULT 0,
	errors INTEGER NOT NULL DEFAULT 0,
	dry_run INTEGER NOT NULL DEFAULT 0,
	started_at TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_apply_runs_started ON apply_runs(started_at);
`
