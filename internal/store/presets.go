package store

import (
	"database/sql"
	"fmt"
	"time"
)

// PresetRow is a stored preset document
type PresetRow struct {
	Name        string
	Description string
	Version     string
	Doc         string
	UpdatedAt   time.Time
}

// SavePreset inserts or replaces a preset by name
func (s *Store) SavePreset(row *PresetRow) error {
	_, err := s.db.Exec(`
		INSERT INTO presets (name, description, version, doc, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			version = excluded.version,
			doc = excluded.doc,
			updated_at = excluded.updated_at
	`, row.Name, row.Description, row.Version, row.Doc, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}

	return nil
}

// GetPreset retrieves a preset by name, or nil if it does not exist
func (s *Store) GetPreset(name string) (*PresetRow, error) {
	row := &PresetRow{}
	err := s.db.QueryRow(`
		SELECT name, description, version, doc, updated_at
		FROM presets WHERE name = ?
	`, name).Scan(&row.Name, &row.Description, &row.Version, &row.Doc, &row.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}

	return row, nil
}

// ListPresets returns all presets ordered by name, without their documents
func (s *Store) ListPresets() ([]*PresetRow, error) {
	rows, err := s.db.Query(`
		SELECT name, description, version, updated_at
		FROM presets ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	var presets []*PresetRow
	for rows.Next() {
		row := &PresetRow{}
		if err := rows.Scan(&row.Name, &row.Description, &row.Version, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, row)
	}

	return presets, rows.Err()
}

// DeletePreset removes a preset by name; found reports whether it existed
func (s *Store) DeletePreset(name string) (bool, error) {
	result, err := s.db.Exec("DELETE FROM presets WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}

	return affected > 0, nil
}
