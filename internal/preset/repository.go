package preset

import (
	"fmt"
	"os"
	"strings"

	"github.com/franz/metadata-customizer/internal/store"
)

// Repository persists presets in the store as JSON documents.
type Repository struct {
	store *store.Store
}

// NewRepository creates a repository backed by the given store.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

// List returns the stored presets' names and descriptions, sorted by name.
func (r *Repository) List() ([]*store.PresetRow, error) {
	return r.store.ListPresets()
}

// Load retrieves a preset by name, or nil if it does not exist.
func (r *Repository) Load(name string) (*Preset, error) {
	row, err := r.store.GetPreset(name)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	p, err := UnmarshalDocument([]byte(row.Doc))
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return p, nil
}

// Save stores a preset, overwriting any existing preset with the same name.
func (r *Repository) Save(p *Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name is required")
	}

	doc, err := MarshalDocument(p)
	if err != nil {
		return err
	}

	version := p.Version
	if version == "" {
		version = "1.0"
	}

	return r.store.SavePreset(&store.PresetRow{
		Name:        p.Name,
		Description: p.Description,
		Version:     version,
		Doc:         string(doc),
	})
}

// Delete removes a preset by name; found reports whether it existed.
func (r *Repository) Delete(name string) (bool, error) {
	return r.store.DeletePreset(name)
}

// Import reads a preset document from a JSON file and stores it.
func (r *Repository) Import(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	p, err := UnmarshalDocument(data)
	if err != nil {
		return nil, err
	}

	if err := r.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Export writes a stored preset's document to a JSON file. Returns false
// without writing when the preset does not exist.
func (r *Repository) Export(name, path string) (bool, error) {
	row, err := r.store.GetPreset(name)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(row.Doc), 0644); err != nil {
		return false, fmt.Errorf("failed to write preset file: %w", err)
	}
	return true, nil
}
