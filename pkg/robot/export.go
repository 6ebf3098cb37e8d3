package robot

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Manifest is the catalog as handed to a block host.
type Manifest struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Actions []Action `json:"actions" yaml:"actions"`
}

// NewManifest returns the manifest of the full catalog.
func NewManifest() Manifest {
	return Manifest{
		ID:      CategoryID,
		Name:    CategoryName,
		Actions: Actions(),
	}
}

// WriteYAML encodes the manifest as YAML.
func (m Manifest) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return enc.Close()
}
