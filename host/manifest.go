package host

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Manifest is the plugin descriptor shipped at a plugin's root, as
// plugin.yaml or plugin.json. It names the plugin and points at its entry
// file.
type Manifest struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Version string `json:"version" yaml:"version" validate:"required"`
	Type    string `json:"type" yaml:"type" validate:"required,oneof=ecmascript wasm"`
	File    string `json:"file" yaml:"file" validate:"required"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
}

// manifestNames are probed in order when loading from a directory.
var manifestNames = []string{"plugin.yaml", "plugin.yml", "plugin.json"}

var validate = validator.New()

// ParseManifest decodes and validates a manifest. JSON manifests decode
// through the YAML parser, of which JSON is a subset.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

// ManifestSchema returns the JSON Schema describing valid manifests, for
// packaging tools and editors.
func ManifestSchema() ([]byte, error) {
	s := jsonschema.Reflect(&Manifest{})
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest schema: %w", err)
	}
	return data, nil
}

// LoadManifest reads the manifest in dir, resolves the entry file relative
// to it and loads the plugin under the manifest's id.
func (l *Loader) LoadManifest(ctx context.Context, dir string) error {
	var data []byte
	var err error
	for _, name := range manifestNames {
		data, err = os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("no manifest in %s: %w", dir, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return err
	}
	return l.Load(ctx, m.ID, filepath.Join(dir, m.File))
}
