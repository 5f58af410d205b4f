package cargo

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Manifest holds the subset of Cargo.toml the stager reports on.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
	} `toml:"package"`
}

// ReadManifest reads and parses a manifest from the given path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest TOML data.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest TOML: %w", err)
	}
	return &m, nil
}

// CheckTOML reports whether data is well-formed TOML. Staged files are
// produced by textual rewriting, so this guards against a rewrite that would
// leave the output unparsable for the toolchain consuming it.
func CheckTOML(data []byte) error {
	var v map[string]interface{}
	if err := toml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("not valid TOML: %w", err)
	}
	return nil
}
