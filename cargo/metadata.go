package cargo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
)

// MetadataSource resolves the declared name of the primary binary target of
// the package under build. Implementations may shell out to the toolchain or
// serve fixed answers in tests.
type MetadataSource interface {
	PrimaryTargetName() (string, error)
}

// ExecSource resolves the target name by running `cargo metadata` and parsing
// its JSON output.
type ExecSource struct {
	// Dir is the directory containing the manifest to query.
	Dir string
	// Cargo overrides the executable name; "cargo" when empty.
	Cargo string
}

// PrimaryTargetName implements MetadataSource.
func (s *ExecSource) PrimaryTargetName() (string, error) {
	bin := s.Cargo
	if bin == "" {
		bin = "cargo"
	}
	cmd := exec.Command(bin, "metadata", "--format-version", "1", "--no-deps")
	cmd.Dir = s.Dir
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("cargo metadata failed: %v: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return primaryTarget(out.Bytes())
}

// primaryTarget extracts the first binary target name of the root package
// from `cargo metadata --format-version 1` output.
func primaryTarget(data []byte) (string, error) {
	// Internal DTOs for the subset of the metadata schema we consume.
	type jsonTarget struct {
		Kind []string `json:"kind"`
		Name string   `json:"name"`
	}
	type jsonPackage struct {
		ID      string       `json:"id"`
		Name    string       `json:"name"`
		Targets []jsonTarget `json:"targets"`
	}
	type jsonMetadata struct {
		Packages []jsonPackage `json:"packages"`
		Resolve  struct {
			Root string `json:"root"`
		} `json:"resolve"`
	}

	var md jsonMetadata
	if err := json.Unmarshal(data, &md); err != nil {
		return "", fmt.Errorf("failed to parse cargo metadata: %w", err)
	}
	if len(md.Packages) == 0 {
		return "", fmt.Errorf("cargo metadata reported no packages")
	}

	// With --no-deps only workspace members are listed; the root id, when
	// present, disambiguates workspaces with several members.
	pkg := md.Packages[0]
	if md.Resolve.Root != "" {
		for _, p := range md.Packages {
			if p.ID == md.Resolve.Root {
				pkg = p
				break
			}
		}
	}

	for _, t := range pkg.Targets {
		for _, kind := range t.Kind {
			if kind == "bin" {
				return t.Name, nil
			}
		}
	}
	return "", fmt.Errorf("package %s declares no binary target", pkg.Name)
}
