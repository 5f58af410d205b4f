// Package stage produces version-normalized copies of a Cargo package's
// manifest and lockfile without mutating the originals. The staged files are
// an explicit output with their own paths; nothing here wires them into a
// build invocation.
package stage

import (
	"fmt"
	"os"

	"github.com/ledoxide/cargo-stager/cargo"
)

// Config holds the staging inputs and outputs. Every field has a working
// default so a zero-configuration invocation keeps the historic fixed paths.
type Config struct {
	// ManifestPath is the manifest to stage.
	ManifestPath string `json:"manifest" yaml:"manifest"`
	// LockfilePath is the lockfile to stage.
	LockfilePath string `json:"lock" yaml:"lock"`
	// TargetPackage names the package whose lockfile blocks are rewritten.
	TargetPackage string `json:"package" yaml:"package"`
	// Placeholder is the version substituted for every matched field.
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	// StagedManifestPath is where the rewritten manifest is written.
	StagedManifestPath string `json:"staged_manifest" yaml:"staged_manifest"`
	// StagedLockfilePath is where the rewritten lockfile is written.
	StagedLockfilePath string `json:"staged_lock" yaml:"staged_lock"`
}

// DefaultConfig returns a Config populated with the fixed historic paths.
func DefaultConfig() Config {
	return Config{
		ManifestPath:       cargo.ManifestFile,
		LockfilePath:       cargo.LockFile,
		TargetPackage:      cargo.TargetPackage,
		Placeholder:        cargo.PlaceholderVersion,
		StagedManifestPath: cargo.StagedManifestFile,
		StagedLockfilePath: cargo.StagedLockFile,
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ManifestPath == "" {
		c.ManifestPath = d.ManifestPath
	}
	if c.LockfilePath == "" {
		c.LockfilePath = d.LockfilePath
	}
	if c.TargetPackage == "" {
		c.TargetPackage = d.TargetPackage
	}
	if c.Placeholder == "" {
		c.Placeholder = d.Placeholder
	}
	if c.StagedManifestPath == "" {
		c.StagedManifestPath = d.StagedManifestPath
	}
	if c.StagedLockfilePath == "" {
		c.StagedLockfilePath = d.StagedLockfilePath
	}
	return c
}

// Run stages the manifest and the lockfile. The two rewrites are independent:
// they read disjoint inputs and write disjoint outputs, and the originals are
// never touched. Any I/O error is returned as-is with no partial-output
// guarantee; a missing version field is not an error.
func Run(cfg Config, l Listener) error {
	if l == nil {
		l = func(fmt.Stringer) {}
	}
	cfg = cfg.withDefaults()

	if err := stageManifest(cfg, l); err != nil {
		return err
	}
	return stageLockfile(cfg, l)
}

func stageManifest(cfg Config, l Listener) error {
	data, err := os.ReadFile(cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	staged, rewritten := cargo.RewriteManifest(data, cfg.Placeholder)
	if err := cargo.CheckTOML(staged); err != nil {
		return fmt.Errorf("staged manifest %s: %w", cfg.StagedManifestPath, err)
	}
	if err := os.WriteFile(cfg.StagedManifestPath, staged, 0644); err != nil {
		return fmt.Errorf("failed to write staged manifest: %w", err)
	}

	ev := EventManifestStaged{
		Source:    cfg.ManifestPath,
		Staged:    cfg.StagedManifestPath,
		Rewritten: rewritten,
	}
	// Introspection is best-effort; the rewrite does not depend on it.
	if m, err := cargo.ParseManifest(staged); err == nil {
		ev.Package = m.Package.Name
		ev.Version = m.Package.Version
	}
	l(ev)
	return nil
}

func stageLockfile(cfg Config, l Listener) error {
	data, err := os.ReadFile(cfg.LockfilePath)
	if err != nil {
		return fmt.Errorf("failed to read lockfile: %w", err)
	}

	staged, blocks := cargo.RewriteLockfile(data, cfg.TargetPackage, cfg.Placeholder)
	if err := cargo.CheckTOML(staged); err != nil {
		return fmt.Errorf("staged lockfile %s: %w", cfg.StagedLockfilePath, err)
	}
	if err := os.WriteFile(cfg.StagedLockfilePath, staged, 0644); err != nil {
		return fmt.Errorf("failed to write staged lockfile: %w", err)
	}

	l(EventLockfileStaged{
		Source: cfg.LockfilePath,
		Staged: cfg.StagedLockfilePath,
		Blocks: blocks,
	})
	return nil
}
