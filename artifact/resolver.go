// Package artifact promotes one compiled binary out of a cargo output
// directory to a fixed destination, and records its checksum for the release.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledoxide/cargo-stager/cargo"
)

// Resolver identifies, among possibly many compiled outputs, the one file to
// promote as the deliverable binary.
//
// Resolution is two-tier because the output name is not statically known: it
// first asks the build metadata for the declared binary target name and
// copies that exact file; if anything about the lookup fails (no metadata
// source, tool error, name not present in the output directory) it falls back
// to a non-recursive scan for an executable. Each tier is attempted exactly
// once; the step fails only when both tiers fail.
type Resolver struct {
	// Metadata resolves the declared binary target name. A nil Metadata
	// forces the directory-scan path.
	Metadata cargo.MetadataSource
	// OutputDir is the directory the compiler wrote artifacts to.
	// Empty means cargo.DefaultOutputDir.
	OutputDir string
	// Dest is the fixed path the chosen binary is copied to.
	// Empty means cargo.DefaultBinaryDest.
	Dest string
}

// Resolve picks the artifact, copies it to Dest and returns the source path
// it chose.
func (r *Resolver) Resolve() (string, error) {
	outDir := r.OutputDir
	if outDir == "" {
		outDir = cargo.DefaultOutputDir
	}
	dest := r.Dest
	if dest == "" {
		dest = cargo.DefaultBinaryDest
	}

	if r.Metadata != nil {
		if name, err := r.Metadata.PrimaryTargetName(); err == nil {
			src := filepath.Join(outDir, name)
			if err := copyFile(src, dest); err == nil {
				return src, nil
			}
		}
	}

	src, err := scanExecutable(outDir)
	if err != nil {
		return "", err
	}
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("failed to promote %s: %w", src, err)
	}
	return src, nil
}

// scanExecutable returns the first regular file in dir carrying an executable
// bit, skipping cargo side outputs that are never the deliverable. ReadDir
// sorts by name, so the choice is deterministic.
func scanExecutable(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read output dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".d") || strings.HasSuffix(name, ".rlib") ||
			strings.HasSuffix(name, ".rmeta") || strings.HasSuffix(name, ".so") ||
			strings.HasSuffix(name, ".a") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() || info.Mode()&0o111 == 0 {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", fmt.Errorf("no executable artifact found in %s", dir)
}

// copyFile copies src to dst, preserving the source's permission bits so the
// promoted binary stays executable.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
