// Command stagecheck verifies that staged Cargo files are fully normalized:
// every eligible version field holds the placeholder and the files still
// parse as TOML. It exits non-zero on the first violation, which makes it
// usable as a pipeline gate between staging and the container build.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/ledoxide/cargo-stager/cargo"
	"github.com/ledoxide/cargo-stager/stage"
	"go.yaml.in/yaml/v3"
)

func main() {
	fs := flag.NewFlagSet("stagecheck", flag.ExitOnError)
	manifest := fs.String("manifest", cargo.StagedManifestFile, "Staged manifest to verify")
	lock := fs.String("lock", cargo.StagedLockFile, "Staged lockfile to verify")
	bundlePath := fs.String("bundle", "", "Verify a stage bundle instead of loose files")
	pkg := fs.String("package", cargo.TargetPackage, "Package whose lockfile blocks must be normalized")
	placeholder := fs.String("placeholder", cargo.PlaceholderVersion, "Expected placeholder version")
	fs.Parse(os.Args[1:])

	var manifestData, lockData []byte
	target, want := *pkg, *placeholder

	if *bundlePath != "" {
		members, err := stage.ReadBundle(*bundlePath)
		if err != nil {
			fatal(err)
		}
		var info stage.BundleInfo
		if err := yaml.Unmarshal(members[stage.BundleInfoMember], &info); err != nil {
			fatal(fmt.Errorf("bundle %s has no readable stage-info: %w", *bundlePath, err))
		}
		// The bundle records what it was staged with; that wins over flags.
		if info.Package != "" {
			target = info.Package
		}
		if info.Placeholder != "" {
			want = info.Placeholder
		}
		manifestData = members[stage.BundleManifestMember]
		lockData = members[stage.BundleLockMember]
		if manifestData == nil || lockData == nil {
			fatal(fmt.Errorf("bundle %s is missing staged members", *bundlePath))
		}
	} else {
		var err error
		if manifestData, err = os.ReadFile(*manifest); err != nil {
			fatal(err)
		}
		if lockData, err = os.ReadFile(*lock); err != nil {
			fatal(err)
		}
	}

	if err := verify(manifestData, lockData, target, want); err != nil {
		fatal(err)
	}
	fmt.Println("staging verified")
}

// verify checks the staging invariant. A fully staged file is a fixed point
// of its rewriter, so re-rewriting must change nothing.
func verify(manifestData, lockData []byte, target, placeholder string) error {
	if err := cargo.CheckTOML(manifestData); err != nil {
		return fmt.Errorf("staged manifest: %w", err)
	}
	if err := cargo.CheckTOML(lockData); err != nil {
		return fmt.Errorf("staged lockfile: %w", err)
	}

	if again, _ := cargo.RewriteManifest(manifestData, placeholder); !bytes.Equal(again, manifestData) {
		return fmt.Errorf("manifest header version is not the placeholder %q", placeholder)
	}
	if again, _ := cargo.RewriteLockfile(lockData, target, placeholder); !bytes.Equal(again, lockData) {
		return fmt.Errorf("lockfile has %s blocks not pinned to %q", target, placeholder)
	}
	return nil
}

func fatal(err error) {
	fmt.Printf("Fatal: %v\n", err)
	os.Exit(1)
}
