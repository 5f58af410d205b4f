package stage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/blakesmith/ar"
	"go.yaml.in/yaml/v3"
)

// Member names inside a stage bundle.
const (
	BundleInfoMember     = "stage-info"
	BundleManifestMember = "Cargo.toml"
	BundleLockMember     = "Cargo.lock"
)

// BundleInfo describes how a bundle's members were staged.
type BundleInfo struct {
	Package     string `yaml:"package"`
	Placeholder string `yaml:"placeholder"`
}

// WriteBundle packs the staged manifest and lockfile into a single ar archive
// so downstream consumers (typically a container build COPY) take the staging
// output as one unit. The stage-info member records the target package and
// the placeholder that was applied.
func WriteBundle(path string, cfg Config, l Listener) error {
	if l == nil {
		l = func(fmt.Stringer) {}
	}
	cfg = cfg.withDefaults()

	manifest, err := os.ReadFile(cfg.StagedManifestPath)
	if err != nil {
		return fmt.Errorf("failed to read staged manifest: %w", err)
	}
	lock, err := os.ReadFile(cfg.StagedLockfilePath)
	if err != nil {
		return fmt.Errorf("failed to read staged lockfile: %w", err)
	}
	info, err := yaml.Marshal(BundleInfo{
		Package:     cfg.TargetPackage,
		Placeholder: cfg.Placeholder,
	})
	if err != nil {
		return fmt.Errorf("failed to encode stage info: %w", err)
	}

	var buf bytes.Buffer
	w := ar.NewWriter(&buf)
	if err := w.WriteGlobalHeader(); err != nil {
		return fmt.Errorf("failed to write bundle header: %w", err)
	}

	members := []struct {
		name string
		body []byte
	}{
		{BundleInfoMember, info},
		{BundleManifestMember, manifest},
		{BundleLockMember, lock},
	}
	for _, m := range members {
		if err := addBufferToAr(w, m.name, m.body); err != nil {
			return fmt.Errorf("failed to add %s to bundle: %w", m.name, err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	l(EventBundleWritten{Path: path, Members: len(members)})
	return nil
}

// addBufferToAr writes a named byte slice as a file entry to the AR archive.
// It constructs the AR header with mode 0644 and the current timestamp.
func addBufferToAr(w *ar.Writer, name string, body []byte) error {
	header := &ar.Header{
		Name:    name,
		Size:    int64(len(body)),
		Mode:    0644,
		ModTime: time.Now(),
	}
	if err := w.WriteHeader(header); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// ReadBundle reads a stage bundle back into its named members.
func ReadBundle(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	members := make(map[string][]byte)
	r := ar.NewReader(f)
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle %s: %w", path, err)
		}
		body := make([]byte, header.Size)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("failed to read bundle member %s: %w", header.Name, err)
		}
		members[header.Name] = body
	}
	return members, nil
}
