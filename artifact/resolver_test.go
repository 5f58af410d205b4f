package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

// stubSource serves a fixed metadata answer.
type stubSource struct {
	name string
	err  error
}

func (s *stubSource) PrimaryTargetName() (string, error) {
	return s.name, s.err
}

// writeArtifact writes a file with the given mode into dir.
func writeArtifact(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("binary "+name), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveMetadataPath(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, "foo", 0755)
	// Decoys the metadata path must ignore.
	writeArtifact(t, outDir, "aaa", 0755)
	writeArtifact(t, outDir, "foo.d", 0644)

	dest := filepath.Join(t.TempDir(), "binary")
	r := &Resolver{Metadata: &stubSource{name: "foo"}, OutputDir: outDir, Dest: dest}

	src, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if src != filepath.Join(outDir, "foo") {
		t.Errorf("expected foo to be chosen, got %s", src)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination not written: %v", err)
	}
	if string(got) != "binary foo" {
		t.Errorf("destination is not a copy of foo: %q", got)
	}
}

func TestResolveFallbackOnMetadataError(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, "bar", 0755)
	writeArtifact(t, outDir, "bar.d", 0644)
	writeArtifact(t, outDir, "libbar.rlib", 0755)

	dest := filepath.Join(t.TempDir(), "binary")
	r := &Resolver{Metadata: &stubSource{err: os.ErrNotExist}, OutputDir: outDir, Dest: dest}

	src, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if src != filepath.Join(outDir, "bar") {
		t.Errorf("expected bar to be chosen, got %s", src)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "binary bar" {
		t.Errorf("destination is not a copy of bar: %q", got)
	}
}

func TestResolveFallbackOnNameMismatch(t *testing.T) {
	outDir := t.TempDir()
	// Metadata answers a name that is not in the output directory.
	writeArtifact(t, outDir, "bar", 0755)

	dest := filepath.Join(t.TempDir(), "binary")
	r := &Resolver{Metadata: &stubSource{name: "foo"}, OutputDir: outDir, Dest: dest}

	src, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if src != filepath.Join(outDir, "bar") {
		t.Errorf("expected fallback to bar, got %s", src)
	}
}

func TestResolveNilMetadata(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, "only", 0755)

	dest := filepath.Join(t.TempDir(), "binary")
	r := &Resolver{OutputDir: outDir, Dest: dest}

	if _, err := r.Resolve(); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
}

func TestResolveNothingFound(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, "notes.txt", 0644)
	writeArtifact(t, outDir, "libx.a", 0755)

	r := &Resolver{
		Metadata:  &stubSource{err: os.ErrNotExist},
		OutputDir: outDir,
		Dest:      filepath.Join(t.TempDir(), "binary"),
	}
	if _, err := r.Resolve(); err == nil {
		t.Fatal("expected error when no executable exists")
	}
}

func TestResolveMissingOutputDir(t *testing.T) {
	r := &Resolver{
		OutputDir: filepath.Join(t.TempDir(), "missing"),
		Dest:      filepath.Join(t.TempDir(), "binary"),
	}
	if _, err := r.Resolve(); err == nil {
		t.Fatal("expected error for missing output directory")
	}
}

func TestScanSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "aaa-data", 0644)
	writeArtifact(t, dir, "zzz-bin", 0755)

	src, err := scanExecutable(dir)
	if err != nil {
		t.Fatalf("scanExecutable failed: %v", err)
	}
	if filepath.Base(src) != "zzz-bin" {
		t.Errorf("expected zzz-bin, got %s", src)
	}
}

func TestCopyFilePreservesMode(t *testing.T) {
	dir := t.TempDir()
	src := writeArtifact(t, dir, "bin", 0755)
	dst := filepath.Join(dir, "out")

	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile failed: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Errorf("executable bit lost: %v", info.Mode())
	}
}
