package cargo

import (
	"bytes"
	"testing"
)

func TestRewriteManifestHeader(t *testing.T) {
	input := "name = \"x\"\nversion = \"1.2.3\"\nedition = \"2021\"\n\n[dependencies]\nserde = \"1\"\n"
	want := "name = \"x\"\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[dependencies]\nserde = \"1\"\n"

	out, n := RewriteManifest([]byte(input), "0.1.0")
	if string(out) != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
	if n != 1 {
		t.Errorf("expected 1 rewrite, got %d", n)
	}
}

func TestRewriteManifestBeyondHeader(t *testing.T) {
	// A version assignment after the header region must survive verbatim.
	input := "[package]\nname = \"x\"\nedition = \"2021\"\nversion = \"1.2.3\"\n"

	out, n := RewriteManifest([]byte(input), "0.1.0")
	if !bytes.Equal(out, []byte(input)) {
		t.Errorf("line beyond header was modified:\n%s", out)
	}
	if n != 0 {
		t.Errorf("expected 0 rewrites, got %d", n)
	}
}

func TestRewriteManifestNoVersion(t *testing.T) {
	input := "name = \"x\"\nedition = \"2021\"\nauthors = []\n"

	out, n := RewriteManifest([]byte(input), "0.1.0")
	if !bytes.Equal(out, []byte(input)) {
		t.Errorf("pattern-miss must pass through unchanged, got:\n%s", out)
	}
	if n != 0 {
		t.Errorf("expected 0 rewrites, got %d", n)
	}
}

func TestRewriteManifestNonNumericVersion(t *testing.T) {
	input := "name = \"x\"\nversion = \"1.2.3-beta\"\nedition = \"2021\"\n"

	out, n := RewriteManifest([]byte(input), "0.1.0")
	if !bytes.Equal(out, []byte(input)) {
		t.Errorf("non dotted-numeric version must not match, got:\n%s", out)
	}
	if n != 0 {
		t.Errorf("expected 0 rewrites, got %d", n)
	}
}

func TestRewriteManifestIdempotent(t *testing.T) {
	input := "name = \"x\"\nversion = \"1.2.3\"\nedition = \"2021\"\n"

	once, _ := RewriteManifest([]byte(input), "0.1.0")
	twice, n := RewriteManifest(once, "0.1.0")
	if !bytes.Equal(once, twice) {
		t.Errorf("second rewrite changed the output:\n%s\nvs\n%s", once, twice)
	}
	// The placeholder still matches the eligible pattern.
	if n != 1 {
		t.Errorf("expected placeholder to keep matching, got %d rewrites", n)
	}
}

const lockTwoBlocks = `# This file is automatically @generated by Cargo.
version = 3

[[package]]
name = "ledoxide"
version = "2.0.0"
dependencies = [
 "other",
]

[[package]]
name = "other"
version = "9.9.9"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "abc123"
`

func TestRewriteLockfile(t *testing.T) {
	out, n := RewriteLockfile([]byte(lockTwoBlocks), "ledoxide", "0.1.0")
	if n != 1 {
		t.Fatalf("expected 1 block rewritten, got %d", n)
	}

	want := `# This file is automatically @generated by Cargo.
version = 3

[[package]]
name = "ledoxide"
version = "0.1.0"
dependencies = [
 "other",
]

[[package]]
name = "other"
version = "9.9.9"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "abc123"
`
	if string(out) != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRewriteLockfileNoTargetBlocks(t *testing.T) {
	input := "[[package]]\nname = \"other\"\nversion = \"9.9.9\"\n"

	out, n := RewriteLockfile([]byte(input), "ledoxide", "0.1.0")
	if !bytes.Equal(out, []byte(input)) {
		t.Errorf("non-target block was modified:\n%s", out)
	}
	if n != 0 {
		t.Errorf("expected 0 blocks rewritten, got %d", n)
	}
}

func TestRewriteLockfileMultipleTargetBlocks(t *testing.T) {
	input := "[[package]]\nname = \"ledoxide\"\nversion = \"2.0.0\"\n\n" +
		"[[package]]\nname = \"ledoxide\"\nversion = \"3.0.0\"\n"
	want := "[[package]]\nname = \"ledoxide\"\nversion = \"0.1.0\"\n\n" +
		"[[package]]\nname = \"ledoxide\"\nversion = \"0.1.0\"\n"

	out, n := RewriteLockfile([]byte(input), "ledoxide", "0.1.0")
	if string(out) != want {
		t.Errorf("unexpected output:\n%s", out)
	}
	if n != 2 {
		t.Errorf("expected 2 blocks rewritten, got %d", n)
	}
}

func TestRewriteLockfileIdempotent(t *testing.T) {
	once, _ := RewriteLockfile([]byte(lockTwoBlocks), "ledoxide", "0.1.0")
	twice, _ := RewriteLockfile(once, "ledoxide", "0.1.0")
	if !bytes.Equal(once, twice) {
		t.Errorf("second rewrite changed the output")
	}
}

func TestRewriteLockfileGuardsAdjacency(t *testing.T) {
	// A name line that is not immediately after the marker must not match.
	input := "[[package]]\nsource = \"registry\"\nname = \"ledoxide\"\nversion = \"2.0.0\"\n"

	out, n := RewriteLockfile([]byte(input), "ledoxide", "0.1.0")
	if !bytes.Equal(out, []byte(input)) {
		t.Errorf("loosely structured block was modified:\n%s", out)
	}
	if n != 0 {
		t.Errorf("expected 0 blocks rewritten, got %d", n)
	}
}
