package cargo

import (
	"regexp"
	"strings"
)

// versionField matches a dotted-numeric version assignment and captures the
// text around the value so a replacement preserves everything else on the
// line. Non-numeric versions never match and pass through untouched.
var versionField = regexp.MustCompile(`^(\s*version\s*=\s*")[0-9]+(?:\.[0-9]+)*(".*)$`)

// nameField matches a lockfile name assignment and captures the literal.
var nameField = regexp.MustCompile(`^name\s*=\s*"(.+)"\s*$`)

// RewriteManifest returns a copy of manifest data in which any dotted-numeric
// version assignment within the first HeaderLines lines is replaced by
// placeholder. Lines beyond the header region pass through unchanged
// regardless of content, as do header lines without a matching version field.
// The returned count is the number of lines rewritten.
func RewriteManifest(data []byte, placeholder string) ([]byte, int) {
	lines := strings.Split(string(data), "\n")
	rewritten := 0
	for i := 0; i < len(lines) && i < HeaderLines; i++ {
		if m := versionField.FindStringSubmatch(lines[i]); m != nil {
			lines[i] = m[1] + placeholder + m[2]
			rewritten++
		}
	}
	return []byte(strings.Join(lines, "\n")), rewritten
}

// RewriteLockfile returns a copy of lockfile data in which the version of
// every package block belonging to target is replaced by placeholder. A block
// matches only as a contiguous unit: the block marker, immediately followed by
// a name assignment equal to target, immediately followed by a dotted-numeric
// version assignment. Blocks for any other package, and all surrounding
// content, remain byte-identical. The returned count is the number of blocks
// rewritten; zero matches is not an error.
func RewriteLockfile(data []byte, target, placeholder string) ([]byte, int) {
	lines := strings.Split(string(data), "\n")
	rewritten := 0
	for i := 0; i+2 < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != BlockMarker {
			continue
		}
		m := nameField.FindStringSubmatch(strings.TrimSpace(lines[i+1]))
		if m == nil || m[1] != target {
			continue
		}
		if v := versionField.FindStringSubmatch(lines[i+2]); v != nil {
			lines[i+2] = v[1] + placeholder + v[2]
			rewritten++
		}
	}
	return []byte(strings.Join(lines, "\n")), rewritten
}
