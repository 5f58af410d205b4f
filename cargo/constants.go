package cargo

// ManifestFile and LockFile are the fixed input filenames of a Cargo package.
const (
	ManifestFile = "Cargo.toml"
	LockFile     = "Cargo.lock"
)

// StagedManifestFile and StagedLockFile are the default output paths for the
// staged copies. They sit next to the originals so a container build can pick
// either set.
const (
	StagedManifestFile = "Cargo.toml.staged"
	StagedLockFile     = "Cargo.lock.staged"
)

const (
	// TargetPackage is the package whose lockfile blocks are eligible for
	// version normalization.
	TargetPackage = "ledoxide"
	// PlaceholderVersion is substituted for every matched version field.
	PlaceholderVersion = "0.1.0"
)

// HeaderLines bounds the manifest region eligible for rewriting. Only the
// first HeaderLines lines are inspected; the package's own version assignment
// always sits there.
const HeaderLines = 3

// BlockMarker opens a package block in the lockfile.
const BlockMarker = "[[package]]"

// DefaultOutputDir is where cargo places release binaries, and
// DefaultBinaryDest is the fixed path the promoted binary is copied to inside
// the build environment.
const (
	DefaultOutputDir  = "target/release"
	DefaultBinaryDest = "/app/ledoxide"
)
