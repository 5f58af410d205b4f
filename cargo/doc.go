// Package cargo provides a pure Go library for inspecting and rewriting the
// metadata files of a Cargo package.
//
// # Design Philosophy
//
// The package treats Cargo.toml and Cargo.lock as text, not as TOML documents:
// staging must leave every byte outside the rewritten version fields exactly
// as it found it, and a parse/serialize round trip cannot guarantee that.
// Rewrites are therefore textual and bounded (a fixed manifest header region,
// an explicit lockfile block scan), while TOML parsing is used only to
// introspect and to validate that a rewrite produced a well-formed file.
//
// # Features
//
// Staging:
//   - Rewrite the manifest's own version field within the header region.
//   - Rewrite the version of every lockfile block belonging to one named
//     package, leaving all other blocks byte-identical.
//   - Both rewrites are idempotent.
//
// Introspection:
//   - Parse the [package] table of a manifest.
//   - Resolve the primary binary target name via `cargo metadata`, behind an
//     interface so tests never need a real toolchain.
package cargo
