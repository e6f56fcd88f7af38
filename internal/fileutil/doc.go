// Package fileutil builds the export tree: an ordered, fully resolved view of a
// project directory with excluded entries removed.
//
// # Traversal rules
//
// Entries are tested against the exclusion rules in a fixed order, first match
// wins:
//
//  1. The base name is one of this run's own output files.
//  2. The base name follows a known output naming convention.
//  3. The base name starts with "." and hidden entries are not included.
//  4. The root-relative path matches a configured exclusion pattern.
//
// An excluded directory is never descended into. Symbolic links are listed but
// never followed.
//
// # Ordering
//
// Within each directory, subdirectories come first and then files; each group
// is sorted by name using byte-wise comparison. The order is deterministic and
// independent of how many subtrees were built in parallel.
//
// # Error tolerance
//
// Only an unusable root fails BuildTree. An unreadable subdirectory becomes a
// directory node with zero children and a *SubtreeAccessError in Tree.Errors; an
// entry that cannot be stat'ed is skipped with the same error type.
package fileutil
