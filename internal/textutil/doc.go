// Package textutil provides text processing utilities for filename tokens and
// filename sanitization.
//
// The primary use cases are:
//   - Folding filenames (NFC plus Unicode case folding) for keyword matching
//   - Splitting filenames into tokens on separators and camelCase boundaries
//   - Sanitizing names and stripping parenthetical suffixes for safe paths
package textutil
