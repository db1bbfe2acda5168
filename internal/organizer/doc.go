// Package organizer materializes classified files into per-entity target
// trees.
//
// Each entity owns a TargetTree rooted at <target_root>/<entity name> with one
// subdirectory per category, created lazily on first use. The Materializer
// copies a source file into its category directory without ever overwriting
// an existing file: a name that is already taken gets a numeric suffix
// (bike.jpg, bike_1.jpg, bike_2.jpg, ...). A candidate whose content matches
// the source byte for byte is reused and reported as unchanged, which keeps
// repeated runs idempotent.
package organizer
