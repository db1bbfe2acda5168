// Package preflight provides readiness checks for the filesystem paths a
// mediasort run depends on.
//
// The pipeline calls RunAll before any stage touches files. A failed check is
// a configuration problem and aborts the run: a source root that cannot be
// read or a target root that cannot be written would otherwise fail every
// file individually.
package preflight
