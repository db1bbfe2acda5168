// Package classify assigns every discovered file exactly one category.
//
// Classification is a pure function of the filename: an ordered rule Table is
// evaluated top to bottom and the first matching Rule decides the Category.
// A name that matches several rows resolves to the highest-priority row, never
// to the row with the most keyword hits. Names that match nothing are Clean.
//
// The table is data. DefaultTable returns the shipped rows; WithKeywords and
// WithExtensions extend rows without reordering them, and Explain reports the
// row and keyword that fired so decisions can be audited from the CLI.
package classify
