// Package codec converts job records to and from their row-oriented
// storage representation.
//
// A scalar option becomes one row; each element of a string-list option
// becomes one row tagged with its position. Decoding reassembles lists by
// sorting on position, since relational reads are not guaranteed ordered.
// Rows with an unknown kind tag are skipped on decode so older binaries
// can read records written by newer ones.
package codec
