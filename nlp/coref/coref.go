// Package coref partitions a document's mentions into coreference clusters.
//
// A Pipeline runs an ordered list of sieves, most precise first, against one
// Registry per document. Every sieve sees the merges made by the sieves
// before it; none of them runs twice.
package coref

import "errors"

var (
	// ErrInvariant marks a broken partition. It is only ever raised through a
	// panic.
	ErrInvariant = errors.New("coref: partition invariant violated")

	ErrNilMention       = errors.New("coref: nil mention")
	ErrDuplicateMention = errors.New("coref: duplicate mention")
	ErrUnknownSieve     = errors.New("coref: unknown sieve")
	ErrDuplicateSieve   = errors.New("coref: sieve listed twice")
)
