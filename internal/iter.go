// Package internal holds iterator helpers shared by the lc3 packages.
package internal

import (
	"iter"
)

// IterSeq2Concat yields every pair from each of seqs in turn.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// IterSeq2Collect gathers pairs into a map. Later keys replace earlier ones.
func IterSeq2Collect[K comparable, V any](seq iter.Seq2[K, V]) (out map[K]V) {
	out = map[K]V{}
	for key, value := range seq {
		out[key] = value
	}
	return
}
