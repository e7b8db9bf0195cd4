// Package internal holds helpers shared by the machine packages.
package internal

import (
	"iter"
)

// IterSeq2Concat yields the pairs of each sequence in turn, stopping as
// soon as the consumer does.
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

// IterSeq2Keys yields only the keys of a sequence.
func IterSeq2Keys[K any, V any](seq iter.Seq2[K, V]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range seq {
			if !yield(key) {
				return
			}
		}
	}
}
