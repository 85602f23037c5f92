// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package suffixarray implements C1 (the suffix comparator) and C2 (the
// bucketed parallel suffix-array builder) over a concatenated string-set,
// grounded on the original implementation's index_sa_sort.h
// (AdvancedSuffixLess_ and the q-gram/bucket two-phase createSuffixArray).
package suffixarray

// StringSet is a concatenated multi-sequence text, the alphabet over which
// the suffix array is built. Ordering within a sequence follows ordLess on
// the byte values directly (bytes are compared numerically).
type StringSet struct {
	seqs [][]byte
}

// NewStringSet wraps a slice of sequences. The caller retains ownership;
// StringSet never mutates its input.
func NewStringSet(seqs [][]byte) *StringSet {
	return &StringSet{seqs: seqs}
}

// NumSeqs returns the number of sequences in the set.
func (s *StringSet) NumSeqs() int { return len(s.seqs) }

// Len returns the length of sequence i.
func (s *StringSet) Len(i int32) int32 { return int32(len(s.seqs[i])) }

// At returns the byte at (seq, offset).
func (s *StringSet) At(seq, offset int32) byte { return s.seqs[seq][offset] }

// AlphabetSize scans the full string set and returns the number of
// distinct byte values present, used to choose the initial prefix length L
// (spec §4.2 step 2).
func (s *StringSet) AlphabetSize() int {
	var seen [256]bool
	n := 0
	for _, seq := range s.seqs {
		for _, b := range seq {
			if !seen[b] {
				seen[b] = true
				n++
			}
		}
	}
	return n
}

// TotalPositions is the number of valid (s,o) suffix positions in the set,
// i.e. the sum of sequence lengths.
func (s *StringSet) TotalPositions() int64 {
	var n int64
	for _, seq := range s.seqs {
		n += int64(len(seq))
	}
	return n
}
