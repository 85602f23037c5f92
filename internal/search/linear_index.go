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

package search

// LinearIndex is a minimal, wholly in-memory Index: an exact k-mer hash
// table built once over every subject sequence. On-disk index formats are
// out of scope (spec §1 delegates them to an abstract Index); this is the
// stand-in used until a concrete on-disk reader replaces it, kept simple
// enough to reason about directly.
type LinearIndex struct {
	seedLen int
	table   map[string][]Locus
}

// NewLinearIndex builds the k-mer table once, for exactly seedLen, over
// every subject sequence (forward strand only; reverse-complement seeding
// is a caller concern upstream of the index, folded into SubjID via the
// frame encoding).
func NewLinearIndex(subjects [][]byte, seedLen int) *LinearIndex {
	idx := &LinearIndex{seedLen: seedLen, table: make(map[string][]Locus)}
	for refIdx, subj := range subjects {
		for i := 0; i+seedLen <= len(subj); i++ {
			key := string(subj[i : i+seedLen])
			idx.table[key] = append(idx.table[key], Locus{RefIdx: int64(refIdx), Pos: i})
		}
	}
	return idx
}

func (idx *LinearIndex) Lookup(seed []byte) ([]Locus, error) {
	if idx.seedLen != len(seed) {
		return nil, nil
	}
	return idx.table[string(seed)], nil
}
