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

package suffixarray

import "github.com/shenwei356/blastcore/internal/model"

// Less is the C1 suffix comparator: a total order on suffix positions of a
// string-set. It compares suffix S[a.Seq][a.Offset+offset:] against
// S[b.Seq][b.Offset+offset:].
//
// Tie-break rule (spec §4.1): if one suffix is a strict prefix of the
// other, the shorter one is less, EXCEPT when both run out of content at
// the same position (the remaining bytes are identical all the way to the
// end of both) — in that case the suffix belonging to the higher sequence
// index compares less. This mirrors index_sa_sort.h's
// AdvancedSuffixLess_<StringSet> specialization exactly, including its
// a==b short-circuit.
//
// Less never invokes a side-effecting callback: progress is reported by
// the caller (C2) at bucket boundaries only, per the REDESIGN FLAGS
// decision to decouple a pure order from progress reporting.
func Less(text *StringSet, a, b model.SAValue, offset int32) bool {
	if a == b {
		return false
	}

	lenA := text.Len(a.Seq) - a.Offset - offset
	lenB := text.Len(b.Seq) - b.Offset - offset

	// Nothing left to compare beyond the shared offset: C2 calls this with
	// offset = L, which exceeds the remaining length of suffixes shorter
	// than L that share all of their content (e.g. two identical short
	// sequences), so treat a non-positive remaining length as the empty
	// suffix.
	if lenA <= 0 {
		lenA = 0
	}
	if lenB <= 0 {
		lenB = 0
	}

	ia, ib := a.Offset+offset, b.Offset+offset
	var i int32
	n := lenA
	if lenB < n {
		n = lenB
	}
	for i = 0; i < n; i++ {
		ca := text.At(a.Seq, ia+i)
		cb := text.At(b.Seq, ib+i)
		if ca < cb {
			return true
		}
		if cb < ca {
			return false
		}
	}

	if lenA < lenB {
		return true
	}
	if lenA > lenB {
		return false
	}

	// Equal length and equal content for the entire remaining suffixes:
	// tie-break by descending sequence index.
	return a.Seq > b.Seq
}
