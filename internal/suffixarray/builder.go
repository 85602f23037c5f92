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

import (
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"github.com/twotwotwo/sorts"
	"golang.org/x/sync/errgroup"

	"github.com/shenwei356/blastcore/internal/errs"
	"github.com/shenwei356/blastcore/internal/model"
)

// BuildOptions configures the C2 builder.
type BuildOptions struct {
	// NumWorkers bounds the parallelism of the coarse sort (via
	// sorts.MaxProcs) and the bucket-refinement phase. Defaults to
	// runtime.NumCPU() when <= 0.
	NumWorkers int

	// Progress is invoked with a percentage in [0,100], at most once after
	// the coarse sort and then once per completed bucket during
	// refinement, scaled to the bucket count. May be nil.
	Progress func(pct int)
}

// initialPrefixLength picks L from the alphabet size, spec §4.2 step 2.
func initialPrefixLength(sigma int) int32 {
	switch {
	case sigma <= 5:
		return 10
	case sigma < 10:
		return 3
	default:
		return 2
	}
}

// prefixSlice is a sort.Interface (and a github.com/twotwotwo/sorts
// Interface, which is the same shape) over SA entries, comparing only the
// first L bytes of each suffix — the coarse q-gram sort of spec §4.2 step
// 3. It is grounded directly on the teacher's Kmer2Locs pattern in
// gen-masks.go, which implements the identical three-method shape to feed
// sorts.Quicksort.
type prefixSlice struct {
	sa   []model.SAValue
	text *StringSet
	L    int32
}

func (p prefixSlice) Len() int      { return len(p.sa) }
func (p prefixSlice) Swap(i, j int) { p.sa[i], p.sa[j] = p.sa[j], p.sa[i] }
func (p prefixSlice) Less(i, j int) bool {
	return prefixOrderHelper(p.text, p.sa[i], p.sa[j], p.L)
}

// prefixOrderHelper re-derives a strict "differs within L" check so the
// coarse sort only orders by the L-prefix (ties broken arbitrarily, they
// get resolved in the refinement phase). Positions whose suffix is shorter
// than L are ordered by their shorter content, then by shortness,
// consistent with C1's prefix rule (spec §4.2 step 3).
func prefixOrderHelper(text *StringSet, a, b model.SAValue, L int32) bool {
	// This only needs to agree with Less on the first L characters (Less
	// also ranks the shorter of two suffixes with a common prefix first),
	// but it compares directly here rather than calling Less, so that it
	// never reads past L.
	lenA := text.Len(a.Seq) - a.Offset
	lenB := text.Len(b.Seq) - b.Offset
	na, nb := lenA, lenB
	if na > L {
		na = L
	}
	if nb > L {
		nb = L
	}
	n := na
	if nb < n {
		n = nb
	}
	var i int32
	for i = 0; i < n; i++ {
		ca := text.At(a.Seq, a.Offset+i)
		cb := text.At(b.Seq, b.Offset+i)
		if ca != cb {
			return ca < cb
		}
	}
	if na != nb {
		return na < nb
	}
	return false
}

// lPrefixEqual reports whether a and b share their first L bytes (or both
// run out of content at the same point within L).
func lPrefixEqual(text *StringSet, a, b model.SAValue, L int32) bool {
	lenA := text.Len(a.Seq) - a.Offset
	lenB := text.Len(b.Seq) - b.Offset
	na, nb := lenA, lenB
	if na > L {
		na = L
	}
	if nb > L {
		nb = L
	}
	if na != nb {
		return false
	}
	var i int32
	for i = 0; i < na; i++ {
		if text.At(a.Seq, a.Offset+i) != text.At(b.Seq, b.Offset+i) {
			return false
		}
	}
	return true
}

// Build runs the full C2 algorithm: identity fill, coarse L-prefix sort,
// bucket detection, and parallel per-bucket refinement with C1 offset by
// L. The returned slice is a strict total order under Less.
func Build(text *StringSet, opt BuildOptions) ([]model.SAValue, error) {
	workers := opt.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	total := text.TotalPositions()

	// 1. identity permutation, row-major over (s,o)
	sa := make([]model.SAValue, 0, total)
	for s := 0; s < text.NumSeqs(); s++ {
		n := text.Len(int32(s))
		for o := int32(0); o < n; o++ {
			sa = append(sa, model.SAValue{Seq: int32(s), Offset: o})
		}
	}
	if int64(len(sa)) != total {
		return nil, &errs.ResourceExhaustedError{Err: errors.New("failed to allocate the full suffix array")}
	}

	// 2. choose L
	L := initialPrefixLength(text.AlphabetSize())

	// 3. coarse parallel sort by L-prefix
	prevMaxProcs := sorts.MaxProcs
	sorts.MaxProcs = workers
	sorts.Quicksort(prefixSlice{sa: sa, text: text, L: L})
	sorts.MaxProcs = prevMaxProcs

	if opt.Progress != nil {
		opt.Progress(0)
	}

	// 4. bucket detection: boundaries are indices j where entry j's
	// L-prefix differs from entry j-1's.
	boundaries := make([]int, 0, len(sa)+1)
	boundaries = append(boundaries, 0)
	for j := 1; j < len(sa); j++ {
		if !lPrefixEqual(text, sa[j-1], sa[j], L) {
			boundaries = append(boundaries, j)
		}
	}
	boundaries = append(boundaries, len(sa))

	// 5. parallel bucket refinement; each bucket is sorted sequentially
	// (no nested parallelism) with C1 offset by L.
	nBuckets := len(boundaries) - 1
	g := new(errgroup.Group)
	g.SetLimit(workers)

	var completed int64Counter
	for bi := 0; bi < nBuckets; bi++ {
		lo, hi := boundaries[bi], boundaries[bi+1]
		if hi-lo < 2 {
			completed.incrAndReport(nBuckets, opt.Progress)
			continue
		}
		bucket := sa[lo:hi]
		g.Go(func() error {
			sort.Slice(bucket, func(i, j int) bool {
				return Less(text, bucket[i], bucket[j], L)
			})
			completed.incrAndReport(nBuckets, opt.Progress)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &errs.ResourceExhaustedError{Err: err}
	}

	return sa, nil
}
