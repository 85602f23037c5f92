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

import (
	"sort"

	"github.com/shenwei356/blastcore/internal/model"
)

// AbundanceMode selects how filterAbundants (step 4) reacts to a
// (trueQryId, trueSubjId) pair whose match count exceeds
// AbundantThreshold. The original source supports both, gated by a runtime
// flag, per spec's supplemented features. AbundanceDrop is the zero value,
// so it applies whenever Mode is left unset.
type AbundanceMode int

const (
	// AbundanceDrop discards the whole pair once it crosses the threshold
	// ("--filter-putative-abundant" strict mode).
	AbundanceDrop AbundanceMode = iota
	// AbundanceTopScoring keeps only the AbundantThreshold longest
	// matches for the pair, instead of dropping it outright.
	AbundanceTopScoring
)

// FilterOptions configures the four C4 steps. Steps 1 and 2 (sort and
// dedup) always run and have no option; steps 3 and 4 run only when their
// flag/threshold says so. All four operate in place on the chunk slice
// passed to SortAndFilter.
type FilterOptions struct {
	// MergeSiblings enables step 3.
	MergeSiblings bool
	// SiblingGap is the maximum gap between a match's subject start and
	// the previous match's subject end for the two to be considered
	// siblings on the same diagonal (delta in spec §4.4 step 3).
	SiblingGap int
	// DiagonalTolerance is how far the (subjStart - qryStart) diagonal is
	// allowed to drift between siblings.
	DiagonalTolerance int

	// AbundantThreshold enables step 4 when > 0: pairs with more than
	// this many matches are filtered per Mode.
	AbundantThreshold int
	Mode              AbundanceMode

	// QFrames/SFrames decode the frame-encoded ids back to the true
	// query/subject id for abundant-pair grouping (model.DecodeFrame).
	QFrames int
	SFrames int
}

// SortAndFilter runs the four C4 steps in order (sort and dedup always,
// sibling merging and abundant filtering only when enabled in opt), and
// returns the filtered slice (which aliases/reuses matches' backing
// array — no cross-chunk state is touched).
func SortAndFilter(matches []model.Match, opt FilterOptions) []model.Match {
	matches = sortAndDedup(matches)

	if opt.MergeSiblings {
		matches = mergeSiblings(matches, opt.SiblingGap, opt.DiagonalTolerance)
	}

	if opt.AbundantThreshold > 0 {
		matches = filterAbundants(matches, opt)
	}

	return matches
}

// step 1 + 2: sort by key tuple, drop consecutive duplicates.
func sortAndDedup(matches []model.Match) []model.Match {
	sort.Slice(matches, func(i, j int) bool { return matches[i].Less(matches[j]) })

	if len(matches) < 2 {
		return matches
	}

	j := 1
	for i := 1; i < len(matches); i++ {
		if matches[i].SameKey(matches[j-1]) {
			continue
		}
		matches[j] = matches[i]
		j++
	}
	return matches[:j]
}

func diagonal(m model.Match) int { return m.SubjStart - m.QryStart }

// step 3: consecutive matches with the same (qryId, subjId) on
// (approximately) the same diagonal, whose subject ranges are within
// SiblingGap of each other, collapse into one longer seed spanning both.
func mergeSiblings(matches []model.Match, gap, diagTol int) []model.Match {
	if len(matches) < 2 {
		return matches
	}

	out := matches[:1]
	for i := 1; i < len(matches); i++ {
		cur := matches[i]
		prev := &out[len(out)-1]

		sameQS := cur.QryID == prev.QryID && cur.SubjID == prev.SubjID
		prevSubjEnd := prev.SubjStart + prev.Length
		withinGap := sameQS && cur.SubjStart-prevSubjEnd <= gap && cur.SubjStart >= prev.SubjStart
		sameDiag := sameQS && abs(diagonal(cur)-diagonal(*prev)) <= diagTol

		if withinGap && sameDiag {
			curSubjEnd := cur.SubjStart + cur.Length
			if curSubjEnd > prevSubjEnd {
				prev.Length = curSubjEnd - prev.SubjStart
			}
			continue
		}

		out = append(out, cur)
	}

	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

type pairKey struct {
	trueQryID  int64
	trueSubjID int64
}

// step 4: group by the true (query, subject) pair and apply Mode to any
// group over AbundantThreshold.
func filterAbundants(matches []model.Match, opt FilterOptions) []model.Match {
	groups := make(map[pairKey][]int, 16) // pairKey -> indices into matches
	for i, m := range matches {
		tq, _ := model.DecodeFrame(m.QryID, max1(opt.QFrames))
		ts, _ := model.DecodeFrame(m.SubjID, max1(opt.SFrames))
		k := pairKey{trueQryID: tq, trueSubjID: ts}
		groups[k] = append(groups[k], i)
	}

	keep := make([]bool, len(matches))
	for _, idxs := range groups {
		if len(idxs) <= opt.AbundantThreshold {
			for _, i := range idxs {
				keep[i] = true
			}
			continue
		}

		switch opt.Mode {
		case AbundanceDrop:
			// none kept
		case AbundanceTopScoring:
			sort.Slice(idxs, func(a, b int) bool {
				return matches[idxs[a]].Length > matches[idxs[b]].Length
			})
			n := opt.AbundantThreshold
			if n > len(idxs) {
				n = len(idxs)
			}
			for _, i := range idxs[:n] {
				keep[i] = true
			}
		}
	}

	out := matches[:0]
	for i, m := range matches {
		if keep[i] {
			out = append(out, m)
		}
	}
	return out
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
