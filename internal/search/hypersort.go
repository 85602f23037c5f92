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

// Interval is one contiguous run of matches sharing the same (trueQryId,
// trueSubjId) pair after frame-decoding, as produced by HyperSort.
type Interval struct {
	TrueQryID  int64
	TrueSubjID int64
	Start, End int // half-open bounds into the slice HyperSort was given
}

// HyperSort regroups matches into contiguous (trueQryId, trueSubjId)
// intervals — collapsing the frame encoding by integer division — then
// reorders those intervals by decreasing size while preserving the
// relative order of matches within each interval (a stable
// bucket-then-sort-by-size pass). It returns the reordered matches and the
// interval boundaries within that reordering. The driver (C8) ranges over
// the reordered flat slice and does not use the intervals.
func HyperSort(matches []model.Match, qFrames, sFrames int) ([]model.Match, []Interval) {
	if len(matches) == 0 {
		return matches, nil
	}

	type bucketed struct {
		key   pairKey
		items []model.Match
	}

	order := make([]pairKey, 0, 16)
	buckets := make(map[pairKey]*bucketed, 16)
	for _, m := range matches {
		tq, _ := model.DecodeFrame(m.QryID, max1(qFrames))
		ts, _ := model.DecodeFrame(m.SubjID, max1(sFrames))
		k := pairKey{trueQryID: tq, trueSubjID: ts}
		b, ok := buckets[k]
		if !ok {
			b = &bucketed{key: k}
			buckets[k] = b
			order = append(order, k)
		}
		b.items = append(b.items, m)
	}

	bucketList := make([]*bucketed, len(order))
	for i, k := range order {
		bucketList[i] = buckets[k]
	}
	sort.SliceStable(bucketList, func(i, j int) bool {
		return len(bucketList[i].items) > len(bucketList[j].items)
	})

	out := make([]model.Match, 0, len(matches))
	intervals := make([]Interval, 0, len(bucketList))
	for _, b := range bucketList {
		start := len(out)
		out = append(out, b.items...)
		intervals = append(intervals, Interval{
			TrueQryID:  b.key.trueQryID,
			TrueSubjID: b.key.trueSubjID,
			Start:      start,
			End:        len(out),
		})
	}

	return out, intervals
}
