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

// Package align implements C5: a banded Smith-Waterman local aligner with
// free end-gaps, extending a seed match outward in both directions.
//
// It is adapted from the teacher's Needleman-Wunsch global aligner
// (index/align/nw.go): the reusable score/pointer buffers and the
// traceback-by-pointer-enum shape carry over unchanged, but the recurrence
// floors at zero (Smith-Waterman) instead of initializing the border rows
// to gap*i/gap*j, and the scan per row is restricted to a diagonal band
// instead of the full row.
package align

import "sync"

// Pointer records where a cell's score came from, for traceback.
type Pointer uint8

const (
	None Pointer = iota
	Top
	Left
	Mismatch
	Match
)

func (p Pointer) String() string {
	switch p {
	case Match:
		return "M"
	case Mismatch:
		return "X"
	case Top:
		return "I" // query base against a gap in the subject row, see CIGAR()
	case Left:
		return "D" // subject base against a gap in the query row
	}
	return "."
}

// Options carries the linear-gap scoring scheme for the banded aligner.
type Options struct {
	MatchScore    int
	MisMatchScore int
	GapScore int
}

// DefaultOptions mirrors the teacher's DefaultAlignOptions values.
var DefaultOptions = Options{
	MatchScore:    1,
	MisMatchScore: -1,
	GapScore:      -1,
}

// Aligner runs banded local alignments, reusing its score/pointer matrices
// across calls the way the teacher's Aligner does for its global alignment.
type Aligner struct {
	Options Options

	scores   []int
	pointers []Pointer
}

// NewAligner returns an aligner with its scratch buffers pre-sized.
func NewAligner(opt Options) *Aligner {
	return &Aligner{
		Options:  opt,
		scores:   make([]int, 4<<10),
		pointers: make([]Pointer, 4<<10),
	}
}

// Result holds one banded local alignment, in query/subject coordinates
// relative to the start of the a/b slices passed to Local.
type Result struct {
	Score int

	Matches    int
	Mismatches int
	Gaps       int

	QryStart, QryEnd   int // half-open, relative to a
	SubjStart, SubjEnd int // half-open, relative to b

	AlignA []byte // gapped query row
	AlignB []byte // gapped subject row

	trace []Pointer // raw traceback, oldest-to-newest after reversal, for CIGAR()
}

var poolResult = &sync.Pool{New: func() interface{} {
	return &Result{
		AlignA: make([]byte, 0, 256),
		AlignB: make([]byte, 0, 256),
		trace:  make([]Pointer, 0, 256),
	}
}}

// RecycleResult returns a Result to the pool after the caller is done with
// it (once it has been scored and either written out or discarded).
func RecycleResult(r *Result) {
	poolResult.Put(r)
}

func (r *Result) reset() {
	r.Score = 0
	r.Matches = 0
	r.Mismatches = 0
	r.Gaps = 0
	r.QryStart, r.QryEnd = 0, 0
	r.SubjStart, r.SubjEnd = 0, 0
	r.AlignA = r.AlignA[:0]
	r.AlignB = r.AlignB[:0]
	r.trace = r.trace[:0]
}

func idx(i, j, w int) int { return i*w + j }

func (alg *Aligner) ensureCapacity(n int) {
	if n <= len(alg.scores) {
		return
	}
	grow := n - len(alg.scores)
	for i := 0; i < grow; i++ {
		alg.scores = append(alg.scores, 0)
		alg.pointers = append(alg.pointers, None)
	}
}

// Local computes a banded local alignment of a against b, with the scan at
// row i restricted to columns [i-band, i+band]. Free end-gaps fall out of
// the Smith-Waterman recurrence itself: row/column 0 are zero-initialized
// (not gap*i/gap*j), and traceback starts at the single highest-scoring
// cell in the whole band rather than the bottom-right corner.
//
// The returned Result must be recycled with RecycleResult once the caller
// is finished with it.
func (alg *Aligner) Local(a, b []byte, band int) *Result {
	h := len(a) + 1
	w := len(b) + 1
	n := h * w
	alg.ensureCapacity(n)

	scores := alg.scores[:n]
	pointers := alg.pointers[:n]
	for i := range scores {
		scores[i] = 0
		pointers[i] = None
	}

	match := alg.Options.MatchScore
	mismatch := alg.Options.MisMatchScore
	gap := alg.Options.GapScore

	bestScore := 0
	bestI, bestJ := 0, 0

	for i := 1; i < h; i++ {
		lo := i - band
		if lo < 1 {
			lo = 1
		}
		hi := i + band
		if hi > w-1 {
			hi = w - 1
		}
		for j := lo; j <= hi; j++ {
			k := idx(i, j, w)

			mm := mismatch
			p := Mismatch
			if a[i-1] == b[j-1] {
				mm = match
				p = Match
			}

			best := scores[idx(i-1, j-1, w)] + mm
			if s := scores[idx(i-1, j, w)] + gap; s > best {
				best = s
				p = Top
			}
			if s := scores[idx(i, j-1, w)] + gap; s > best {
				best = s
				p = Left
			}
			if best <= 0 {
				best = 0
				p = None
			}

			scores[k] = best
			pointers[k] = p

			if best > bestScore {
				bestScore = best
				bestI, bestJ = i, j
			}
		}
	}

	r := poolResult.Get().(*Result)
	r.reset()
	r.Score = bestScore

	i, j := bestI, bestJ
	r.QryEnd, r.SubjEnd = i, j

	for p := pointers[idx(i, j, w)]; p != None; p = pointers[idx(i, j, w)] {
		switch p {
		case Mismatch:
			r.AlignA = append(r.AlignA, a[i-1])
			r.AlignB = append(r.AlignB, b[j-1])
			r.Mismatches++
			i--
			j--
		case Match:
			r.AlignA = append(r.AlignA, a[i-1])
			r.AlignB = append(r.AlignB, b[j-1])
			r.Matches++
			i--
			j--
		case Top:
			r.AlignA = append(r.AlignA, a[i-1])
			r.AlignB = append(r.AlignB, '-')
			r.Gaps++
			i--
		case Left:
			r.AlignA = append(r.AlignA, '-')
			r.AlignB = append(r.AlignB, b[j-1])
			r.Gaps++
			j--
		}
		r.trace = append(r.trace, p)
	}

	r.QryStart, r.SubjStart = i, j

	reverseBytes(r.AlignA)
	reverseBytes(r.AlignB)
	reversePointers(r.trace)

	return r
}

func reverseBytes(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reversePointers(s []Pointer) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// CIGAR renders the traceback as a standard CIGAR string with the query as
// the read and the subject as the reference (M for match/mismatch columns,
// I for a gap in the subject row i.e. a query insertion, D for a gap in the
// query row), run-length encoded.
func (r *Result) CIGAR() string {
	if len(r.trace) == 0 {
		return ""
	}

	var buf []byte
	runLen := 0
	var runOp byte

	opOf := func(p Pointer) byte {
		switch p {
		case Match, Mismatch:
			return 'M'
		case Top:
			return 'I'
		case Left:
			return 'D'
		}
		return 'M'
	}

	for _, p := range r.trace {
		op := opOf(p)
		if op == runOp {
			runLen++
			continue
		}
		if runLen > 0 {
			buf = appendRun(buf, runLen, runOp)
		}
		runOp = op
		runLen = 1
	}
	if runLen > 0 {
		buf = appendRun(buf, runLen, runOp)
	}

	return string(buf)
}

func appendRun(buf []byte, n int, op byte) []byte {
	buf = appendInt(buf, n)
	return append(buf, op)
}

func appendInt(buf []byte, n int) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	// reverse the digits just appended
	end := len(buf) - 1
	for i, j := start, end; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
