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

// Package model holds the data types shared across the search pipeline:
// suffix positions, seed matches, gapped alignment results and the
// process-wide / per-worker holders.
package model

import "fmt"

// SAValue is a suffix position in a (possibly multi-sequence) text.
// For a single string, Seq is always 0.
type SAValue struct {
	Seq    int32 // sequence index in the string set
	Offset int32 // offset within that sequence
}

func (v SAValue) String() string {
	return fmt.Sprintf("(%d,%d)", v.Seq, v.Offset)
}

// Match is a raw seed hit between a query and a subject, before extension.
//
// QryID and SubjID carry the frame encoding described in spec §3:
// id == trueID*nFrames + frame. Use DecodeFrame to recover the pair.
type Match struct {
	QryID  int64
	SubjID int64

	QryStart  int
	SubjStart int
	Length    int // seed length prior to extension
}

// Less orders matches by (QryID, SubjID, SubjStart, QryStart), the order
// required after C4's sort step.
func (m Match) Less(o Match) bool {
	if m.QryID != o.QryID {
		return m.QryID < o.QryID
	}
	if m.SubjID != o.SubjID {
		return m.SubjID < o.SubjID
	}
	if m.SubjStart != o.SubjStart {
		return m.SubjStart < o.SubjStart
	}
	return m.QryStart < o.QryStart
}

// SameKey reports whether two matches share the sort key tuple, used by
// the C4 dedup step.
func (m Match) SameKey(o Match) bool {
	return m.QryID == o.QryID && m.SubjID == o.SubjID &&
		m.SubjStart == o.SubjStart && m.QryStart == o.QryStart
}

// EncodeFrame folds a true id and a frame (0..nFrames-1) into the combined
// id used by Match.QryID/SubjID.
func EncodeFrame(trueID int64, frame, nFrames int) int64 {
	return trueID*int64(nFrames) + int64(frame)
}

// DecodeFrame splits a combined id back into (trueID, frame).
func DecodeFrame(id int64, nFrames int) (trueID int64, frame int) {
	n := int64(nFrames)
	return id / n, int(id % n)
}

// BlastMatch is a fully scored, gapped local alignment ready for output.
// It is created after extension and discarded if it fails the e-value
// threshold.
type BlastMatch struct {
	SubjID int64 // true (frame-decoded) subject id, indexes GlobalHolder.Subjects

	QryRow  []byte // gapped query row
	SubjRow []byte // gapped subject row
	Cigar   string

	RawScore int
	EValue   float64
	BitScore float64

	Identities int
	Mismatches int
	Gaps       int
	AlignLen   int

	QryStart, QryEnd   int
	SubjStart, SubjEnd int
	Strand             byte // '+' or '-'

	TaxIDs []uint32 // optional, populated by C7
}

// Stats are the integer counters accumulated per worker and summed at
// shutdown (spec §3 Stats / §5 "sum-reduced").
type Stats struct {
	HitCount             uint64
	ExtensionCount       uint64
	SuccessfulExtensions uint64

	TimeSeeding   int64 // nanoseconds
	TimeExtending int64
	TimeScoring   int64
}

// Add accumulates o's counters into s.
func (s *Stats) Add(o Stats) {
	s.HitCount += o.HitCount
	s.ExtensionCount += o.ExtensionCount
	s.SuccessfulExtensions += o.SuccessfulExtensions
	s.TimeSeeding += o.TimeSeeding
	s.TimeExtending += o.TimeExtending
	s.TimeScoring += o.TimeScoring
}
