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

// Package search implements C3 (seed search), C4 (match sort/filter) and C9
// (HyperSort), the three chunk-local stages between index lookup and
// alignment extension.
package search

import (
	"github.com/shenwei356/blastcore/internal/errs"
	"github.com/shenwei356/blastcore/internal/model"
)

// Locus is one occurrence of a seed in the subject side of the index.
// RefIdx already carries the frame encoding (model.EncodeFrame) when the
// index was built over a translated/six-frame subject set.
type Locus struct {
	RefIdx int64
	Pos    int
	RC     bool
}

// Index is the abstract seed lookup the searcher consumes, generalizing
// the teacher's concrete LexicHash k-mer-value store (lib-index-search.go's
// Index.Search) behind an interface so C3 never depends on one particular
// index implementation.
type Index interface {
	Lookup(seed []byte) ([]Locus, error)
}

// SeedOptions configures the seed slide.
type SeedOptions struct {
	SeedLength int
	SeedOffset int // stride between seed starts; <= 0 means 1
	MaxPerSeed int // truncate loci beyond this count; <= 0 means unbounded
}

// SeedSearcher slides seeds of SeedOptions.SeedLength across a query and
// appends a model.Match for every returned locus.
type SeedSearcher struct {
	Index   Index
	Options SeedOptions
}

// NewSeedSearcher builds a searcher bound to one index.
func NewSeedSearcher(idx Index, opt SeedOptions) *SeedSearcher {
	return &SeedSearcher{Index: idx, Options: opt}
}

// Search slides seeds across query (already in its searched alphabet,
// translated and/or reduced by the caller) and appends matches to dst,
// returning the grown slice. qryID already carries any frame encoding.
//
// The returned match vector is a superset of the true seeds up to
// MaxPerSeed; it is not sorted. A corrupt-index read from the underlying
// Index surfaces as an *errs.IndexError, per spec §4.3's failure mode.
func (s *SeedSearcher) Search(qryID int64, query []byte, dst []model.Match) ([]model.Match, error) {
	L := s.Options.SeedLength
	if L <= 0 || L > len(query) {
		return dst, nil
	}

	step := s.Options.SeedOffset
	if step <= 0 {
		step = 1
	}

	cap := s.Options.MaxPerSeed

	for start := 0; start+L <= len(query); start += step {
		seed := query[start : start+L]

		loci, err := s.Index.Lookup(seed)
		if err != nil {
			return dst, &errs.IndexError{Dir: "seed lookup", Err: err}
		}
		if cap > 0 && len(loci) > cap {
			loci = loci[:cap]
		}

		for _, l := range loci {
			dst = append(dst, model.Match{
				QryID:     qryID,
				SubjID:    l.RefIdx,
				QryStart:  start,
				SubjStart: l.Pos,
				Length:    L,
			})
		}
	}

	return dst, nil
}
