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

// Package pipeline implements C8, the driver that ties C1-C7 and C9
// together into the per-chunk worker loop described in spec §4.8.
package pipeline

import (
	"sync"

	"github.com/shenwei356/blastcore/internal/align"
	"github.com/shenwei356/blastcore/internal/model"
	"github.com/shenwei356/blastcore/internal/search"
	"github.com/shenwei356/blastcore/internal/stats"
	"github.com/shenwei356/blastcore/internal/taxonomy"
)

// Query is one sequence submitted for searching, already in the alphabet
// (possibly translated/reduced) that the index was built over. ID carries
// the frame encoding when QFrames > 1 (model.EncodeFrame).
type Query struct {
	ID         int64
	Name       string
	Seq        []byte
	TrueLen    int // length before frame translation, for e-value scaling
	Translated bool
	TaxID      uint32 // 0 if unknown/unclassified
}

// GlobalHolder is the process-wide, read-mostly state every worker shares:
// the index, the subject sequences (keyed by trueSubjID), the taxonomy and
// scoring scheme, and the serialized output sink. It is created once at
// startup and never mutated by workers except through the Write callback's
// own critical section.
type GlobalHolder struct {
	Index    search.Index
	Subjects [][]byte // Subjects[trueSubjID] is that subject's sequence
	SubjTaxID []uint32 // SubjTaxID[trueSubjID], optional (nil if untaxonomied)

	Taxonomy *taxonomy.Tree // nil disables C7 annotation

	Scheme        stats.Scheme
	DBTotalLength int

	QFrames int
	SFrames int

	// Write is invoked once per emitted BlastMatch, serialized by writeMu
	// (the "write via external writer under a critical section" step of
	// spec §4.8.4). It must not be nil.
	Write func(queryName string, m *model.BlastMatch) error

	writeMu sync.Mutex
}

func (g *GlobalHolder) write(queryName string, m *model.BlastMatch) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	return g.Write(queryName, m)
}

// LocalHolder is the per-worker, exclusively-owned scratch state: the seed
// searcher, the aligner and its reusable DP buffers, the band-size and
// e-value caches, and this worker's running stats. Driver.Run creates a
// fresh one for each chunk it runs; a LocalHolder is not reused across
// chunks, so its caches and buffers start empty for every chunk.
type LocalHolder struct {
	Searcher      *search.SeedSearcher
	FilterOptions search.FilterOptions
	UseHyperSort  bool

	Aligner    *align.Aligner
	BandOption int
	BandCache  *align.BandCache

	Evaluator *stats.Evaluator

	Stats model.Stats

	matchBuf []model.Match // reused across queries within a chunk
}

// NewLocalHolder builds a worker's scratch state against the shared index
// and scoring configuration.
func NewLocalHolder(global *GlobalHolder, seedOpt search.SeedOptions, filterOpt search.FilterOptions, alignOpt align.Options, bandOption int, useHyperSort bool) *LocalHolder {
	return &LocalHolder{
		Searcher:      search.NewSeedSearcher(global.Index, seedOpt),
		FilterOptions: filterOpt,
		UseHyperSort:  useHyperSort,
		Aligner:       align.NewAligner(alignOpt),
		BandOption:    bandOption,
		BandCache:     align.NewBandCache(bandOption),
		Evaluator:     stats.NewEvaluator(global.DBTotalLength, global.Scheme),
		matchBuf:      make([]model.Match, 0, 256),
	}
}
