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

package pipeline

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/shenwei356/blastcore/internal/align"
	"github.com/shenwei356/blastcore/internal/errs"
	"github.com/shenwei356/blastcore/internal/model"
	"github.com/shenwei356/blastcore/internal/search"
	"github.com/shenwei356/blastcore/internal/stats"
)

// DriverOptions configures one Driver.Run call (one searchMain invocation,
// spec §4.8).
type DriverOptions struct {
	NumWorkers int
	BlockSize  int // queries per chunk; <= 0 picks a default

	SeedOptions   search.SeedOptions
	FilterOptions search.FilterOptions
	AlignOptions  align.Options
	BandOption    int
	UseHyperSort  bool

	// ExtensionFlank is how many bases of context on each side of a seed
	// are handed to C5, bounding the DP matrix size independent of the
	// full sequence lengths.
	ExtensionFlank int

	MinRawScore     int
	EValueThreshold float64 // <= 0 disables the threshold

	// Progress receives an even percentage in [0,100] as chunks complete,
	// rendered by worker 0's progress meter (spec §4.8 step 5).
	Progress func(pct int)
}

// Driver runs the per-chunk pipeline against a GlobalHolder.
type Driver struct{}

// partition splits queries into contiguous blocks of at most blockSize.
func partition(queries []Query, blockSize int) [][]Query {
	if blockSize <= 0 {
		blockSize = 1
	}
	var chunks [][]Query
	for i := 0; i < len(queries); i += blockSize {
		end := i + blockSize
		if end > len(queries) {
			end = len(queries)
		}
		chunks = append(chunks, queries[i:end])
	}
	return chunks
}

// Run partitions queries into chunks and drives them through
// init -> C3 -> C4 -> (C9) -> C5 -> C6 -> C7 -> write, with NumWorkers
// goroutines claiming chunks dynamically via a semaphore-bounded
// errgroup (replacing the teacher's manual token-channel loop with the
// same bounded-concurrency semantics). Each chunk's stats are added to the
// running total under a mutex as soon as that chunk finishes.
func (d *Driver) Run(ctx context.Context, queries []Query, global *GlobalHolder, opt DriverOptions) (model.Stats, error) {
	workers := opt.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	blockSize := opt.BlockSize
	if blockSize <= 0 {
		blockSize = 1
		if n := len(queries) / (workers * 4); n > blockSize {
			blockSize = n
		}
	}
	flank := opt.ExtensionFlank
	if flank <= 0 {
		flank = 50
	}

	chunks := partition(queries, blockSize)
	nChunks := int64(len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	var statsMu sync.Mutex
	var total model.Stats
	var completed int64

	for _, chunk := range chunks {
		chunk := chunk

		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			lh := NewLocalHolder(global, opt.SeedOptions, opt.FilterOptions, opt.AlignOptions, opt.BandOption, opt.UseHyperSort)
			err := runChunk(chunk, global, lh, flank, opt.MinRawScore, opt.EValueThreshold)

			statsMu.Lock()
			total.Add(lh.Stats)
			statsMu.Unlock()

			if err != nil {
				return err
			}

			if opt.Progress != nil {
				n := atomic.AddInt64(&completed, 1)
				pct := int(n * 100 / nChunks)
				pct -= pct % 2 // rounded down to even percentages, spec §4.8 step 5
				opt.Progress(pct)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total, classify(err)
	}
	return total, nil
}

// classify maps an error surfacing from a chunk to one of the driver's
// catch sites (spec §7): out-of-memory, index corruption, or generic.
func classify(err error) error {
	switch err.(type) {
	case *errs.ResourceExhaustedError, *errs.IndexError:
		return err
	default:
		return &errs.Unclassified{Err: err}
	}
}

// runChunk processes one chunk of queries against the shared index and
// writes every surviving BlastMatch through global.write.
func runChunk(chunk []Query, global *GlobalHolder, lh *LocalHolder, flank, minRawScore int, eValueThreshold float64) error {
	for _, q := range chunk {
		lh.matchBuf = lh.matchBuf[:0]

		matches, err := lh.Searcher.Search(q.ID, q.Seq, lh.matchBuf)
		if err != nil {
			return err
		}
		lh.matchBuf = matches
		lh.Stats.HitCount += uint64(len(matches))

		matches = search.SortAndFilter(matches, lh.FilterOptions)

		if lh.UseHyperSort {
			matches, _ = search.HyperSort(matches, global.QFrames, global.SFrames)
		}

		for _, m := range matches {
			lh.Stats.ExtensionCount++

			bm, ok := extend(m, q, global, lh, flank)
			if !ok {
				continue
			}
			if bm.RawScore < minRawScore {
				continue
			}
			if eValueThreshold > 0 && bm.EValue > eValueThreshold {
				continue
			}

			lh.Stats.SuccessfulExtensions++
			annotate(global, q, m, bm)

			if err := global.write(q.Name, bm); err != nil {
				return err
			}
		}
	}
	return nil
}

// extend runs C5 over a flanking window around the seed, then C6 to score
// it. It returns ok=false if the seed's subject id falls outside the
// known subject set (a defensive guard, not an expected path).
func extend(m model.Match, q Query, global *GlobalHolder, lh *LocalHolder, flank int) (*model.BlastMatch, bool) {
	trueSubjID, frame := model.DecodeFrame(m.SubjID, max1(global.SFrames))
	if trueSubjID < 0 || int(trueSubjID) >= len(global.Subjects) {
		return nil, false
	}
	subject := global.Subjects[trueSubjID]

	qLo, qHi := window(m.QryStart, m.Length, len(q.Seq), flank)
	sLo, sHi := window(m.SubjStart, m.Length, len(subject), flank)

	qWin := q.Seq[qLo:qHi]
	sWin := subject[sLo:sHi]

	n := len(qWin)
	if len(sWin) > n {
		n = len(sWin)
	}
	band := lh.BandCache.Get(n)

	r := lh.Aligner.Local(qWin, sWin, band)
	defer align.RecycleResult(r)

	bm := &model.BlastMatch{
		SubjID:   trueSubjID,
		QryRow:   append([]byte(nil), r.AlignA...),
		SubjRow:  append([]byte(nil), r.AlignB...),
		Cigar:    r.CIGAR(),
		RawScore: r.Score,

		Identities: r.Matches,
		Mismatches: r.Mismatches,
		Gaps:       r.Gaps,
		AlignLen:   len(r.AlignA),

		QryStart:  qLo + r.QryStart,
		QryEnd:    qLo + r.QryEnd,
		SubjStart: sLo + r.SubjStart,
		SubjEnd:   sLo + r.SubjEnd,
		Strand:    strandOf(frame, global.SFrames),
	}

	bm.EValue = lh.Evaluator.EValue(bm.RawScore, q.TrueLen, q.Translated)
	bm.BitScore = stats.BitScore(bm.RawScore, global.Scheme)

	return bm, true
}

// window computes a flanking slice [lo,hi) around [start, start+length)
// clamped to [0, total).
func window(start, length, total, flank int) (int, int) {
	lo := start - flank
	if lo < 0 {
		lo = 0
	}
	hi := start + length + flank
	if hi > total {
		hi = total
	}
	return lo, hi
}

func strandOf(frame, nFrames int) byte {
	if nFrames > 1 && frame >= nFrames/2 {
		return '-'
	}
	return '+'
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// annotate fills bm.TaxIDs with the LCA of the query's and subject's taxa,
// when a taxonomy is configured. Annotation failures (a malformed
// taxonomy) are not fatal to the chunk: the match is still emitted, just
// without a taxonomic call.
func annotate(global *GlobalHolder, q Query, m model.Match, bm *model.BlastMatch) {
	if global.Taxonomy == nil || q.TaxID == 0 || global.SubjTaxID == nil {
		return
	}
	trueSubjID, _ := model.DecodeFrame(m.SubjID, max1(global.SFrames))
	if int(trueSubjID) >= len(global.SubjTaxID) {
		return
	}
	subjTax := global.SubjTaxID[trueSubjID]
	if subjTax == 0 {
		return
	}
	lca, err := global.Taxonomy.LCA(q.TaxID, subjTax)
	if err != nil {
		return
	}
	bm.TaxIDs = append(bm.TaxIDs, lca)
}
