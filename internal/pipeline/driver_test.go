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
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/blastcore/internal/align"
	"github.com/shenwei356/blastcore/internal/model"
	"github.com/shenwei356/blastcore/internal/search"
	"github.com/shenwei356/blastcore/internal/stats"
)

// kmerIndex is a minimal in-memory search.Index over one subject sequence,
// used only to exercise the driver end to end.
type kmerIndex struct {
	seedLen int
	subject []byte
}

func (k *kmerIndex) Lookup(seed []byte) ([]search.Locus, error) {
	var loci []search.Locus
	for i := 0; i+len(seed) <= len(k.subject); i++ {
		if string(k.subject[i:i+len(seed)]) == string(seed) {
			loci = append(loci, search.Locus{RefIdx: 0, Pos: i})
		}
	}
	return loci, nil
}

// S6: one query of length 30, one subject of length 100, seed length 10,
// one exact 15-mer match embedded at subject offset 42. Expect exactly one
// emitted record with identities=15.
func TestDriver_Run_S6(t *testing.T) {
	embedded := []byte("ACGTTGCATGCATGC") // 15 bases
	require.Len(t, embedded, 15)

	// Flank the embedded 15-mer with distinct filler characters on the
	// query and subject sides, so the free-end-gap local alignment can't
	// spuriously extend past the true match by aligning identical filler
	// runs on both sides.
	subject := make([]byte, 100)
	for i := range subject {
		subject[i] = 'T'
	}
	copy(subject[42:], embedded)

	query := make([]byte, 30)
	for i := range query {
		query[i] = 'A'
	}
	copy(query[8:], embedded) // embed the same 15-mer in the query too

	idx := &kmerIndex{seedLen: 10, subject: subject}

	var mu sync.Mutex
	var written []*model.BlastMatch
	global := &GlobalHolder{
		Index:         idx,
		Subjects:      [][]byte{subject},
		Scheme:        stats.DefaultNucleotideScheme,
		DBTotalLength: len(subject),
		QFrames:       1,
		SFrames:       1,
		Write: func(name string, m *model.BlastMatch) error {
			mu.Lock()
			defer mu.Unlock()
			written = append(written, m)
			return nil
		},
	}

	queries := []Query{
		{ID: 0, Name: "q1", Seq: query, TrueLen: len(query)},
	}

	opt := DriverOptions{
		NumWorkers:      2,
		BlockSize:       1,
		SeedOptions:     search.SeedOptions{SeedLength: 10, SeedOffset: 1},
		FilterOptions:   search.FilterOptions{QFrames: 1, SFrames: 1, MergeSiblings: true, SiblingGap: 0, DiagonalTolerance: 0},
		AlignOptions:    align.DefaultOptions,
		BandOption:      -1,
		ExtensionFlank:  20,
		MinRawScore:     1,
		EValueThreshold: 10,
	}

	d := &Driver{}
	total, err := d.Run(context.Background(), queries, global, opt)
	require.NoError(t, err)
	require.Greater(t, total.HitCount, uint64(0))
	require.Greater(t, total.SuccessfulExtensions, uint64(0))

	// the 6 overlapping sliding-window seeds over the embedded 15-mer all
	// share one diagonal and merge into a single sibling before extension,
	// so exactly one record is emitted for the one true match.
	require.Len(t, written, 1)
	require.Equal(t, 15, written[0].Identities)
}

// TestDriver_Run_DeterministicAcrossWorkerCounts runs the same chunked
// query set through Driver.Run with different worker counts and checks the
// emitted match set is the same regardless, since nothing in the pipeline
// (chunk partitioning aside) should depend on how many goroutines claim
// chunks.
func TestDriver_Run_DeterministicAcrossWorkerCounts(t *testing.T) {
	embeddedA := []byte("ACGTTGCATGCATGC")
	embeddedB := []byte("TTGGCCAAGGTTCCA")

	subject := make([]byte, 200)
	for i := range subject {
		subject[i] = 'G'
	}
	copy(subject[20:], embeddedA)
	copy(subject[120:], embeddedB)

	idx := &kmerIndex{seedLen: 10, subject: subject}

	makeQuery := func(id int64, name string, flankByte byte, embedded []byte, offset int) Query {
		q := make([]byte, 30)
		for i := range q {
			q[i] = flankByte
		}
		copy(q[offset:], embedded)
		return Query{ID: id, Name: name, Seq: q, TrueLen: len(q)}
	}

	queries := []Query{
		makeQuery(0, "q1", 'C', embeddedA, 8),
		makeQuery(1, "q2", 'A', embeddedB, 5),
		makeQuery(2, "q3", 'T', embeddedA, 10),
	}

	run := func(numWorkers int) []*model.BlastMatch {
		var mu sync.Mutex
		var written []*model.BlastMatch
		global := &GlobalHolder{
			Index:         idx,
			Subjects:      [][]byte{subject},
			Scheme:        stats.DefaultNucleotideScheme,
			DBTotalLength: len(subject),
			QFrames:       1,
			SFrames:       1,
			Write: func(name string, m *model.BlastMatch) error {
				mu.Lock()
				defer mu.Unlock()
				written = append(written, m)
				return nil
			},
		}

		opt := DriverOptions{
			NumWorkers:      numWorkers,
			BlockSize:       1,
			SeedOptions:     search.SeedOptions{SeedLength: 10, SeedOffset: 1},
			FilterOptions:   search.FilterOptions{QFrames: 1, SFrames: 1, MergeSiblings: true},
			AlignOptions:    align.DefaultOptions,
			BandOption:      -1,
			ExtensionFlank:  20,
			MinRawScore:     1,
			EValueThreshold: 10,
		}

		d := &Driver{}
		_, err := d.Run(context.Background(), queries, global, opt)
		require.NoError(t, err)

		sort.Slice(written, func(i, j int) bool {
			if written[i].SubjStart != written[j].SubjStart {
				return written[i].SubjStart < written[j].SubjStart
			}
			return written[i].QryStart < written[j].QryStart
		})
		return written
	}

	onWorker := run(1)
	fourWorkers := run(4)

	require.Len(t, onWorker, 3)
	require.Len(t, fourWorkers, 3)
	for i := range onWorker {
		require.Equal(t, onWorker[i].SubjStart, fourWorkers[i].SubjStart)
		require.Equal(t, onWorker[i].QryStart, fourWorkers[i].QryStart)
		require.Equal(t, onWorker[i].Identities, fourWorkers[i].Identities)
		require.Equal(t, onWorker[i].RawScore, fourWorkers[i].RawScore)
	}
}

func TestProgressTokens(t *testing.T) {
	require.Equal(t, "", progressTokens(0))
	require.Equal(t, ".", progressTokens(2))
	require.Equal(t, "....:", progressTokens(10))
	require.Contains(t, progressTokens(50), "|")
}
