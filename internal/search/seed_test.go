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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/shenwei356/blastcore/internal/errs"
)

type fakeIndex struct {
	loci map[string][]Locus
	err  error
}

func (f *fakeIndex) Lookup(seed []byte) ([]Locus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loci[string(seed)], nil
}

func TestSeedSearcher_Search(t *testing.T) {
	idx := &fakeIndex{loci: map[string][]Locus{
		"ACGT": {{RefIdx: 7, Pos: 100}, {RefIdx: 8, Pos: 200}},
	}}
	s := NewSeedSearcher(idx, SeedOptions{SeedLength: 4, SeedOffset: 4})

	got, err := s.Search(1, []byte("ACGTACGT"), nil)
	require.NoError(t, err)
	require.Len(t, got, 4) // two seed windows, two loci each

	require.EqualValues(t, 1, got[0].QryID)
	require.EqualValues(t, 7, got[0].SubjID)
	require.Equal(t, 0, got[0].QryStart)
	require.Equal(t, 100, got[0].SubjStart)
}

func TestSeedSearcher_TruncatesAtMaxPerSeed(t *testing.T) {
	idx := &fakeIndex{loci: map[string][]Locus{
		"AA": {{RefIdx: 1}, {RefIdx: 2}, {RefIdx: 3}},
	}}
	s := NewSeedSearcher(idx, SeedOptions{SeedLength: 2, SeedOffset: 2, MaxPerSeed: 1})

	got, err := s.Search(0, []byte("AA"), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestSeedSearcher_WrapsIndexError(t *testing.T) {
	idx := &fakeIndex{err: errors.New("corrupt seeds file")}
	s := NewSeedSearcher(idx, SeedOptions{SeedLength: 2})

	_, err := s.Search(0, []byte("AA"), nil)
	require.Error(t, err)
	var idxErr *errs.IndexError
	require.ErrorAs(t, err, &idxErr)
}
