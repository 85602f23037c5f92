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

package align

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S5: band selection.
func TestBandSize(t *testing.T) {
	require.Equal(t, 10, BandSize(-3, 1024))
	require.Equal(t, 10, BandSize(-2, 100))
	require.Equal(t, Unbounded, BandSize(-1, 100))
	require.Equal(t, 7, BandSize(7, 5))
}

func TestBandCache_Memoizes(t *testing.T) {
	c := NewBandCache(-3)
	got := c.Get(1024)
	require.Equal(t, 10, got)

	c.m[1024] = 999 // poison the cache entry directly
	require.Equal(t, 999, c.Get(1024), "Get must return the memoized value, not recompute")
}

func TestAligner_Local_ExactMatch(t *testing.T) {
	alg := NewAligner(DefaultOptions)
	a := []byte("ACGTACGTAC")
	b := []byte("ACGTACGTAC")

	r := alg.Local(a, b, Unbounded)
	defer RecycleResult(r)

	require.Equal(t, len(a), r.Score)
	require.Equal(t, len(a), r.Matches)
	require.Zero(t, r.Mismatches)
	require.Zero(t, r.Gaps)
	require.Equal(t, 0, r.QryStart)
	require.Equal(t, len(a), r.QryEnd)
	require.Equal(t, "10M", r.CIGAR())
}

func TestAligner_Local_EmbeddedMatch(t *testing.T) {
	alg := NewAligner(DefaultOptions)
	// a flanking mismatch on both sides of an exact run should not be
	// included, since free end-gaps let the traceback start/stop exactly
	// at the high-scoring core.
	a := []byte("TTTT" + "ACGTACGTAC" + "TTTT")
	b := []byte("GGGG" + "ACGTACGTAC" + "GGGG")

	r := alg.Local(a, b, Unbounded)
	defer RecycleResult(r)

	require.Equal(t, 10, r.Score)
	require.Equal(t, "ACGTACGTAC", string(r.AlignA))
	require.Equal(t, "ACGTACGTAC", string(r.AlignB))
}

func TestAligner_Local_GapInMiddle(t *testing.T) {
	alg := NewAligner(DefaultOptions)
	a := []byte("ACGTACGT")
	b := []byte("ACGTTACGT") // one extra T inserted into b

	r := alg.Local(a, b, Unbounded)
	defer RecycleResult(r)

	require.Greater(t, r.Gaps, 0)
	require.Equal(t, len(a), r.Matches)
}

func TestAligner_Local_NoSimilarity(t *testing.T) {
	alg := NewAligner(DefaultOptions)
	a := []byte("AAAAAAAA")
	b := []byte("CCCCCCCC")

	r := alg.Local(a, b, Unbounded)
	defer RecycleResult(r)

	require.Zero(t, r.Score)
}

func TestAligner_Local_ReusesBuffers(t *testing.T) {
	alg := NewAligner(DefaultOptions)
	short := alg.Local([]byte("AC"), []byte("AC"), Unbounded)
	RecycleResult(short)

	long := alg.Local([]byte("ACGTACGTACGTACGTACGT"), []byte("ACGTACGTACGTACGTACGT"), Unbounded)
	defer RecycleResult(long)
	require.Equal(t, 20, long.Score)
}
