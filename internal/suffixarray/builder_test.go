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

package suffixarray

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/blastcore/internal/model"
)

// S1: SA of "banana".
func TestBuild_Banana(t *testing.T) {
	text := NewStringSet([][]byte{[]byte("banana")})
	sa, err := Build(text, BuildOptions{NumWorkers: 2})
	require.NoError(t, err)

	want := []int32{5, 3, 1, 0, 4, 2}
	got := make([]int32, len(sa))
	for i, v := range sa {
		require.EqualValues(t, 0, v.Seq)
		got[i] = v.Offset
	}
	require.Equal(t, want, got)
}

// S2: SA of the string-set ["ab", "ab"].
func TestBuild_StringSetTieBreak(t *testing.T) {
	text := NewStringSet([][]byte{[]byte("ab"), []byte("ab")})
	sa, err := Build(text, BuildOptions{NumWorkers: 2})
	require.NoError(t, err)

	want := []model.SAValue{
		{Seq: 1, Offset: 0},
		{Seq: 0, Offset: 0},
		{Seq: 1, Offset: 1},
		{Seq: 0, Offset: 1},
	}
	require.Equal(t, want, sa)
}

// Invariant 1: the built SA is a permutation of all suffix positions.
func TestBuild_IsPermutation(t *testing.T) {
	text := NewStringSet([][]byte{[]byte("gattaca"), []byte("cacatag"), []byte("a")})
	sa, err := Build(text, BuildOptions{NumWorkers: 4})
	require.NoError(t, err)

	require.EqualValues(t, text.TotalPositions(), len(sa))

	seen := make(map[model.SAValue]bool, len(sa))
	for _, v := range sa {
		require.False(t, seen[v], "duplicate SA entry %v", v)
		seen[v] = true
		require.GreaterOrEqual(t, v.Offset, int32(0))
		require.Less(t, v.Offset, text.Len(v.Seq))
	}
	for s := 0; s < text.NumSeqs(); s++ {
		for o := int32(0); o < text.Len(int32(s)); o++ {
			require.True(t, seen[model.SAValue{Seq: int32(s), Offset: o}])
		}
	}
}

// Invariant 2/3: the full order holds under Less for adjacent entries.
func TestBuild_FullOrderHolds(t *testing.T) {
	text := NewStringSet([][]byte{[]byte("mississippi"), []byte("mississauga")})
	sa, err := Build(text, BuildOptions{NumWorkers: 3})
	require.NoError(t, err)

	for i := 0; i+1 < len(sa); i++ {
		require.True(t, Less(text, sa[i], sa[i+1], 0),
			"SA not ordered at %d: %v should be < %v", i, sa[i], sa[i+1])
	}
}

// Cross-check against the standard library's sort.Slice with the same
// comparator, over a larger randomized-looking text, to make sure the
// bucket refine step doesn't silently drop the two-phase invariant.
func TestBuild_MatchesReferenceSort(t *testing.T) {
	text := NewStringSet([][]byte{
		[]byte("abcabcabcabcxyzxyzabc"),
		[]byte("abcabcabcxyzxyzabcabc"),
		[]byte("xyzabcxyzabcxyzabcxyz"),
	})
	got, err := Build(text, BuildOptions{NumWorkers: 4})
	require.NoError(t, err)

	want := make([]model.SAValue, 0, text.TotalPositions())
	for s := 0; s < text.NumSeqs(); s++ {
		for o := int32(0); o < text.Len(int32(s)); o++ {
			want = append(want, model.SAValue{Seq: int32(s), Offset: o})
		}
	}
	sort.Slice(want, func(i, j int) bool { return Less(text, want[i], want[j], 0) })

	require.Equal(t, want, got)
}

func TestLess_EqualPositionIsFalse(t *testing.T) {
	text := NewStringSet([][]byte{[]byte("abc")})
	v := model.SAValue{Seq: 0, Offset: 1}
	require.False(t, Less(text, v, v, 0))
}
