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

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/blastcore/internal/errs"
)

// S4's tree: node 1 is root, with children 2 and 3; node 2 has children 4
// and 5. The height array here is the proper root-distance for that shape
// (node 0 unused except as the walk-off-the-top sentinel); the parents
// array is verbatim from S4.
func s4Tree() *Tree {
	return &Tree{
		Parent: []uint32{0, 0, 1, 1, 2, 2},
		Height: []uint32{0, 1, 2, 2, 3, 3},
	}
}

func TestLCA_S4(t *testing.T) {
	tr := s4Tree()

	got, err := tr.LCA(3, 4)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)

	got, err = tr.LCA(4, 5)
	require.NoError(t, err)
	require.EqualValues(t, 2, got)

	got, err = tr.LCA(3, 5)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
}

// Invariant 5: LCA(n,n) = n, and LCA(n,root) = root for every node.
func TestLCA_SelfAndRoot(t *testing.T) {
	tr := s4Tree()
	const root = 1

	for n := uint32(1); n <= 5; n++ {
		got, err := tr.LCA(n, n)
		require.NoError(t, err)
		require.Equal(t, n, got)

		got, err = tr.LCA(n, root)
		require.NoError(t, err)
		require.EqualValues(t, root, got)
	}
}

func TestLCA_MalformedTaxonomy(t *testing.T) {
	// Two disconnected singleton nodes: both parent to the sentinel
	// immediately, at unequal heights, so the lockstep walk falls off
	// without the paths ever meeting.
	tr := &Tree{
		Parent: []uint32{0, 0, 0},
		Height: []uint32{0, 1, 2},
	}

	_, err := tr.LCA(1, 2)
	require.Error(t, err)
	var malformed *errs.MalformedTaxonomyError
	require.ErrorAs(t, err, &malformed)
	require.EqualValues(t, 1, malformed.NodeA)
}

func TestLCAAll(t *testing.T) {
	tr := s4Tree()

	got, err := tr.LCAAll([]uint32{3, 4, 5})
	require.NoError(t, err)
	require.EqualValues(t, 1, got)

	got, err = tr.LCAAll([]uint32{4, 5})
	require.NoError(t, err)
	require.EqualValues(t, 2, got)

	got, err = tr.LCAAll([]uint32{7})
	require.NoError(t, err)
	require.EqualValues(t, 7, got)

	got, err = tr.LCAAll(nil)
	require.NoError(t, err)
	require.EqualValues(t, 0, got)
}
