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

// Package taxonomy implements C7: lowest common ancestor queries over a
// flat parent/height array representation of a taxonomy tree, the
// annotation step that runs after extension in the pipeline driver.
package taxonomy

import "github.com/shenwei356/blastcore/internal/errs"

// Tree is a flat array representation of a rooted taxonomy: parent[id] is
// the parent node of id, height[id] is its depth from the root. Node 0 is
// the sentinel; a walk that reaches it without the two paths meeting
// indicates a malformed (disconnected) taxonomy.
type Tree struct {
	Parent []uint32
	Height []uint32
}

// LCA computes the lowest common ancestor of a and b by lifting the
// deeper node to the shallower node's height, then lifting both in
// lockstep until they meet (spec §4.7).
func (t *Tree) LCA(a, b uint32) (uint32, error) {
	if a == b {
		return a, nil
	}

	for t.Height[a] > t.Height[b] {
		if a == 0 {
			return 0, &errs.MalformedTaxonomyError{NodeA: a, NodeB: b}
		}
		a = t.Parent[a]
	}
	for t.Height[b] > t.Height[a] {
		if b == 0 {
			return 0, &errs.MalformedTaxonomyError{NodeA: a, NodeB: b}
		}
		b = t.Parent[b]
	}

	for a != b {
		if a == 0 || b == 0 {
			return 0, &errs.MalformedTaxonomyError{NodeA: a, NodeB: b}
		}
		a = t.Parent[a]
		b = t.Parent[b]
	}

	return a, nil
}

// LCAAll generalizes LCA to a set of nodes by a left fold: LCA(LCA(...LCA(n0,n1),n2)...).
// An empty slice returns (0, nil); a single-element slice returns that
// element unchanged.
func (t *Tree) LCAAll(nodes []uint32) (uint32, error) {
	if len(nodes) == 0 {
		return 0, nil
	}
	acc := nodes[0]
	var err error
	for _, n := range nodes[1:] {
		acc, err = t.LCA(acc, n)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}
