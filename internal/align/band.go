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

import "math"

// Unbounded is the band value meaning "don't restrict the diagonal range",
// the option == -1 case of spec §4.5.
const Unbounded = math.MaxInt32

// BandSize picks the half-width of the DP band from the configured option
// and the longer of the two sequence lengths, per spec §4.5:
//
//	option == -3 -> ceil(log2(n))
//	option == -2 -> floor(sqrt(n))
//	option == -1 -> unbounded
//	option >= 0  -> option, unchanged
func BandSize(option, n int) int {
	switch {
	case option >= 0:
		return option
	case option == -1:
		return Unbounded
	case option == -2:
		return int(math.Sqrt(float64(n)))
	case option == -3:
		if n <= 1 {
			return 0
		}
		return int(math.Ceil(math.Log2(float64(n))))
	default:
		return int(math.Ceil(math.Log2(float64(n))))
	}
}

// BandCache memoizes BandSize by sequence length within one LocalHolder, so
// a worker extending many matches of the same length doesn't recompute the
// log2/sqrt each time.
type BandCache struct {
	option int
	m      map[int]int
}

// NewBandCache creates a cache for a fixed band option.
func NewBandCache(option int) *BandCache {
	return &BandCache{option: option, m: make(map[int]int, 16)}
}

// Get returns the memoized band for length n, computing and storing it on
// first use.
func (c *BandCache) Get(n int) int {
	if b, ok := c.m[n]; ok {
		return b
	}
	b := BandSize(c.option, n)
	c.m[n] = b
	return b
}
