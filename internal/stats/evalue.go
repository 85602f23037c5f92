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

// Package stats implements C6: the Karlin-Altschul length adjustment and
// e-value computation, with a per-worker (not thread-safe, deliberately
// not shared) cache.
package stats

import "math"

// Scheme carries the Karlin-Altschul statistical parameters for a
// particular scoring scheme (substitution matrix + gap costs).
type Scheme struct {
	Lambda float64
	K      float64
	H      float64 // relative entropy, used by the length-adjustment iteration
	Alpha  float64
	Beta   float64
}

// DefaultProteinScheme approximates BLOSUM62-with-default-gaps ungapped
// Karlin parameters, in the same spirit as the constants BLAST ships for
// its common scoring schemes.
var DefaultProteinScheme = Scheme{
	Lambda: 0.267,
	K:      0.041,
	H:      0.140,
	Alpha:  2.0,
	Beta:   -8.0,
}

// DefaultNucleotideScheme approximates the default nucleotide Karlin
// parameters (match +2/mismatch -3, gap open 5/extend 2).
var DefaultNucleotideScheme = Scheme{
	Lambda: 1.28,
	K:      0.46,
	H:      0.85,
	Alpha:  0.6,
	Beta:   -1.0,
}

// LengthAdjustment runs the fixed-point Karlin-Altschul iteration that
// computes the effective-length correction subtracted from both the
// query and database lengths before computing an e-value.
//
// This follows the standard BLAST length-adjustment recurrence:
//
//	a(0)   = 0
//	a(i+1) = (alpha/lambda)*(ln(K) + ln((m - a(i))*(n - a(i)))) + beta
//
// iterated to a fixed point or until a maximum iteration count, clamped to
// never exceed min(m,n) - 1 so effective lengths stay positive.
func LengthAdjustment(dbTotalLength, queryLen int, scheme Scheme) int {
	if queryLen <= 0 || dbTotalLength <= 0 {
		return 0
	}

	m := float64(queryLen)
	n := float64(dbTotalLength)
	maxAdj := m
	if n < maxAdj {
		maxAdj = n
	}
	maxAdj -= 1
	if maxAdj < 0 {
		return 0
	}

	a := 0.0
	for iter := 0; iter < 20; iter++ {
		mp := m - a
		np := n - a
		if mp <= 0 || np <= 0 {
			break
		}
		next := (scheme.Alpha/scheme.Lambda)*math.Log(scheme.K*mp*np) + scheme.Beta
		if next < 0 {
			next = 0
		}
		if next > maxAdj {
			next = maxAdj
		}
		if math.Abs(next-a) < 0.5 {
			a = next
			break
		}
		a = next
	}

	return int(a)
}

// ComputeEValue computes E = K * m' * n' * exp(-lambda * score), the
// standard Karlin-Altschul e-value formula, given already length-adjusted
// effective lengths.
func ComputeEValue(rawScore int, effQueryLen, effDBLen int, scheme Scheme) float64 {
	if effQueryLen <= 0 || effDBLen <= 0 {
		return math.Inf(1)
	}
	return scheme.K * float64(effQueryLen) * float64(effDBLen) * math.Exp(-scheme.Lambda*float64(rawScore))
}

// BitScore converts a raw score to a bit score: (lambda*score - ln(K)) / ln(2).
func BitScore(rawScore int, scheme Scheme) float64 {
	return (scheme.Lambda*float64(rawScore) - math.Log(scheme.K)) / math.Ln2
}

// Cache is the per-worker (LocalHolder-owned) queryLen -> lengthAdjustment
// cache from spec §4.6. It is an ordinary map: no locking, because it is
// never shared across goroutines. Duplicated computation across workers
// is acceptable and idempotent.
type Cache struct {
	m map[int]int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[int]int, 16)}
}

// Evaluator computes e-values for matches against a fixed database length
// and scoring scheme, threading translated-query-length correction and
// the length-adjustment cache.
type Evaluator struct {
	DBTotalLength int
	Scheme        Scheme
	cache         *Cache
}

// NewEvaluator creates an Evaluator with its own (unshared) cache.
func NewEvaluator(dbTotalLength int, scheme Scheme) *Evaluator {
	return &Evaluator{DBTotalLength: dbTotalLength, Scheme: scheme, cache: NewCache()}
}

// EValue computes the e-value of a match with the given raw score and
// (possibly translated) query length. If translated is true, queryLen is
// divided by 3 before looking up/computing the length adjustment, per
// spec §4.6.
func (e *Evaluator) EValue(rawScore, queryLen int, translated bool) float64 {
	qLen := queryLen
	if translated {
		qLen = queryLen / 3
	}

	adj, ok := e.cache.m[qLen]
	if !ok {
		adj = LengthAdjustment(e.DBTotalLength, qLen, e.Scheme)
		e.cache.m[qLen] = adj
	}

	effQLen := qLen - adj
	effDBLen := e.DBTotalLength - adj
	return ComputeEValue(rawScore, effQLen, effDBLen, e.Scheme)
}
