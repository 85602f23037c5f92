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

// Package scoring holds the one runtime Config that replaces the template
// specialization tree a C++ port of this pipeline would reach for
// (REDESIGN FLAGS: Program x Alphabet x Reduction, collapsed into tagged
// fields on a single struct instead of a Cartesian type hierarchy).
package scoring

import (
	"github.com/pkg/errors"

	"github.com/shenwei356/blastcore/internal/align"
	"github.com/shenwei356/blastcore/internal/stats"
)

// Program names the BLAST-style search mode, which decides how many
// translated frames each side of a match carries.
type Program string

const (
	ProgramBlastN  Program = "blastn"  // nucleotide query vs nucleotide subject
	ProgramBlastP  Program = "blastp"  // protein query vs protein subject
	ProgramBlastX  Program = "blastx"  // translated nucleotide query vs protein subject
	ProgramTBlastN Program = "tblastn" // protein query vs translated nucleotide subject
	ProgramTBlastX Program = "tblastx" // translated nucleotide query vs translated nucleotide subject
)

// Alphabet is the residue alphabet matches are scored in.
type Alphabet string

const (
	AlphabetNucleotide Alphabet = "nucleotide"
	AlphabetProtein    Alphabet = "protein"
)

// Reduction names an amino-acid alphabet reduction scheme applied before
// seeding, trading specificity for sensitivity at a fixed seed length.
type Reduction string

const (
	ReductionNone    Reduction = "none"
	ReductionMurphy10 Reduction = "murphy10"
	ReductionDayhoff6 Reduction = "dayhoff6"
)

// Config is the one runtime object every [Program] x [Alphabet] x
// [Reduction] combination is expressed through; there is no generated or
// hand-written type per combination.
type Config struct {
	Program   Program
	Alphabet  Alphabet
	Reduction Reduction

	QueryFrames   int // 1, 3 or 6 depending on Program
	SubjectFrames int

	Align align.Options
	Stats stats.Scheme
}

// frameTable maps a Program to (query frames, subject frames), per spec's
// frame-encoded id scheme (model.EncodeFrame).
var frameTable = map[Program][2]int{
	ProgramBlastN:  {1, 1},
	ProgramBlastP:  {1, 1},
	ProgramBlastX:  {6, 1},
	ProgramTBlastN: {1, 6},
	ProgramTBlastX: {6, 6},
}

// New builds a Config for a program and reduction, defaulting the scoring
// scheme and Karlin-Altschul parameters by alphabet the way the teacher
// picks a default k-mer size by sequence type (lexicmap/cmd/index.go).
func New(program Program, reduction Reduction) (Config, error) {
	frames, ok := frameTable[program]
	if !ok {
		return Config{}, errors.Errorf("scoring: unknown program %q", program)
	}

	alphabet := AlphabetNucleotide
	if program != ProgramBlastN {
		alphabet = AlphabetProtein // every other program aligns in protein space
	}

	cfg := Config{
		Program:       program,
		Alphabet:      alphabet,
		Reduction:     reduction,
		QueryFrames:   frames[0],
		SubjectFrames: frames[1],
	}

	if alphabet == AlphabetProtein {
		cfg.Align = align.Options{MatchScore: 2, MisMatchScore: -3, GapScore: -11}
		cfg.Stats = stats.DefaultProteinScheme
	} else {
		cfg.Align = align.DefaultOptions
		cfg.Stats = stats.DefaultNucleotideScheme
	}

	return cfg, nil
}

// WithGapCosts sets cfg.Align's single linear gap score from gapOpen, for
// the --gap-open/--gap-extend CLI flags from spec §6. gapExtend is
// accepted but has no effect.
func (cfg Config) WithGapCosts(gapOpen, gapExtend int) Config {
	cfg.Align.GapScore = -gapOpen
	_ = gapExtend // the banded aligner uses one affine-free gap score; extend is reserved for a future affine-gap aligner
	return cfg
}
