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

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/shenwei356/blastcore/internal/logging"
	"github.com/shenwei356/blastcore/internal/model"
	"github.com/shenwei356/blastcore/internal/pipeline"
	"github.com/shenwei356/blastcore/internal/scoring"
	"github.com/shenwei356/blastcore/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search sequences against an index",
	Long: `Search sequences against an index

Input should be (gzipped) FASTA or FASTQ records from files or stdin.
For multiple queries, the order of queries in the output may differ from
the input (queries are sharded across worker goroutines).

Output is a tab-delimited BLAST-style table with one row per HSP:

  query  sid  qstart  qend  sstart  send  strand  pident  alen
  mismatches  gaps  evalue  bitscore  cigar

where sid is the index of the subject sequence in the index.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		closer, err := logging.Setup(opt.Verbosity, opt.LogFile)
		checkError(err)
		if closer != nil {
			defer closer.Close()
		}

		indexPath := expandPath(getFlagString(cmd, "index"))
		if indexPath == "" {
			checkError(fmt.Errorf("flag -d/--index is needed"))
		}
		outFile := getFlagString(cmd, "out-file")
		program := scoring.Program(getFlagString(cmd, "program"))
		seedLength := getFlagPositiveInt(cmd, "seed-length")
		seedOffset := getFlagPositiveInt(cmd, "seed-offset")
		band := getFlagInt(cmd, "band")
		evalueThreshold := getFlagFloat64(cmd, "max-evalue")
		minRawScore := getFlagNonNegativeInt(cmd, "min-score")
		extFlank := getFlagPositiveInt(cmd, "ext-flank")
		blockSize := getFlagNonNegativeInt(cmd, "block-size")
		gapOpen := getFlagPositiveInt(cmd, "gap-open")
		gapExtend := getFlagPositiveInt(cmd, "gap-extend")
		presetsFile := getFlagString(cmd, "scoring-scheme")
		mergeSiblings := getFlagBool(cmd, "merge-putative-siblings")
		siblingGap := getFlagNonNegativeInt(cmd, "sibling-gap")
		diagonalTolerance := getFlagNonNegativeInt(cmd, "diagonal-tolerance")
		filterAbundant := getFlagNonNegativeInt(cmd, "filter-putative-abundant")

		cfg, err := scoring.New(program, scoring.ReductionNone)
		checkError(err)
		cfg = cfg.WithGapCosts(gapOpen, gapExtend)
		if presetsFile != "" {
			presets, err := scoring.LoadPresets(presetsFile)
			checkError(err)
			name := getFlagString(cmd, "preset")
			if p, ok := presets[name]; ok {
				cfg = p.Apply(cfg)
			}
		}

		idx, subjects, err := openIndex(indexPath, seedLength)
		checkError(err)

		dbTotalLength := 0
		for _, s := range subjects {
			dbTotalLength += len(s)
		}

		out, err := xopen.Wopen(outFile)
		checkError(err)
		defer out.Close()

		global := &pipeline.GlobalHolder{
			Index:         idx,
			Subjects:      subjects,
			Scheme:        cfg.Stats,
			DBTotalLength: dbTotalLength,
			QFrames:       cfg.QueryFrames,
			SFrames:       cfg.SubjectFrames,
			Write:         makeWriter(out),
		}

		queries, err := readQueries(args, cfg.QueryFrames, cfg.QueryFrames > 1)
		checkError(err)

		driverOpt := pipeline.DriverOptions{
			NumWorkers:      opt.NumThreads,
			BlockSize:       blockSize,
			SeedOptions:     search.SeedOptions{SeedLength: seedLength, SeedOffset: seedOffset},
			FilterOptions: search.FilterOptions{
				QFrames: cfg.QueryFrames, SFrames: cfg.SubjectFrames,
				MergeSiblings: mergeSiblings, SiblingGap: siblingGap, DiagonalTolerance: diagonalTolerance,
				AbundantThreshold: filterAbundant,
			},
			AlignOptions:    cfg.Align,
			BandOption:      band,
			ExtensionFlank:  extFlank,
			MinRawScore:     minRawScore,
			EValueThreshold: evalueThreshold,
		}

		report, wait := pipeline.NewProgressBar(cmd.ErrOrStderr(), int64(len(queries)))
		driverOpt.Progress = report

		timeStart := time.Now()
		d := &pipeline.Driver{}
		stats, err := d.Run(context.Background(), queries, global, driverOpt)
		wait()
		checkError(err)

		logging.Log.Infof("hits: %d, extensions: %d, reported: %d, elapsed: %s",
			stats.HitCount, stats.ExtensionCount, stats.SuccessfulExtensions, time.Since(timeStart))
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("index", "d", "", "path to a prebuilt index directory")
	searchCmd.Flags().StringP("out-file", "o", "-", `out file, "-" for stdout`)
	searchCmd.Flags().StringP("program", "p", "blastn", "search program: blastn|blastp|blastx|tblastn|tblastx")
	searchCmd.Flags().IntP("seed-length", "", 16, "seed (k-mer) length used for the seed search")
	searchCmd.Flags().IntP("seed-offset", "", 1, "step between successive seed windows along a query")
	searchCmd.Flags().IntP("band", "", 50, "banded alignment width; -1 unbounded, -2 sqrt(n), -3 log2(n)")
	searchCmd.Flags().Float64P("max-evalue", "e", 10, "maximum reported e-value")
	searchCmd.Flags().IntP("min-score", "", 0, "minimum raw alignment score to report")
	searchCmd.Flags().IntP("ext-flank", "", 50, "bases of context on each side of a seed handed to the aligner")
	searchCmd.Flags().IntP("block-size", "", 0, "queries per worker chunk, 0 picks a default")
	searchCmd.Flags().IntP("gap-open", "", 11, "gap-open cost")
	searchCmd.Flags().IntP("gap-extend", "", 1, "gap-extend cost (reserved, the current aligner is affine-free)")
	searchCmd.Flags().StringP("scoring-scheme", "", "", "optional TOML file of named scoring presets")
	searchCmd.Flags().StringP("preset", "", "", "preset name to apply from --scoring-scheme")
	searchCmd.Flags().BoolP("merge-putative-siblings", "", true, "merge overlapping/adjacent same-diagonal seed matches before extension; disabling this reports one HSP per surviving sliding-window seed instead of one per true match")
	searchCmd.Flags().IntP("sibling-gap", "", 0, "maximum subject-side gap between two same-diagonal matches for them to be merged as siblings")
	searchCmd.Flags().IntP("diagonal-tolerance", "", 0, "maximum diagonal drift allowed between two matches for them to be merged as siblings")
	searchCmd.Flags().IntP("filter-putative-abundant", "", 0, "drop/cap query-subject pairs with more than this many matches (0 disables)")
}

// openIndex is the abstract index-loading hook: spec §1 treats on-disk
// index formats as out of scope, consumed only via search.Index. This
// stub lets the CLI link and run against a trivial in-memory index built
// from the subject FASTA file indexPath/subjects.fasta, until a concrete
// on-disk format is wired in.
func openIndex(indexPath string, seedLength int) (search.Index, [][]byte, error) {
	subjects, err := readSubjects(indexPath + "/subjects.fasta")
	if err != nil {
		return nil, nil, err
	}
	return search.NewLinearIndex(subjects, seedLength), subjects, nil
}

func readSubjects(path string) ([][]byte, error) {
	var seqs [][]byte
	reader, err := fastx.NewReader(nil, path, "")
	if err != nil {
		return nil, err
	}
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		seqs = append(seqs, append([]byte(nil), bytes.ToUpper(record.Seq.Seq)...))
	}
	return seqs, nil
}

func readQueries(files []string, qFrames int, translated bool) ([]pipeline.Query, error) {
	var queries []pipeline.Query
	var id int64
	for _, file := range files {
		reader, err := fastx.NewReader(nil, file, "")
		if err != nil {
			return nil, err
		}
		for {
			record, err := reader.Read()
			if err != nil {
				if err == io.EOF {
					break
				}
				return nil, err
			}
			raw := append([]byte(nil), bytes.ToUpper(record.Seq.Seq)...)
			queries = append(queries, pipeline.Query{
				ID:         id,
				Name:       string(record.ID),
				Seq:        raw,
				TrueLen:    len(raw),
				Translated: translated,
			})
			id++
		}
	}
	return queries, nil
}

func makeWriter(out io.Writer) func(string, *model.BlastMatch) error {
	return func(queryName string, m *model.BlastMatch) error {
		strand := string(m.Strand)
		pident := 0.0
		if m.AlignLen > 0 {
			pident = 100 * float64(m.Identities) / float64(m.AlignLen)
		}
		_, err := fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%.2f\t%d\t%d\t%d\t%.2e\t%.1f\t%s\n",
			queryName, m.SubjID, m.QryStart, m.QryEnd, m.SubjStart, m.SubjEnd, strand,
			pident, m.AlignLen, m.Mismatches, m.Gaps, m.EValue, m.BitScore, m.Cigar)
		return err
	}
}

// Options carries the global, process-wide CLI flags (teacher: cmd/util.go's Options).
type Options struct {
	NumThreads int
	Verbosity  int
	LogFile    string
	Quiet      bool
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagPositiveInt(cmd, "num-threads")
	verbosity := getFlagCount(cmd, "verbosity")
	quiet := getFlagBool(cmd, "quiet")
	if quiet {
		verbosity = 0
	}
	return &Options{
		NumThreads: threads,
		Verbosity:  verbosity,
		LogFile:    getFlagString(cmd, "log"),
		Quiet:      quiet,
	}
}
