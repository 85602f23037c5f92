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
	"fmt"
	"io"
	"time"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/spf13/cobra"

	"github.com/shenwei356/blastcore/internal/logging"
	"github.com/shenwei356/blastcore/internal/pipeline"
	"github.com/shenwei356/blastcore/internal/suffixarray"
)

var makesaCmd = &cobra.Command{
	Use:   "makesa",
	Short: "Build a suffix array over a set of subject sequences",
	Long: `Build a suffix array over a set of subject sequences

Runs the bucketed, two-phase parallel suffix-array construction (coarse
q-gram sort followed by per-bucket refinement) and prints the resulting
(seq,offset) pairs, one per line.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		closer, err := logging.Setup(opt.Verbosity, opt.LogFile)
		checkError(err)
		if closer != nil {
			defer closer.Close()
		}

		if len(args) == 0 {
			checkError(fmt.Errorf("at least one input FASTA file is required"))
		}

		var seqs [][]byte
		for _, file := range args {
			reader, err := fastx.NewReader(nil, file, "")
			checkError(err)
			for {
				record, err := reader.Read()
				if err != nil {
					if err == io.EOF {
						break
					}
					checkError(err)
					break
				}
				seqs = append(seqs, append([]byte(nil), bytes.ToUpper(record.Seq.Seq)...))
			}
		}

		text := suffixarray.NewStringSet(seqs)

		report, wait := pipeline.NewProgressBar(cmd.ErrOrStderr(), 100)
		timeStart := time.Now()
		sa, err := suffixarray.Build(text, suffixarray.BuildOptions{
			NumWorkers: opt.NumThreads,
			Progress:   report,
		})
		wait()
		checkError(err)

		logging.Log.Infof("built a suffix array of %d positions over %d sequences in %s",
			len(sa), text.NumSeqs(), time.Since(timeStart))

		out := cmd.OutOrStdout()
		for _, v := range sa {
			fmt.Fprintf(out, "%d\t%d\n", v.Seq, v.Offset)
		}
	},
}

func init() {
	RootCmd.AddCommand(makesaCmd)
}
