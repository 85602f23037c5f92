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

package pipeline

import (
	"io"
	"strings"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressTokens renders an even percentage as a run of "." / ":" / "|"
// tokens (spec §4.8 step 5): every 2% tick is a ".", ticks landing on a
// multiple of 10 are ":", and the one landing on a multiple of 50 is "|" -
// a denser mark every time a bigger milestone is crossed.
func progressTokens(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	var b strings.Builder
	for p := 2; p <= pct; p += 2 {
		switch {
		case p%50 == 0:
			b.WriteByte('|')
		case p%10 == 0:
			b.WriteByte(':')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

// NewProgressBar builds worker 0's text progress meter, grounded on
// lib-index-build.go's chDuration-fed mpb.Bar pattern. The bar always runs
// from 0 to 100 percent; nChunks only decides whether a bar is drawn at all
// (none when it is <= 0).
// The returned callback is passed as DriverOptions.Progress; it advances
// the bar to whatever absolute percentage each chunk completion reports
// and renders the token run as a custom decor.Any.
func NewProgressBar(out io.Writer, nChunks int64) (report func(pct int), wait func()) {
	if nChunks <= 0 {
		return func(int) {}, func() {}
	}

	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(out))
	var lastPct int
	bar := pbs.AddBar(100,
		mpb.PrependDecorators(
			decor.Name("searching: ", decor.WC{W: len("searching: "), C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				return progressTokens(lastPct)
			}),
		),
	)

	report = func(pct int) {
		if pct > lastPct {
			bar.IncrBy(pct - lastPct)
			lastPct = pct
		}
	}
	wait = func() {
		if lastPct < 100 {
			bar.IncrBy(100 - lastPct)
		}
		pbs.Wait()
	}
	return report, wait
}
