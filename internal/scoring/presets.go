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

package scoring

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Preset is one named entry of a --scoring-scheme TOML presets file: a
// substitution bundle plus the gap costs and Karlin-Altschul parameters
// that go with it (BLOSUM62-style presets, spec §6's --scoring-scheme).
type Preset struct {
	Name      string  `toml:"name"`
	Alphabet  string  `toml:"alphabet"`
	Match     int     `toml:"match"`
	Mismatch  int     `toml:"mismatch"`
	GapOpen   int     `toml:"gap_open"`
	GapExtend int     `toml:"gap_extend"`
	Lambda    float64 `toml:"lambda"`
	K         float64 `toml:"k"`
	H         float64 `toml:"h"`
	Alpha     float64 `toml:"alpha"`
	Beta      float64 `toml:"beta"`
}

// presetFile is the top-level shape of a --scoring-scheme TOML file: a list of
// named presets under [[preset]].
type presetFile struct {
	Preset []Preset `toml:"preset"`
}

// LoadPresets parses a TOML presets file into a name -> Preset map.
func LoadPresets(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scoring presets file %s", path)
	}

	var pf presetFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, errors.Wrapf(err, "parsing scoring presets file %s", path)
	}

	out := make(map[string]Preset, len(pf.Preset))
	for _, p := range pf.Preset {
		out[p.Name] = p
	}
	return out, nil
}

// Apply overrides cfg's alignment and statistics parameters with p's.
func (p Preset) Apply(cfg Config) Config {
	cfg.Align.MatchScore = p.Match
	cfg.Align.MisMatchScore = p.Mismatch
	cfg.Align.GapScore = -p.GapOpen
	cfg.Stats.Lambda = p.Lambda
	cfg.Stats.K = p.K
	cfg.Stats.H = p.H
	cfg.Stats.Alpha = p.Alpha
	cfg.Stats.Beta = p.Beta
	return cfg
}
