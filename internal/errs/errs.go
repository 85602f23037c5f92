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

// Package errs defines the structured error kinds from spec §7. The
// driver (internal/pipeline) has exactly three catch sites: OOM, IndexError
// and a generic/unclassified fallback; each kind carries its own
// remediation hint for that printed diagnostic block.
package errs

import "github.com/pkg/errors"

// IndexError wraps an unreadable/corrupt index or an alphabet mismatch
// between the index and the query.
type IndexError struct {
	Dir string
	Err error
}

func (e *IndexError) Error() string {
	return errors.Wrapf(e.Err, "index error in %s", e.Dir).Error()
}
func (e *IndexError) Unwrap() error { return e.Err }
func (e *IndexError) Hint() string {
	return "check that the index directory is complete and was built with a compatible alphabet"
}

// QueryError wraps an unparseable query file or a detected/expected
// alphabet mismatch.
type QueryError struct {
	File string
	Err  error
}

func (e *QueryError) Error() string {
	return errors.Wrapf(e.Err, "query error in %s", e.File).Error()
}
func (e *QueryError) Unwrap() error { return e.Err }
func (e *QueryError) Hint() string {
	return "verify the query file is valid (gzipped) FASTA/FASTQ and matches the expected program's alphabet"
}

// ConfigError wraps an incompatible option combination.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "config error: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }
func (e *ConfigError) Hint() string {
	return "review the combination of -p/--program, index alphabet and scoring flags"
}

// ResourceExhaustedError marks an allocation failure at any point in the
// pipeline (e.g. during SA construction or chunk match buffering).
type ResourceExhaustedError struct {
	Err error
}

func (e *ResourceExhaustedError) Error() string { return "out of memory: " + e.Err.Error() }
func (e *ResourceExhaustedError) Unwrap() error { return e.Err }
func (e *ResourceExhaustedError) Hint() string {
	return "split the query/subject file into smaller pieces or reduce the database size"
}

// MalformedTaxonomyError is raised by C7 when an LCA walk reaches the
// sentinel node 0 without the two paths meeting.
type MalformedTaxonomyError struct {
	NodeA, NodeB uint32
}

func (e *MalformedTaxonomyError) Error() string {
	return errors.Errorf("malformed taxonomy: no common ancestor found for nodes %d and %d", e.NodeA, e.NodeB).Error()
}
func (e *MalformedTaxonomyError) Hint() string {
	return "regenerate the taxdump parent/height arrays; the taxonomy graph may be disconnected from the root"
}

// Unclassified wraps any other error for the driver's generic catch site.
type Unclassified struct {
	Err error
}

func (e *Unclassified) Error() string { return e.Err.Error() }
func (e *Unclassified) Unwrap() error { return e.Err }
func (e *Unclassified) Hint() string {
	return "please report this as a bug, including the command line and a minimal reproducing input"
}
