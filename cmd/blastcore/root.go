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
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

// VERSION is the tool version, bumped on release.
const VERSION = "0.1.0"

// RootCmd is the entry point every subcommand attaches to.
var RootCmd = &cobra.Command{
	Use:   "blastcore",
	Short: "A local sequence-aligner search pipeline",
	Long: fmt.Sprintf(`blastcore v%s
https://github.com/shenwei356/blastcore

A local sequence aligner: given queries and a pre-built index over a
subject database, find and score local homologies above configurable
significance thresholds.
`, VERSION),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all subcommands and runs RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		checkError(err)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if n, err := strconv.Atoi(os.Getenv("BLASTCORE_THREADS")); err == nil && n > 0 {
		defaultThreads = n
	}
	RootCmd.PersistentFlags().IntP("num-threads", "j", defaultThreads,
		"number of worker threads ($BLASTCORE_THREADS)")
	RootCmd.PersistentFlags().CountP("verbosity", "v", "increase verbosity (-v, -vv, -vvv)")
	RootCmd.PersistentFlags().StringP("log", "", "", "also write log messages to this file")
	RootCmd.PersistentFlags().BoolP("quiet", "q", false, "log only warnings and errors, overriding -v")
}

// checkError prints a diagnostic block and exits, the top-level error sink
// every subcommand funnels unrecoverable errors through.
func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %s\n", err)
		var h interface{ Hint() string }
		if errors.As(err, &h) {
			fmt.Fprintf(os.Stderr, "[HINT] %s\n", h.Hint())
		}
		os.Exit(-1)
	}
}

// expandPath expands a leading ~ the way the teacher expands index/output
// paths, via go-homedir.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

func getFlagString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	checkError(err)
	return v
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return v
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	v := getFlagInt(cmd, flag)
	if v <= 0 {
		checkError(fmt.Errorf("value of flag --%s should be a positive integer", flag))
	}
	return v
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	v := getFlagInt(cmd, flag)
	if v < 0 {
		checkError(fmt.Errorf("value of flag --%s should be a non-negative integer", flag))
	}
	return v
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return v
}

func getFlagFloat64(cmd *cobra.Command, flag string) float64 {
	v, err := cmd.Flags().GetFloat64(flag)
	checkError(err)
	return v
}

func getFlagCount(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetCount(flag)
	checkError(err)
	return v
}
