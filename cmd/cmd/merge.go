// Copyright (c) 2025 Stefano Scafiti
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
package cmd

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"os"

	osutils "github.com/ostafen/extractinator/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file1> <file2> ...",
		Short: "Merge multiple files into a single blob",
		Long: `The 'merge' command combines multiple files into a single flat blob.
This is useful for testing the extractor with known, reproducible data.
Files are concatenated in the order given, directories are expanded to the files they contain,
and every file is preceded by a gap of random bytes.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunMerge,
	}

	cmd.Flags().StringP("output", "o", "", "Path to the output blob (required)")
	cmd.Flags().Int("min-gap", 4*1024, "minimum gap size in bytes between files")
	cmd.Flags().Int("max-gap", 512*1024, "maximum gap size in bytes between files")
	cmd.Flags().Int("block-size", 512, "files start at multiples of this size")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func RunMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	filePaths := make([]string, 0, len(args))
	for _, arg := range args {
		paths, err := osutils.ListFiles(arg)
		if err != nil {
			return err
		}
		filePaths = append(filePaths, paths...)
	}

	out, _ := cmd.Flags().GetString("output")

	minGap, _ := cmd.Flags().GetInt("min-gap")
	maxGap, _ := cmd.Flags().GetInt("max-gap")

	if minGap > maxGap {
		return fmt.Errorf("min-gap (%d) cannot be greater than max-gap (%d)", minGap, maxGap)
	}
	if minGap <= 0 {
		return fmt.Errorf("min-gap must be greater than 0")
	}

	blockSize, _ := cmd.Flags().GetInt("block-size")
	if blockSize <= 0 {
		return fmt.Errorf("block size must be greater than 0")
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	log := consoleLogger(cmd.OutOrStdout(), cfg)
	log.Info(fmt.Sprintf("Merging %d files into %s", len(filePaths), out))

	w := bufio.NewWriter(f)

	bytesWritten, err := mergeFiles(w, filePaths, func(written int64) int64 {
		return nextGap(written, minGap, maxGap, blockSize)
	})
	if err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("error flushing writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("Merging successfully completed. %d bytes written.", bytesWritten))
	return nil
}

// mergeFiles writes each file to w preceded by gap(bytes written so far) random bytes.
func mergeFiles(w io.Writer, paths []string, gap func(written int64) int64) (int64, error) {
	var written int64
	for _, path := range paths {
		n, err := io.CopyN(w, rand.Reader, gap(written))
		written += n
		if err != nil {
			return written, err
		}

		n, err = osutils.CopyFile(w, path)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// nextGap picks a random gap in [minGap, maxGap] and stretches it so
// that the next file starts on a block boundary.
func nextGap(written int64, minGap, maxGap, blockSize int) int64 {
	gap := int64(minGap + mrand.IntN(maxGap-minGap+1))
	if rem := (written + gap) % int64(blockSize); rem != 0 {
		gap += int64(blockSize) - rem
	}
	return gap
}
