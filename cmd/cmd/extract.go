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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ostafen/extractinator/internal/extract"
	"github.com/ostafen/extractinator/internal/logger"
	"github.com/ostafen/extractinator/internal/signature"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func DefineExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file> [format ...]",
		Short: "Carve files out of a binary blob",
		Long: `The 'extract' command scans a file for the start and end markers of the requested formats
and saves every enclosed byte range as "<n>.<format>" in the output directory.

Formats are given after the file name, or with --formats, in which case every argument is an input file.
When only a file is given and the standard input is a terminal, the formats are asked for interactively.
Run 'formats' to list them.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunExtract,
	}

	cmd.Flags().StringSliceP("formats", "f", nil, "formats to carve, in priority order")
	cmd.Flags().StringP("output-dir", "o", ".", "directory where carved files are saved")
	cmd.Flags().StringP("report", "r", "", "write a DFXML report of the carved files to this path")
	cmd.Flags().String("log-file", "", "path of the detailed log (default \"<output-dir>/<run id>.log\")")
	cmd.Flags().Bool("no-log", false, "disable the detailed log file")
	cmd.Flags().StringSlice("signatures", nil, "YAML or TOML files with additional format signatures")
	cmd.Flags().String("matcher", "prefix", "start marker lookup strategy (prefix, indexed)")
	cmd.Flags().String("max-size", "", "skip carved files larger than this size (e.g. 64MB)")
	cmd.Flags().IntP("jobs", "j", 1, "number of input files processed in parallel")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

var errNoFormats = errors.New("no formats given: pass them after the file name or with --formats")

func RunExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg.Signatures)
	if err != nil {
		return err
	}

	paths, formats := splitArgs(cmd, args)
	if len(paths) == 1 && len(formats) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		formats, err = promptFormats(cmd.InOrStdin(), cmd.OutOrStdout(), reg)
		if err != nil {
			return err
		}
	}
	if len(formats) == 0 {
		return errNoFormats
	}

	maxSize, err := cfg.MaxSizeBytes()
	if err != nil {
		return err
	}

	opts := extract.Options{
		OutputDir:  cfg.OutputDir,
		ReportFile: cfg.Report,
		Formats:    formats,
		Matcher:    cfg.CarveMatcher(),
		MaxSize:    maxSize,
		DisableLog: cfg.NoLog,
		LogFile:    cfg.LogFile,
		LogLevel:   logger.ParseLevel(cfg.LogLevel),
		NoProgress: cfg.NoProgress,
		Console:    cmd.OutOrStdout(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, err := extract.ExtractAll(ctx, paths, reg, opts, cfg.Jobs)
	if len(paths) > 1 {
		printTotals(cmd.OutOrStdout(), summaries)
	}
	return err
}

// splitArgs separates input files from format names. With --formats every
// argument is an input; otherwise the first one is, and the rest are formats.
func splitArgs(cmd *cobra.Command, args []string) ([]string, []string) {
	if cmd.Flags().Changed("formats") {
		formats, _ := cmd.Flags().GetStringSlice("formats")
		return args, formats
	}
	return args[:1], args[1:]
}

func promptFormats(in io.Reader, out io.Writer, reg *signature.Registry) ([]string, error) {
	fmt.Fprintln(out, "Please type the desired formats, separated by whitespace.")
	fmt.Fprintf(out, "Supported formats: %s\n", strings.Join(reg.Names(), " "))
	fmt.Fprint(out, "> ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read formats: %w", err)
	}

	formats := strings.Fields(line)
	if len(formats) == 0 {
		return nil, errors.New("no formats given")
	}
	return formats, nil
}

func printTotals(w io.Writer, summaries []*extract.Summary) {
	found, saved := 0, 0
	for _, s := range summaries {
		if s == nil {
			continue
		}
		found += s.Found
		saved += s.Saved
	}
	fmt.Fprintf(w, "[INFO] Processed %d inputs: %d files found, %d saved\n", len(summaries), found, saved)
}
