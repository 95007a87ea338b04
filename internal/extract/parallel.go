package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ostafen/extractinator/internal/logger"
	"github.com/ostafen/extractinator/internal/signature"
	"golang.org/x/sync/errgroup"
)

// ExtractAll runs Extract on every path, at most jobs at a time.
// With more than one input, each one gets its own subdirectory of
// opts.OutputDir named after the input file, and the report (if any) is
// written inside it. The progress bar is only drawn when jobs is 1, and
// console lines from concurrent inputs share one lock on opts.Console.
// The returned summaries follow the order of paths; the first error cancels
// the remaining inputs.
func ExtractAll(ctx context.Context, paths []string, reg *signature.Registry, opts Options, jobs int) ([]*Summary, error) {
	if jobs < 1 {
		jobs = 1
	}
	if len(paths) == 1 {
		s, err := Extract(ctx, paths[0], reg, opts)
		return []*Summary{s}, err
	}
	if jobs > 1 {
		opts.NoProgress = true
	}
	if opts.Console != nil {
		opts.Console = logger.SyncWriter(opts.Console)
	}

	dirs := inputDirs(paths)
	summaries := make([]*Summary, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		inputOpts := opts
		inputOpts.OutputDir = filepath.Join(opts.OutputDir, dirs[i])
		if opts.ReportFile != "" {
			inputOpts.ReportFile = filepath.Join(inputOpts.OutputDir, filepath.Base(opts.ReportFile))
		}

		g.Go(func() error {
			s, err := Extract(ctx, path, reg, inputOpts)
			summaries[i] = s
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	return summaries, g.Wait()
}

// inputDirs names one directory per input after its base name,
// numbering repeated names.
func inputDirs(paths []string) []string {
	seen := make(map[string]int, len(paths))
	dirs := make([]string, len(paths))
	for i, path := range paths {
		base := filepath.Base(path)

		seen[base]++
		if n := seen[base]; n > 1 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		dirs[i] = base
	}
	return dirs
}
