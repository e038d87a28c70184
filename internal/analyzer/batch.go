package analyzer

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"resumine/internal/errors"
	"resumine/internal/types"
	"resumine/internal/utils"

	"golang.org/x/sync/errgroup"
)

// FindResumes lists every .txt file under dir, recursively, in lexical order.
func FindResumes(dir string) ([]string, error) {
	if err := utils.ValidateDirectory(dir); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "cannot read resume directory", err).
			WithContext("directory", dir)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && utils.IsResumeFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot walk resume directory", err).
			WithContext("directory", dir)
	}

	slices.Sort(files)
	return files, nil
}

// BatchAnalyze analyzes every resume under dir with bounded concurrency.
// Results follow file order; per-file failures are failure records. An
// empty directory yields an empty slice. Only directory errors and context
// cancellation return an error.
func (a *Analyzer) BatchAnalyze(ctx context.Context, dir string) ([]types.AnalysisResult, error) {
	files, err := FindResumes(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		a.logger.Warn("No .txt resume files found", "directory", dir)
		return []types.AnalysisResult{}, nil
	}

	a.logger.Info("Starting batch analysis",
		"directory", dir,
		"files", len(files),
		"concurrency", a.opts.Concurrency)

	results := make([]types.AnalysisResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(gctx, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.Info("Batch analysis completed", "directory", dir, "processed", len(results))
	return results, nil
}

// Batch runs BatchAnalyze and wraps the results with success counts.
func (a *Analyzer) Batch(ctx context.Context, dir string) (types.BatchAnalysis, error) {
	results, err := a.BatchAnalyze(ctx, dir)
	if err != nil {
		return types.BatchAnalysis{}, err
	}
	return Summarize(dir, results, a.now()), nil
}

// Summarize counts successes and failures in a batch.
func Summarize(dir string, results []types.AnalysisResult, at time.Time) types.BatchAnalysis {
	batch := types.BatchAnalysis{
		Directory: dir,
		Total:     len(results),
		Results:   results,
		Timestamp: at,
	}
	for _, r := range results {
		if r.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	return batch
}
