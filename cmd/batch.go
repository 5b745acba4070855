package main

import (
	"context"
	"io/fs"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/veille-marches/tender-cli/internal/model"
)

var batchLimit int

// batchExtensions are the document types picked up from a batch directory.
var batchExtensions = map[string]bool{
	".pdf":  true,
	".xlsx": true,
	".xls":  true,
	".csv":  true,
	".zip":  true,
	".txt":  true,
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every tender document under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		files, err := collectBatchFiles(args[0], batchLimit)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			zap.L().Info("no documents found", zap.String("dir", args[0]))
			return nil
		}

		return processBatch(ctx, env, args[0], files, cfg.Batch.MaxConcurrentFiles)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of files to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// collectBatchFiles walks dir and returns supported document paths in walk
// order, applying limit when positive.
func collectBatchFiles(dir string, limit int) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if batchExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "walk %s", dir)
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// processBatch extracts files concurrently and records the run as a batch.
// Individual file failures are logged and counted, never abort the batch.
func processBatch(ctx context.Context, env *env, source string, files []string, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 5
	}

	batch, err := env.Store.CreateBatch(ctx, source)
	if err != nil {
		return err
	}

	zap.L().Info("processing batch",
		zap.String("batch_id", batch.ID),
		zap.Int("files", len(files)),
		zap.Int("concurrency", concurrency),
	)

	var saved, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, path := range files {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			entries := extractEntries(gctx, env, path)
			if len(entries) == 1 && entries[0].Erreur != "" {
				failed.Add(1)
			}

			n, err := env.Store.UpsertEntries(gctx, entries)
			if err != nil {
				failed.Add(1)
				log.Error("entries not persisted", zap.Error(err))
				return nil // don't abort batch on individual failure
			}
			saved.Add(int64(n))
			log.Info("file extracted", zap.Int("entries", len(entries)), zap.Int("saved", n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	if err := env.Store.CompleteBatch(ctx, batch.ID, len(files), int(saved.Load()), int(failed.Load())); err != nil {
		return err
	}

	zap.L().Info("batch complete",
		zap.Int64("entries_saved", saved.Load()),
		zap.Int64("files_failed", failed.Load()),
	)
	return nil
}

// extractEntries runs one file through the extractor, downgrading failure
// to a single error entry so every file yields a result list.
func extractEntries(ctx context.Context, env *env, path string) []*model.Entry {
	entries, err := env.Extractor.ExtractFile(ctx, path)
	if err != nil {
		zap.L().Error("extraction failed", zap.String("file", path), zap.Error(err))
		return []*model.Entry{model.ErrorEntry("extraction", "extraction impossible", err.Error())}
	}
	return entries
}
