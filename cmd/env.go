package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/catalog"
	"github.com/veille-marches/tender-cli/internal/derive"
	"github.com/veille-marches/tender-cli/internal/extractor"
	"github.com/veille-marches/tender-cli/internal/learner"
	"github.com/veille-marches/tender-cli/internal/ocr"
	"github.com/veille-marches/tender-cli/internal/store"
	"github.com/veille-marches/tender-cli/internal/validate"
)

// env bundles the wired subsystems a command needs.
type env struct {
	Catalog   *catalog.Catalog
	Learner   *learner.Learner
	Extractor *extractor.Extractor
	Store     store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("store close", zap.Error(err))
		}
	}
}

// initEnv opens the store, trains the learner from stored history and wires
// the extraction pipeline. History is optional: an empty database still
// yields a working extractor, just without learned suggestions.
func initEnv(ctx context.Context) (*env, error) {
	cat := catalog.New()
	if cfg.Patterns.File != "" {
		if err := cat.LoadFile(cfg.Patterns.File); err != nil {
			return nil, eris.Wrap(err, "load pattern catalog")
		}
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	lrn := learner.New(cfg.Learner.MinSupport)
	history, err := st.ListHistory(ctx, cfg.Learner.HistoryLimit)
	if err != nil {
		zap.L().Warn("history unavailable, learner stays untrained", zap.Error(err))
	} else if len(history) > 0 {
		lrn.Train(history)
		zap.L().Info("learner trained", zap.Int("records", len(history)))
	}

	pdf, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "ocr provider")
	}

	ext := extractor.New(cat, derive.New(lrn), validate.New(), pdf, cfg.Extract)

	return &env{
		Catalog:   cat,
		Learner:   lrn,
		Extractor: ext,
		Store:     st,
	}, nil
}
