// Package lots detects tender lots in document text. Five strategies run
// over the same text and their candidates are fused into one list, so a
// lot missed by one strategy can still be recovered by another.
package lots

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/model"
)

// Strategy proposes lot candidates from raw text. Strategies never fail:
// text they cannot read yields no candidates.
type Strategy interface {
	Name() string
	Detect(text string) []model.LotCandidate
}

// fusePriority orders strategies from most to least trusted. The first
// strategy to report a numero owns the lot; later ones only complete it.
var fusePriority = []string{
	"LineAnalysis",
	"StructuredTable",
	"FlexiblePatterns",
	"MultiLineTitles",
	"ExcelTable",
}

// All returns the full strategy set in execution order.
func All() []Strategy {
	return []Strategy{
		&LineAnalysis{},
		&StructuredTable{},
		&MultiLineTitles{},
		&FlexiblePatterns{},
		&ExcelTable{},
	}
}

// Detect runs every strategy over the text and fuses the results.
func Detect(text string) []model.LotCandidate {
	byStrategy := make(map[string][]model.LotCandidate)
	for _, s := range All() {
		if found := s.Detect(text); len(found) > 0 {
			byStrategy[s.Name()] = found
			zap.L().Debug("lots: strategy results",
				zap.String("strategy", s.Name()), zap.Int("count", len(found)))
		}
	}
	return Fuse(byStrategy)
}

// Fuse merges per-strategy candidates into one list keyed by numero.
// Within priority order, the first strategy to report a numero creates the
// canonical lot; later strategies may only replace a strictly longer title
// or fill amounts that are still zero. Sources accumulate.
func Fuse(byStrategy map[string][]model.LotCandidate) []model.LotCandidate {
	merged := make(map[int]*model.LotCandidate)

	for _, name := range fusePriority {
		for _, lot := range byStrategy[name] {
			if !model.ValidNumero(lot.Numero) {
				continue
			}
			existing, ok := merged[lot.Numero]
			if !ok {
				c := lot
				if len(c.Sources) == 0 {
					c.Sources = []string{name}
				}
				merged[lot.Numero] = &c
				continue
			}
			if len(lot.Intitule) > len(existing.Intitule) && lot.Intitule != "" {
				existing.Intitule = lot.Intitule
			}
			if existing.MontantEstime == 0 && lot.MontantEstime > 0 {
				existing.MontantEstime = lot.MontantEstime
			}
			if existing.MontantMaxi == 0 && lot.MontantMaxi > 0 {
				existing.MontantMaxi = lot.MontantMaxi
			}
			if !hasSource(existing.Sources, name) {
				existing.Sources = append(existing.Sources, name)
			}
		}
	}

	result := make([]model.LotCandidate, 0, len(merged))
	for _, lot := range merged {
		result = append(result, *lot)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Numero < result[j].Numero })

	if len(result) > 0 {
		zap.L().Info("lots: fusion complete",
			zap.Int("unique", len(result)), zap.Int("strategies", len(byStrategy)))
	}
	return result
}

func hasSource(sources []string, name string) bool {
	for _, s := range sources {
		if s == name || strings.HasPrefix(s, name) {
			return true
		}
	}
	return false
}
