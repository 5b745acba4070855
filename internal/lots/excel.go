package lots

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/model"
)

// ExcelTable targets text flattened from spreadsheet rows, where each lot
// sits on one line as "numero title amount [amount]". It requires at least
// three rows before trusting a pattern, since two numbered lines occur in
// plenty of non-tabular prose.
type ExcelTable struct{}

func (s *ExcelTable) Name() string { return "ExcelTable" }

const excelMinRows = 3

var excelRowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ /().\t-]+?)\s+(\d+(?:[.,]\d+)?)\s+(\d+(?:[.,]\d+)?)\s*$`),
	regexp.MustCompile(`(?m)^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ /().\t-]+?)\s+(\d+(?:[.,]\d+)?)\s*$`),
	regexp.MustCompile(`(?m)^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ /().\t-]+?)\s*$`),
}

func (s *ExcelTable) Detect(text string) []model.LotCandidate {
	for i, re := range excelRowPatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) < excelMinRows {
			continue
		}
		var lots []model.LotCandidate
		for _, m := range matches {
			numero, err := strconv.Atoi(m[1])
			if err != nil || !model.ValidNumero(numero) {
				continue
			}
			lot := model.LotCandidate{
				Numero:     numero,
				Intitule:   cleanTitle(m[2]),
				Sources:    []string{"ExcelTable"},
				Confidence: 1,
			}
			if len(m) > 3 && m[3] != "" {
				lot.MontantEstime = parseTableAmount(m[3])
				lot.MontantMaxi = lot.MontantEstime
			}
			if len(m) > 4 && m[4] != "" {
				lot.MontantMaxi = parseTableAmount(m[4])
			}
			lots = append(lots, lot)
		}
		lots = dedupeByNumero(lots)
		if len(lots) >= excelMinRows {
			zap.L().Debug("lots: excel table pattern matched",
				zap.Int("pattern", i+1), zap.Int("lots", len(lots)))
			return lots
		}
	}
	return nil
}
