package lots

import (
	"regexp"
	"strconv"

	"github.com/veille-marches/tender-cli/internal/model"
)

// StructuredTable reads the classic four column lot table:
// numero, title, estimated amount, maximum amount.
type StructuredTable struct{}

var reStructuredRow = regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s+(\d+(?:\s\d{3})*)\s*€?\s+(\d+(?:\s\d{3})*)\s*€?\s*(?:\n|$)`)

func (s *StructuredTable) Name() string { return "StructuredTable" }

func (s *StructuredTable) Detect(text string) []model.LotCandidate {
	var lots []model.LotCandidate
	for _, m := range reStructuredRow.FindAllStringSubmatch(text, -1) {
		numero, err := strconv.Atoi(m[1])
		if err != nil || !model.ValidNumero(numero) {
			continue
		}
		lots = append(lots, model.LotCandidate{
			Numero:        numero,
			Intitule:      cleanTitle(m[2]),
			MontantEstime: parseTableAmount(m[3]),
			MontantMaxi:   parseTableAmount(m[4]),
			Sources:       []string{"StructuredTable"},
			Confidence:    1,
		})
	}
	return lots
}
