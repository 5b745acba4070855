package extractor

import (
	"strings"

	"github.com/veille-marches/tender-cli/internal/model"
)

// sectionStops end a section slice. A field pattern searched inside its own
// section cannot leak into the next article.
var sectionStops = []string{
	"\n\n",
	"\narticle",
	"\nsection",
	"\nchapitre",
	"\nannexe",
	"\nlot ",
}

// sectionAnchors maps a field to the keywords that open its section. The
// first keyword found in the document wins.
var sectionAnchors = map[model.Field][]string{
	model.FieldDateLimite:              {"date limite", "date de remise", "échéance", "echeance", "clôture", "cloture"},
	model.FieldDateAttribution:         {"date d'attribution", "attribution"},
	model.FieldDateNotification:        {"date de notification", "notification"},
	model.FieldDureeMarche:             {"durée du marché", "duree du marche", "durée de l'accord", "durée"},
	model.FieldExecutionMarche:         {"exécution du marché", "execution du marche", "lieu d'exécution"},
	model.FieldReconduction:            {"reconduction", "reconductible"},
	model.FieldFinSansReconduction:     {"fin sans reconduction"},
	model.FieldFinAvecReconduction:     {"fin avec reconduction"},
	model.FieldRSE:                     {"rse", "responsabilité sociétale", "développement durable"},
	model.FieldContributionFournisseur: {"contribution fournisseur", "contribution du fournisseur"},
	model.FieldInfosComplementaires:    {"informations complémentaires", "informations complementaires", "renseignements complémentaires"},
	model.FieldAchat:                   {"achat"},
	model.FieldCreditBail:              {"crédit-bail", "credit-bail", "crédit bail"},
	model.FieldLocation:                {"location"},
	model.FieldMAD:                     {"mise à disposition", "mise a disposition", "mad"},
	model.FieldAttributaire:            {"attributaire", "titulaire", "adjudicataire"},
	model.FieldProduitRetenu:           {"produit retenu", "offre retenue"},
	model.FieldSegment:                 {"segment"},
	model.FieldFamille:                 {"famille"},
}

// splitSections slices the document into per-field search windows. Fields
// without an anchor keyword in the text are absent from the result and fall
// back to the full document.
func splitSections(text string) map[model.Field]string {
	lower := strings.ToLower(text)
	out := make(map[model.Field]string, len(sectionAnchors))
	for f, anchors := range sectionAnchors {
		for _, kw := range anchors {
			if s := grab(text, lower, kw); s != "" {
				out[f] = s
				break
			}
		}
	}
	return out
}

// grab returns the window opening at the first occurrence of keyword, cut
// at the nearest stop marker. The keyword stays in the window so that
// label-bearing patterns like "date limite ... : JJ/MM/AAAA" can still
// match inside it.
func grab(text, lower, keyword string) string {
	idx := strings.Index(lower, keyword)
	if idx < 0 {
		return ""
	}
	after := idx + len(keyword)
	rest := lower[after:]
	end := len(rest)
	for _, stop := range sectionStops {
		if i := strings.Index(rest, stop); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(text[idx : after+end])
}
