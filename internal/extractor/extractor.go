// Package extractor turns raw document text into structured procurement
// entries. It runs the pattern catalog over section-scoped text, detects
// lots, derives classification fields and validates every entry it emits.
package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/veille-marches/tender-cli/internal/catalog"
	"github.com/veille-marches/tender-cli/internal/config"
	"github.com/veille-marches/tender-cli/internal/derive"
	"github.com/veille-marches/tender-cli/internal/lots"
	"github.com/veille-marches/tender-cli/internal/model"
	"github.com/veille-marches/tender-cli/internal/normalize"
	"github.com/veille-marches/tender-cli/internal/ocr"
	"github.com/veille-marches/tender-cli/internal/validate"
)

// generalFields are probed on every document, independent of lots.
var generalFields = []model.Field{
	model.FieldReferenceProcedure,
	model.FieldIntituleProcedure,
	model.FieldGroupement,
	model.FieldTypeProcedure,
	model.FieldMonoMulti,
	model.FieldDateLimite,
	model.FieldDateAttribution,
	model.FieldDateNotification,
	model.FieldDureeMarche,
	model.FieldMontantGlobalEstime,
	model.FieldMontantGlobalMaxi,
	model.FieldQuantiteMinimum,
	model.FieldQuantitesEstimees,
	model.FieldQuantiteMaximum,
	model.FieldExecutionMarche,
	model.FieldReconduction,
	model.FieldFinSansReconduction,
	model.FieldFinAvecReconduction,
	model.FieldRSE,
	model.FieldContributionFournisseur,
	model.FieldAchat,
	model.FieldCreditBail,
	model.FieldCreditBailDuree,
	model.FieldLocation,
	model.FieldLocationDuree,
	model.FieldMAD,
	model.FieldAttributaire,
	model.FieldProduitRetenu,
	model.FieldSegment,
	model.FieldFamille,
	model.FieldInfosComplementaires,
}

// lotCriteriaFields are re-extracted from each lot's own context when the
// document details criteria per lot.
var lotCriteriaFields = []model.Field{
	model.FieldCriteresEconomique,
	model.FieldCriteresTechniques,
	model.FieldAutresCriteres,
}

// Extractor wires the catalog, the derivation generator, the validation
// engine and the PDF reader behind a single entry point.
type Extractor struct {
	catalog *catalog.Catalog
	gen     *derive.Generator
	engine  *validate.Engine
	pdf     ocr.Extractor
	cfg     config.ExtractConfig
}

func New(cat *catalog.Catalog, gen *derive.Generator, engine *validate.Engine, pdf ocr.Extractor, cfg config.ExtractConfig) *Extractor {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if pdf == nil {
		pdf = ocr.NewPdfToText("")
	}
	return &Extractor{catalog: cat, gen: gen, engine: engine, pdf: pdf, cfg: cfg}
}

// ExtractText runs the full pipeline on document text. Documents with
// detected lots yield one entry per lot; everything else yields a single
// "Lot unique" entry.
func (e *Extractor) ExtractText(ctx context.Context, text string) ([]*model.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, eris.New("extractor: empty document")
	}
	if e.cfg.OCRCleanup {
		text = normalize.CleanOCR(text)
	}

	general, err := e.generalInfo(ctx, text)
	if err != nil {
		return nil, eris.Wrap(err, "extractor: general fields")
	}

	detected := lots.Detect(text)
	zap.L().Debug("extractor: document analysed",
		zap.Int("general_fields", len(general)),
		zap.Int("lots", len(detected)))

	var entries []*model.Entry
	if len(detected) > 0 {
		for _, lot := range detected {
			entries = append(entries, e.lotEntry(text, general, lot, len(detected)))
		}
	} else {
		entries = append(entries, e.singleEntry(text, general))
	}

	for _, entry := range entries {
		e.gen.Apply(entry)
		res := e.engine.Validate(entry.Merged())
		entry.Validation = &res
		entry.ComputeStats()
	}
	return entries, nil
}

// generalInfo extracts the document-level fields concurrently, one goroutine
// per field, each writing its own result slot.
func (e *Extractor) generalInfo(ctx context.Context, text string) (model.Record, error) {
	title := DocumentTitle(text, e.cfg.TitleMaxLines)
	sections := splitSections(text)

	results := make([]model.Value, len(generalFields))
	found := make([]bool, len(generalFields))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, f := range generalFields {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			search := text
			if s, ok := sections[f]; ok && s != "" {
				search = s
			}
			raws := e.catalog.ExtractField(search, f)
			if len(raws) == 0 {
				return nil
			}
			if v, ok := normalize.Value(f, raws[0]); ok {
				results[i] = v
				found[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := make(model.Record, len(generalFields))
	for i, f := range generalFields {
		if found[i] {
			rec.Set(f, results[i])
		}
	}

	// The detected title outranks a pattern hit unless the pattern found a
	// strictly longer intitule.
	if len([]rune(title)) >= 10 {
		if cur, ok := rec.Get(model.FieldIntituleProcedure); !ok || len(cur.AsText()) <= len(title) {
			rec.Set(model.FieldIntituleProcedure, model.Text(title))
		}
	}
	if v, ok := rec.Get(model.FieldTypeProcedure); ok {
		if norm := normalizeTypeProcedure(v.AsText()); norm != "" {
			rec.Set(model.FieldTypeProcedure, model.Text(norm))
		}
	}
	return rec, nil
}

func (e *Extractor) lotEntry(text string, general model.Record, lot model.LotCandidate, nbrLots int) *model.Entry {
	entry := model.NewEntry()
	entry.ValeursExtraites = general.Clone()
	rec := entry.ValeursExtraites

	rec.Set(model.FieldNbrLots, model.Int(nbrLots))
	rec.Set(model.FieldLotNumero, model.Int(lot.Numero))
	if lot.Intitule != "" {
		rec.Set(model.FieldIntituleLot, model.Text(lot.Intitule))
	}
	if lot.MontantEstime > 0 {
		rec.Set(model.FieldMontantGlobalEstime, model.Amount(lot.MontantEstime))
	}
	if lot.MontantMaxi > 0 {
		rec.Set(model.FieldMontantGlobalMaxi, model.Amount(lot.MontantMaxi))
	}
	if lot.QuantiteMin > 0 {
		rec.Set(model.FieldQuantiteMinimum, model.Amount(lot.QuantiteMin))
	}
	if lot.QuantiteEst > 0 {
		rec.Set(model.FieldQuantitesEstimees, model.Text(strconv.FormatFloat(lot.QuantiteEst, 'f', -1, 64)))
	}
	if lot.QuantiteMax > 0 {
		rec.Set(model.FieldQuantiteMaximum, model.Amount(lot.QuantiteMax))
	}

	e.lotCriteria(text, lot, rec)

	if lot.RSE != "" && !rec.Has(model.FieldRSE) {
		if v, ok := normalize.Value(model.FieldRSE, lot.RSE); ok {
			rec.Set(model.FieldRSE, v)
		}
	}
	if lot.Contribution != "" && !rec.Has(model.FieldContributionFournisseur) {
		if v, ok := normalize.Value(model.FieldContributionFournisseur, lot.Contribution); ok {
			rec.Set(model.FieldContributionFournisseur, v)
		}
	}

	e.setMonoMulti(rec, nbrLots)
	return entry
}

func (e *Extractor) singleEntry(text string, general model.Record) *model.Entry {
	entry := model.NewEntry()
	entry.ValeursExtraites = general.Clone()
	rec := entry.ValeursExtraites

	for _, f := range lotCriteriaFields {
		if rec.Has(f) {
			continue
		}
		if vals := e.catalog.ExtractField(text, f); len(vals) > 0 {
			if v, ok := normalize.Value(f, vals[0]); ok {
				rec.Set(f, v)
			}
		}
	}

	rec.Set(model.FieldNbrLots, model.Int(1))
	rec.Set(model.FieldLotNumero, model.Int(1))
	if !rec.Has(model.FieldIntituleLot) {
		if v, ok := rec.Get(model.FieldIntituleProcedure); ok && v.AsText() != "" {
			rec.Set(model.FieldIntituleLot, model.Text(v.AsText()))
		} else {
			rec.Set(model.FieldIntituleLot, model.Text("Lot unique"))
		}
	}
	e.setMonoMulti(rec, 1)
	return entry
}

// lotCriteria prefers criteria stated inside the lot's own paragraph, then
// falls back to whatever the detection strategy captured on the lot.
func (e *Extractor) lotCriteria(text string, lot model.LotCandidate, rec model.Record) {
	ctx := lotContext(text, lot.Numero)
	fallbacks := map[model.Field]string{
		model.FieldCriteresEconomique: lot.CritEconomique,
		model.FieldCriteresTechniques: lot.CritTechniques,
		model.FieldAutresCriteres:     lot.AutresCriteres,
	}
	for _, f := range lotCriteriaFields {
		raw := ""
		if ctx != "" {
			if vals := e.catalog.ExtractField(ctx, f); len(vals) > 0 {
				raw = vals[0]
			}
		}
		if raw == "" {
			raw = fallbacks[f]
		}
		if raw == "" {
			continue
		}
		if v, ok := normalize.Value(f, raw); ok {
			rec.Set(f, v)
		}
	}
}

func (e *Extractor) setMonoMulti(rec model.Record, nbrLots int) {
	if v, ok := rec.Get(model.FieldMonoMulti); ok {
		if norm := normalizeMonoMulti(v.AsText()); norm != "" {
			rec.Set(model.FieldMonoMulti, model.Text(norm))
		}
		return
	}
	if nbrLots > 1 {
		rec.Set(model.FieldMonoMulti, model.Text("Multi-attributif"))
	} else {
		rec.Set(model.FieldMonoMulti, model.Text("Mono-attributif"))
	}
}

var reLotContextEnd = regexp.MustCompile(`(?i)\n\s*lot\s*n?°?\s*\d`)

// lotContext returns the paragraph following the "Lot n° N" heading, cut at
// the next lot heading or blank line.
func lotContext(text string, numero int) string {
	re := regexp.MustCompile(fmt.Sprintf(`(?i)lot\s*n?°?\s*%d\b[^\n]*\n`, numero))
	loc := re.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	end := len(rest)
	if i := reLotContextEnd.FindStringIndex(rest); i != nil && i[0] < end {
		end = i[0]
	}
	if i := strings.Index(rest, "\n\n"); i >= 0 && i < end {
		end = i
	}
	return strings.TrimSpace(rest[:end])
}

// normalizeTypeProcedure folds free-form procedure wording onto the closed
// vocabulary used downstream. Unrecognised wording longer than five
// characters is kept as extracted.
func normalizeTypeProcedure(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "ouvert") && (strings.Contains(lower, "appel") || strings.Contains(lower, "offre")):
		return "Appel d'offres ouvert"
	case strings.Contains(lower, "restreint"):
		return "Appel d'offres restreint"
	case strings.Contains(lower, "consultation") || strings.Contains(lower, "marché de services") || strings.Contains(lower, "marche de services"):
		return "Consultation"
	case strings.Contains(lower, "achat direct") || strings.Contains(lower, "commande"):
		return "Achat direct"
	case strings.Contains(lower, "convention") || strings.Contains(lower, "accord cadre") || strings.Contains(lower, "accord-cadre"):
		return "Convention"
	}
	if len([]rune(s)) > 5 {
		return s
	}
	return ""
}

// normalizeMonoMulti folds attribution wording onto Mono-attributif or
// Multi-attributif, returning "" when the wording decides neither.
func normalizeMonoMulti(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "multi") || strings.Contains(lower, "alloti"):
		return "Multi-attributif"
	case strings.Contains(lower, "mono") || strings.Contains(lower, "unique"):
		return "Mono-attributif"
	}
	return ""
}
