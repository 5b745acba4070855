// Package derive fills in the fields that are never written verbatim in
// tender documents: keywords, market universe, purchasing group, segment,
// family and status. Derived values go to the generated side of an entry
// and never overwrite an extracted value.
package derive

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/veille-marches/tender-cli/internal/learner"
	"github.com/veille-marches/tender-cli/internal/model"
	"github.com/veille-marches/tender-cli/internal/normalize"
)

// Generator derives values from an entry's extracted fields. The learner is
// optional; without it the static rules apply alone.
type Generator struct {
	learner *learner.Learner
	now     func() time.Time
}

func New(l *learner.Learner) *Generator {
	return &Generator{learner: l, now: time.Now}
}

// Apply computes every derivable field missing from the extracted values
// and stores the results in the entry's generated values.
func (g *Generator) Apply(e *model.Entry) {
	set := func(f model.Field, value string) {
		if value == "" {
			return
		}
		if _, ok := e.ValeursExtraites.Get(f); ok {
			return
		}
		if _, ok := e.ValeursGenerees.Get(f); ok {
			return
		}
		e.ValeursGenerees.Set(f, model.Text(value))
	}

	set(model.FieldMotsCles, g.Keywords(e.ValeursExtraites))
	set(model.FieldUnivers, g.Universe(e.ValeursExtraites))

	// AUTRE means "no known purchasing group" and is not worth persisting.
	if grp := g.Groupement(e.ValeursExtraites); grp != GroupementAutre {
		set(model.FieldGroupement, grp)
	}

	set(model.FieldStatut, g.Statut(e.ValeursExtraites))

	// Segment and famille read univers, which may itself be generated.
	ctx := e.Merged()
	set(model.FieldSegment, g.Segment(ctx))
	ctx = e.Merged()
	set(model.FieldFamille, g.Famille(ctx))
}

// stripAccents removes combining marks so keyword matching survives the
// accent variance of OCR output.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		zap.L().Debug("derive: accent stripping failed", zap.Error(err))
		return s
	}
	return out
}

var stopWords = map[string]bool{
	"appel": true, "offres": true, "offre": true, "marche": true, "marché": true,
	"public": true, "procédure": true, "procedure": true, "achat": true,
	"acquisition": true, "fourniture": true, "fournitures": true,
	"prestation": true, "prestations": true, "service": true, "services": true,
	"pour": true, "dans": true, "avec": true, "sans": true, "sous": true,
	"sur": true, "par": true, "depuis": true, "selon": true, "vers": true,
	"entre": true, "donnees": true, "données": true,
}

var reKeywordWord = regexp.MustCompile(`\b[a-zàâäéèêëïîôöùûüÿç]{4,}\b`)

// topicInjections add domain keywords when their trigger appears anywhere
// in the source text.
var topicInjections = []struct {
	triggers []string
	words    []string
}{
	{[]string{"formation"}, []string{"formation", "apprentissage", "développement"}},
	{[]string{"maintenance"}, []string{"maintenance", "entretien", "sav"}},
	{[]string{"logiciel", "application"}, []string{"logiciel", "application", "si"}},
	{[]string{"médical", "santé"}, []string{"médical", "santé", "soins"}},
	{[]string{"informatique", "numérique"}, []string{"informatique", "it", "numérique"}},
	{[]string{"consommable"}, []string{"consommable", "fourniture"}},
}

const maxKeywords = 10

// Keywords builds the comma separated keyword list from the procedure and
// lot titles plus the complementary information field.
func (g *Generator) Keywords(rec model.Record) string {
	sources := []string{
		textOf(rec, model.FieldIntituleProcedure),
		textOf(rec, model.FieldIntituleLot),
		textOf(rec, model.FieldInfosComplementaires),
	}

	var keywords []string
	for _, src := range sources {
		if src == "" {
			continue
		}
		for _, word := range reKeywordWord.FindAllString(strings.ToLower(src), -1) {
			if !stopWords[word] {
				keywords = append(keywords, word)
			}
		}
	}

	combined := strings.ToLower(strings.Join(sources, " "))
	for _, inj := range topicInjections {
		for _, trigger := range inj.triggers {
			if strings.Contains(combined, trigger) {
				keywords = append(keywords, inj.words...)
				break
			}
		}
	}

	var unique []string
	seen := make(map[string]bool)
	for _, w := range keywords {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		unique = append(unique, w)
		if len(unique) == maxKeywords {
			break
		}
	}

	if len(unique) == 0 {
		return "appel, offres, marché, public"
	}
	if len(unique) < 3 {
		unique = append(unique, "appel", "offres", "marché")
	}
	return strings.Join(unique, ", ")
}

// universeKeywords map each universe to its accent-stripped trigger words.
// On ties the declaration order decides, most specific first.
var universeKeywords = []struct {
	name  string
	words []string
}{
	{"Médical", []string{
		"medical", "sante", "soins", "hopital", "hospitalier", "clinique", "biomedical",
		"pharmacie", "pharmaceutique", "laboratoire", "imagerie", "radiologie", "bloc",
		"sterilisation", "medecine", "therapeutique", "diagnostic", "chirurgie", "anesthesie",
	}},
	{"Informatique", []string{
		"informatique", "systeme information", "logiciel", "software",
		"application", "applicatif", "numerique", "digital", "reseau", "cybersecurite",
		"securite informatique", "cloud", "serveur", "poste",
		"licence", "pgi", "erp", "saas", "intelligence artificielle",
		"base de donnees", "telecommunication",
	}},
	{"Equipement", []string{
		"equipement", "materiel", "appareil", "machine", "outillage", "dispositif",
		"instrument", "equipements", "materiaux", "outils", "borne", "terminal",
		"appareillage", "installation technique",
	}},
	// Office supplies and hygiene only. Medical disposables (gants,
	// masques, seringues) stay out of this list so a supply tender for a
	// care service still resolves to Médical.
	{"Consommable", []string{
		"consommable", "consommables", "fourniture", "fournitures", "jetable",
		"cartouche", "cartouches", "toner", "papier", "encre",
		"hygiene", "desinfectant",
	}},
	{"Mobilier", []string{
		"mobilier", "meuble", "meubles", "ameublement", "fauteuil", "chaise",
		"bureau", "armoire", "table", "rangement", "siege",
		"etagere", "lit medical", "brancard",
	}},
	{"Vehicules", []string{
		"vehicule", "vehicules", "voiture", "automobile", "camion", "utilitaire",
		"bus", "minibus", "ambulance", "fourgon", "berline", "engin", "transport",
	}},
	{"Service", []string{
		"service", "prestations", "prestation", "maintenance", "nettoyage",
		"securite", "gardiennage", "restauration", "hebergement", "formation",
		"assistance", "support", "infogerance", "conseil",
		"prestation intellectuelle",
	}},
}

const UniverseDefault = "Service"

// Universe classifies the entry into the seven-universe taxonomy by
// counting keyword hits on accent-stripped text.
func (g *Generator) Universe(rec model.Record) string {
	combined := strings.ToLower(strings.Join([]string{
		textOf(rec, model.FieldIntituleProcedure),
		textOf(rec, model.FieldIntituleLot),
		textOf(rec, model.FieldInfosComplementaires),
		textOf(rec, model.FieldExecutionMarche),
	}, " "))
	if strings.TrimSpace(combined) == "" {
		return UniverseDefault
	}
	text := stripAccents(combined)

	best := ""
	bestScore := 0
	for _, u := range universeKeywords {
		score := 0
		for _, w := range u.words {
			if strings.Contains(text, w) {
				score++
			}
		}
		// Strict comparison keeps the declaration-order priority on ties.
		if score > bestScore {
			best, bestScore = u.name, score
		}
	}
	if best == "" {
		return UniverseDefault
	}
	return best
}

const GroupementAutre = "AUTRE"

var groupementPatterns = []struct {
	name     string
	patterns []*regexp.Regexp
}{
	{"RESAH", []*regexp.Regexp{
		regexp.MustCompile(`\bresah\b`),
		regexp.MustCompile(`reseau.*sante.*hospitalier`),
		regexp.MustCompile(`reseau.*sante`),
	}},
	{"UGAP", []*regexp.Regexp{
		regexp.MustCompile(`\bugap\b`),
		regexp.MustCompile(`union.*groupement.*achat.*public`),
		regexp.MustCompile(`union.*groupement`),
	}},
	{"UNIHA", []*regexp.Regexp{
		regexp.MustCompile(`\buniha\b`),
		regexp.MustCompile(`union.*hospitaliere.*achat`),
		regexp.MustCompile(`union.*hospitaliere`),
	}},
	{"CAIH", []*regexp.Regexp{
		regexp.MustCompile(`\bcaih\b`),
		regexp.MustCompile(`centre.*achat.*inter.*hospitalier`),
	}},
}

// Groupement detects the purchasing group, AUTRE when none matches.
func (g *Generator) Groupement(rec model.Record) string {
	text := strings.Join([]string{
		textOf(rec, model.FieldGroupement),
		textOf(rec, model.FieldIntituleProcedure),
		textOf(rec, model.FieldInfosComplementaires),
		textOf(rec, model.FieldExecutionMarche),
	}, " ")
	text = stripAccents(strings.ToLower(text))

	for _, grp := range groupementPatterns {
		for _, re := range grp.patterns {
			if re.MatchString(text) {
				return grp.name
			}
		}
	}
	return GroupementAutre
}

// Statut infers where the procedure stands in its life cycle.
func (g *Generator) Statut(rec model.Record) string {
	attribution := textOf(rec, model.FieldDateAttribution)
	attributaire := textOf(rec, model.FieldAttributaire)

	if attribution != "" && looksLikeDate(attribution) {
		return "Attribué"
	}
	if len(strings.TrimSpace(attributaire)) > 2 {
		return "Attribué"
	}

	if limite := textOf(rec, model.FieldDateLimite); limite != "" {
		if t, ok := normalize.ParseDate(limite); ok && t.Before(g.now()) {
			return "Clôturé"
		}
	}

	if rec.Has(model.FieldReferenceProcedure) && rec.Has(model.FieldIntituleProcedure) {
		return "En cours"
	}
	return ""
}

var reDateLike = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}`)

func looksLikeDate(s string) bool { return reDateLike.MatchString(s) }

// segmentByUniverse holds the default segment per universe.
var segmentByUniverse = map[string]string{
	"Médical":      "Hospitalier",
	"Informatique": "Logiciels",
	"Equipement":   "Equipements techniques",
	"Consommable":  "Consommables médicaux",
	"Mobilier":     "Mobilier hospitalier",
	"Vehicules":    "Véhicules de service",
	"Service":      "Services",
}

// Segment suggests the market segment, preferring what the learner has seen
// in history over static inference.
func (g *Generator) Segment(rec model.Record) string {
	if g.learner != nil && g.learner.Trained() {
		if v, ok := g.learner.Suggest(model.FieldSegment, rec); ok {
			return v
		}
	}

	if univers := textOf(rec, model.FieldUnivers); univers != "" {
		if segment, ok := segmentByUniverse[univers]; ok {
			return segment
		}
	}

	intitule := strings.ToLower(titleOf(rec))
	switch {
	case containsAnyWord(intitule, "hospitalier", "hopital", "hôpital", "clinique", "etablissement"):
		return "Hospitalier"
	case containsAnyWord(intitule, "sante publique", "santé publique", "collectivite"):
		return "Santé publique"
	case containsAnyWord(intitule, "logiciel", "application", "informatique"):
		return "Logiciels"
	case containsAnyWord(intitule, "maintenance", "entretien", "support"):
		return "Services"
	case containsAnyWord(intitule, "equipement", "materiel", "appareil"):
		return "Equipements techniques"
	}

	switch textOf(rec, model.FieldGroupement) {
	case "RESAH", "UGAP", "UNIHA", "CAIH":
		return "Hospitalier"
	}
	return ""
}

// Famille refines the segment into a product family.
func (g *Generator) Famille(rec model.Record) string {
	if g.learner != nil && g.learner.Trained() {
		if v, ok := g.learner.Suggest(model.FieldFamille, rec); ok {
			return v
		}
	}

	univers := textOf(rec, model.FieldUnivers)
	intitule := strings.ToLower(titleOf(rec))

	switch univers {
	case "Médical":
		switch {
		case containsAnyWord(intitule, "sterilisation", "stérilisation", "desinfection"):
			return "Stérilisation"
		case containsAnyWord(intitule, "consommable", "jetable", "reactif"):
			return "Consommables médicaux"
		case containsAnyWord(intitule, "imagerie", "radiologie", "scanner"):
			return "Imagerie médicale"
		case containsAnyWord(intitule, "laboratoire", "analyse", "diagnostic"):
			return "Biologie médicale"
		}
		return "Matériel médical"

	case "Informatique":
		switch {
		case containsAnyWord(intitule, "erp", "pgi", "logiciel gestion"):
			return "Logiciels ERP/PGI"
		case containsAnyWord(intitule, "licence", "software", "application"):
			return "Logiciels"
		case containsAnyWord(intitule, "cloud", "saas", "infrastructure"):
			return "Solutions Cloud"
		case containsAnyWord(intitule, "securite", "sécurité", "cybersecurite"):
			return "Cybersécurité"
		}
		return "Logiciels et applications"

	case "Equipement":
		switch {
		case containsAnyWord(intitule, "medical", "médical", "biomedical"):
			return "Équipements médicaux"
		case containsAnyWord(intitule, "technique", "industriel", "outillage"):
			return "Équipements techniques"
		}
		return "Matériel et équipements"

	case "Consommable":
		switch {
		case containsAnyWord(intitule, "medical", "médical", "hopital"):
			return "Consommables médicaux"
		case containsAnyWord(intitule, "bureau", "papier", "toner", "encre"):
			return "Fournitures de bureau"
		}
		return "Consommables"

	case "Mobilier":
		if containsAnyWord(intitule, "medical", "médical", "hopital", "clinique") {
			return "Mobilier médical"
		}
		return "Mobilier"

	case "Vehicules":
		return "Véhicules"

	case "Service":
		switch {
		case containsAnyWord(intitule, "maintenance", "entretien", "sav"):
			return "Maintenance"
		case containsAnyWord(intitule, "formation", "apprentissage"):
			return "Formation"
		case containsAnyWord(intitule, "nettoyage", "hygiene", "propreté"):
			return "Services de nettoyage"
		}
		return "Services"
	}

	if intitule != "" {
		switch {
		case containsAnyWord(intitule, "formation", "apprentissage"):
			return "Formation"
		case containsAnyWord(intitule, "maintenance", "entretien"):
			return "Maintenance"
		case containsAnyWord(intitule, "logiciel", "application", "erp"):
			return "Logiciels"
		}
	}
	return ""
}

func textOf(rec model.Record, f model.Field) string {
	if v, ok := rec.Get(f); ok {
		return v.AsText()
	}
	return ""
}

// titleOf is the procedure title, falling back to the lot title.
func titleOf(rec model.Record) string {
	if t := textOf(rec, model.FieldIntituleProcedure); t != "" {
		return t
	}
	return textOf(rec, model.FieldIntituleLot)
}

func containsAnyWord(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// SortedUniverses lists the taxonomy for CLI display.
func SortedUniverses() []string {
	names := make([]string, 0, len(universeKeywords))
	for _, u := range universeKeywords {
		names = append(names, u.name)
	}
	sort.Strings(names)
	return names
}
