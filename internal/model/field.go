package model

// Field identifies one of the known record fields of a tender document.
type Field string

// Procedure-level fields.
const (
	FieldReferenceProcedure      Field = "reference_procedure"
	FieldIntituleProcedure       Field = "intitule_procedure"
	FieldGroupement              Field = "groupement"
	FieldTypeProcedure           Field = "type_procedure"
	FieldMonoMulti               Field = "mono_multi"
	FieldDateLimite              Field = "date_limite"
	FieldDateAttribution         Field = "date_attribution"
	FieldDateNotification        Field = "date_notification"
	FieldDureeMarche             Field = "duree_marche"
	FieldMontantGlobalEstime     Field = "montant_global_estime"
	FieldMontantGlobalMaxi       Field = "montant_global_maxi"
	FieldQuantiteMinimum         Field = "quantite_minimum"
	FieldQuantitesEstimees       Field = "quantites_estimees"
	FieldQuantiteMaximum         Field = "quantite_maximum"
	FieldCriteresEconomique      Field = "criteres_economique"
	FieldCriteresTechniques      Field = "criteres_techniques"
	FieldAutresCriteres          Field = "autres_criteres"
	FieldRSE                     Field = "rse"
	FieldContributionFournisseur Field = "contribution_fournisseur"
	FieldInfosComplementaires    Field = "infos_complementaires"
	FieldExecutionMarche         Field = "execution_marche"
	FieldReconduction            Field = "reconduction"
	FieldFinSansReconduction     Field = "fin_sans_reconduction"
	FieldFinAvecReconduction     Field = "fin_avec_reconduction"
)

// Acquisition-mode fields.
const (
	FieldAchat           Field = "achat"
	FieldCreditBail      Field = "credit_bail"
	FieldCreditBailDuree Field = "credit_bail_duree"
	FieldLocation        Field = "location"
	FieldLocationDuree   Field = "location_duree"
	FieldMAD             Field = "mad"
)

// Attribution fields.
const (
	FieldAttributaire  Field = "attributaire"
	FieldProduitRetenu Field = "produit_retenu"
)

// Classification and derived fields.
const (
	FieldSegment  Field = "segment"
	FieldFamille  Field = "famille"
	FieldUnivers  Field = "univers"
	FieldMotsCles Field = "mots_cles"
	FieldStatut   Field = "statut"
)

// Lot fields.
const (
	FieldNbrLots     Field = "nbr_lots"
	FieldLotNumero   Field = "lot_numero"
	FieldIntituleLot Field = "intitule_lot"
)

// Free-form buyer note fields.
const (
	FieldRemarques                      Field = "remarques"
	FieldNotesAcheteurProcedure         Field = "notes_acheteur_procedure"
	FieldNotesAcheteurFournisseur       Field = "notes_acheteur_fournisseur"
	FieldNotesAcheteurPositionnement    Field = "notes_acheteur_positionnement"
)

// FieldSpec describes how a field is extracted and typed.
type FieldSpec struct {
	Field       Field
	Category    string
	Subcategory string
	Kind        Kind
	Essential   bool
}

// specs is the closed registry of known fields. Category and subcategory
// address the pattern catalog; kind drives value normalization. Fields with
// an empty category are derived only and never pattern-extracted.
var specs = []FieldSpec{
	{FieldReferenceProcedure, "references", "procedure", KindReference, true},
	{FieldIntituleProcedure, "references", "intitule", KindText, true},
	{FieldGroupement, "groupements", "groupement", KindText, false},
	{FieldTypeProcedure, "procedures", "type_procedure", KindText, false},
	{FieldMonoMulti, "procedures", "mono_multi", KindText, false},
	{FieldDateLimite, "dates", "limite", KindDate, false},
	{FieldDateAttribution, "dates", "attribution", KindDate, false},
	{FieldDateNotification, "dates", "notification", KindDate, false},
	{FieldDureeMarche, "durees", "duree_marche", KindDuration, false},
	{FieldMontantGlobalEstime, "montants", "estime", KindAmount, false},
	{FieldMontantGlobalMaxi, "montants", "maxi", KindAmount, false},
	{FieldQuantiteMinimum, "quantites", "minimum", KindAmount, false},
	{FieldQuantitesEstimees, "quantites", "estimees", KindText, false},
	{FieldQuantiteMaximum, "quantites", "maximum", KindAmount, false},
	{FieldCriteresEconomique, "criteres", "economique", KindText, false},
	{FieldCriteresTechniques, "criteres", "techniques", KindText, false},
	{FieldAutresCriteres, "criteres", "autres", KindText, false},
	{FieldRSE, "rse", "rse", KindTriState, false},
	{FieldContributionFournisseur, "contribution", "fournisseur", KindTriState, false},
	{FieldInfosComplementaires, "metadonnees", "infos_complementaires", KindText, false},
	{FieldExecutionMarche, "durees", "execution_marche", KindText, false},
	{FieldReconduction, "durees", "reconduction", KindText, false},
	{FieldFinSansReconduction, "durees", "fin_sans_reconduction", KindDate, false},
	{FieldFinAvecReconduction, "durees", "fin_avec_reconduction", KindDate, false},
	{FieldAchat, "acquisition", "achat", KindTriState, false},
	{FieldCreditBail, "acquisition", "credit_bail", KindTriState, false},
	{FieldCreditBailDuree, "acquisition", "credit_bail_duree", KindDuration, false},
	{FieldLocation, "acquisition", "location", KindTriState, false},
	{FieldLocationDuree, "acquisition", "location_duree", KindDuration, false},
	{FieldMAD, "acquisition", "mad", KindTriState, false},
	{FieldAttributaire, "attribution", "attributaire", KindText, false},
	{FieldProduitRetenu, "attribution", "produit_retenu", KindText, false},
	{FieldSegment, "classification", "segment", KindText, false},
	{FieldFamille, "classification", "famille", KindText, false},
	{FieldUnivers, "", "", KindText, false},
	{FieldMotsCles, "", "", KindText, false},
	{FieldStatut, "", "", KindText, false},
	{FieldNbrLots, "lots", "nbr_lots", KindInt, false},
	{FieldLotNumero, "lots", "lot_numero", KindInt, false},
	{FieldIntituleLot, "lots", "intitule_lot", KindText, false},
	{FieldRemarques, "metadonnees", "remarques", KindText, false},
	{FieldNotesAcheteurProcedure, "metadonnees", "notes_acheteur_procedure", KindText, false},
	{FieldNotesAcheteurFournisseur, "metadonnees", "notes_acheteur_fournisseur", KindText, false},
	{FieldNotesAcheteurPositionnement, "metadonnees", "notes_acheteur_positionnement", KindText, false},
}

var (
	specByField = func() map[Field]*FieldSpec {
		m := make(map[Field]*FieldSpec, len(specs))
		for i := range specs {
			m[specs[i].Field] = &specs[i]
		}
		return m
	}()
	essentialFields = func() []Field {
		var fs []Field
		for _, s := range specs {
			if s.Essential {
				fs = append(fs, s.Field)
			}
		}
		return fs
	}()
)

// Spec returns the registry entry for f, or nil for an unknown field.
func Spec(f Field) *FieldSpec {
	return specByField[f]
}

// AllFields returns every known field in registry order.
func AllFields() []Field {
	fs := make([]Field, len(specs))
	for i := range specs {
		fs[i] = specs[i].Field
	}
	return fs
}

// EssentialFields returns the fields a record cannot be valid without.
func EssentialFields() []Field {
	return essentialFields
}

// KindOf returns the value kind for f, defaulting to text for unknown fields.
func KindOf(f Field) Kind {
	if s := specByField[f]; s != nil {
		return s.Kind
	}
	return KindText
}
