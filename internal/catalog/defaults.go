package catalog

// Word-bridge classes used throughout the defaults. Go's \w is ASCII, so
// accented French words need the explicit à-ÿ range to be bridged over.
//
// Patterns within a subcategory are ordered most specific first; extraction
// keeps the first captured value, so specific context beats bare formats.
var defaultPatterns = map[string]map[string][]string{
	"montants": {
		"estime": {
			`(?:montant|budget|prix|coût|cout|valeur|estimation|enveloppe|allocation)[\s\wà-ÿ]*(?:global|total|estimé|estime|prévisionnel|previsionnel)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?|HT|TTC|HTA|TVA)`,
			`(?:budget|montant|prix|coût|cout|estimation|enveloppe)[\s\wà-ÿ]*(?:global|total|estimé|estime)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:\s?\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
			`(?:montant|budget|prix|coût|cout|estimation)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:\s?\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
			`(?:budget|montant|prix|coût|cout|estimation)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*(?:k€|keuros?|k\s*€|milliers))`,
			`(\d+(?:[.,]\d+)?\s*(?:k€|keuros?|k\s*€|milliers))`,
			`(?:budget|montant|prix|coût|cout|estimation)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*(?:m€|meuros?|millions?|m\s*€))`,
			`(\d+(?:[.,]\d+)?\s*(?:m€|meuros?|millions?|m\s*€))`,
			`(?:marché|marche|contrat|prestation)[\s\wà-ÿ]*(?:montant|budget|prix|coût|cout|estimation)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
			`(?:appel|offre|ao|consultation)[\s\wà-ÿ]*(?:montant|budget|prix|coût|cout|estimation)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
		},
		"maxi": {
			`(?:maximum|maxi|plafond|limite|seuil)[\s\wà-ÿ]*(?:budgetaire|global|total|montant)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?|HT|TTC)`,
			`(?:budget|montant|prix|coût|cout)[\s\wà-ÿ]*(?:maximum|maxi|plafond|limite|seuil)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
			`(?:enveloppe|allocation|dotation)[\s\wà-ÿ]*(?:maximum|maxi|plafond|limite)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
			`(?:montant|budget|prix|coût|cout)[\s\wà-ÿ]*(?:maximum|maxi|plafond|limite|seuil)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*(?:k€|keuros?|k\s*€))`,
			`(?:montant|budget|prix|coût|cout)[\s\wà-ÿ]*(?:maximum|maxi|plafond|limite|seuil)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*(?:m€|meuros?|millions?|m\s*€))`,
			`(?:marché|marche|contrat)[\s\wà-ÿ]*(?:maximum|maxi|plafond|limite)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
			`(?:appel|offre|ao|consultation)[\s\wà-ÿ]*(?:maximum|maxi|plafond|limite)[\s\wà-ÿ]*[:\s]*(\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{2})?)\s*(?:€|euros?)`,
		},
	},
	"dates": {
		"limite": {
			`(?:date|échéance|clôture|cloture|fin|expiration)[\s\wà-ÿ]*(?:limite|remise|offres|candidature|soumission|dépôt|depot)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:date|échéance|clôture|cloture|fin|expiration)[\s\wà-ÿ]*(?:limite|remise|offres|candidature|soumission|dépôt|depot)[\s\wà-ÿ]*[:\s]*(\d{4}-\d{2}-\d{2})`,
			`(?:date|échéance|clôture|cloture|fin|expiration)[\s\wà-ÿ]*(?:limite|remise|offres|candidature|soumission|dépôt|depot)[\s\wà-ÿ]*[:\s]*(\d{1,2}\s+(?:janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)\s+\d{4})`,
			`(?:date|échéance|clôture|cloture|fin|expiration)[\s\wà-ÿ]*(?:limite|remise|offres|candidature|soumission|dépôt|depot)[\s\wà-ÿ]*[:\s]*(\d{1,2}\s+(?:janv|févr|mars|avr|mai|juin|juil|août|sept|oct|nov|déc)\.?\s+\d{4})`,
			`(?:appel|offre|ao|consultation|marché|marche)[\s\wà-ÿ]*(?:date|échéance|clôture|cloture|fin)[\s\wà-ÿ]*(?:limite|remise|offres|candidature|soumission|dépôt|depot)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:date|échéance|clôture|cloture|fin|expiration)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:date|échéance|clôture|cloture|fin|expiration)[\s\wà-ÿ]*[:\s]*(\d{4}-\d{2}-\d{2})`,
			`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(\d{4}-\d{2}-\d{2})`,
		},
		"attribution": {
			`(?:date|attribution|attribué|attribue)[\s\wà-ÿ]*(?:marché|marche|contrat|prestation|lot)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:date|attribution|attribué|attribue)[\s\wà-ÿ]*(?:marché|marche|contrat|prestation|lot)[\s\wà-ÿ]*[:\s]*(\d{4}-\d{2}-\d{2})`,
			`(?:attribution|attribué|attribue)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:attribution|attribué|attribue)[\s\wà-ÿ]*[:\s]*(\d{4}-\d{2}-\d{2})`,
			`(?:appel|offre|ao|consultation)[\s\wà-ÿ]*(?:attribution|attribué|attribue)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:appel|offre|ao|consultation)[\s\wà-ÿ]*(?:attribution|attribué|attribue)[\s\wà-ÿ]*[:\s]*(\d{4}-\d{2}-\d{2})`,
		},
		"notification": {
			`(?:date|notification|notifié|notifie)[\s\wà-ÿ]*(?:marché|marche|contrat|notification)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:notification|notifié|notifie)[\s\wà-ÿ]*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`(?:notification|notifié|notifie)[\s\wà-ÿ]*[:\s]*(\d{4}-\d{2}-\d{2})`,
		},
	},
	"references": {
		"procedure": {
			`(?:ref|réf|référence|code|identifiant|numéro|numero|no)[\s\wà-ÿ]*[:\s]*(\d{4}-[A-Z]\d{3})`,
			`(?:ao|marché|marche|contrat|prestation)[\s\wà-ÿ]*(?:ref|réf|référence|code|identifiant|numéro|numero|no)[\s\wà-ÿ]*[:\s]*(\d{4}-[A-Z]\d{3})`,
			`(\d{4}-[A-Z]\d{3}-\d{3}-\d{3})`,
			`(\d{4}-[A-Z]\d{3})`,
			`(?:ref|réf|référence|code|identifiant|numéro|numero|no)[\s\wà-ÿ]*(?:procédure|procedure|ao|marché|marche|contrat|prestation)[\s\wà-ÿ]*[:\s]*([A-Z0-9_-]+)`,
			`([A-Z]{2,}\d{4,})`,
			`([A-Z]{2,}-\d{4,})`,
			`([A-Z]{2,}_\d{4,})`,
			`([A-Z]{2,}\.\d{4,})`,
			`([A-Z]{2,}\s\d{4,})`,
		},
		"intitule": {
			`(?:intitulé|intitule|titre|objet|libellé|libelle|dénomination|denomination|nom)[\s\wà-ÿ]*(?:procédure|procedure|marché|marche|ao|contrat|prestation)[\s\wà-ÿ]*[:\s]*([^,\n]{10,200})`,
			`(?:intitulé|intitule|titre|objet|libellé|libelle|dénomination|denomination|nom)[\s\wà-ÿ]*[:\s]*([^,\n]{10,200})`,
			`(?:appel|offre|marché|marche|contrat|prestation)[\s\wà-ÿ]*[:\s]*([^,\n]{10,200})`,
			`(?:appel|offre|ao|consultation)[\s\wà-ÿ]*(?:intitulé|intitule|titre|objet|libellé|libelle|dénomination|denomination|nom)[\s\wà-ÿ]*[:\s]*([^,\n]{10,200})`,
			`(?:marché|marche|contrat|prestation)[\s\wà-ÿ]*(?:intitulé|intitule|titre|objet|libellé|libelle|dénomination|denomination|nom)[\s\wà-ÿ]*[:\s]*([^,\n]{10,200})`,
		},
	},
	"procedures": {
		"type_procedure": {
			`(?:type|mode|forme)[\s\wà-ÿ]*(?:procédure|procedure|marché|marche|ao)[\s\wà-ÿ]*[:\s]*([^,\n]{5,100})`,
			`(?:procédure|procedure)[\s\wà-ÿ]*(?:type|mode|forme)[\s\wà-ÿ]*[:\s]*([^,\n]{5,100})`,
			`(appel\s+d['"]offres?\s+ouvert)`,
			`(appel\s+d['"]offres?\s+restreint)`,
			`(consultation)`,
			`(marché\s+de\s+services)`,
			`(achat\s+direct)`,
			`(commande)`,
			`(convention)`,
			`(accord\s+cadre)`,
			`(?:procédure|procedure)[\s\wà-ÿ]*[:\s]*([^,\n]{5,100})`,
			`(?:appel|offre|ao|consultation)[\s\wà-ÿ]*[:\s]*([^,\n]{5,100})`,
		},
		"mono_multi": {
			`(?:allotissement|lotissement)[\s\wà-ÿ]*[:\s]*(oui|non|unique|multiple|mono|multi)`,
			`(?:attribution)[\s\wà-ÿ]*(?:mono|multi|unique|multiple)[\s\wà-ÿ]*[:\s]*([^,\n]{1,50})`,
			`(mono[\s-]?attributif)`,
			`(multi[\s-]?attributif)`,
			`(marché\s+unique)`,
			`(marché\s+alloti)`,
			`(lotissement|allotissement)`,
			`(?:nombre|nbr|nb)[\s\wà-ÿ]*(?:lots?)[\s\wà-ÿ]*[:\s]*(\d+)`,
		},
	},
	"groupements": {
		"groupement": {
			`(?:groupement|consortium|alliance|partenariat|réseau|reseau|organisme|acheteur|client|maître|donneur)[\s\wà-ÿ]*[:\s]*(RESAH|UGAP|CNRS|UNIHA|CAIH)`,
			`(RESAH|UGAP|CNRS|UNIHA|CAIH)`,
			`(?:groupement|consortium|alliance|partenariat|réseau|reseau|organisme|acheteur|client|maître|donneur)[\s\wà-ÿ]*[:\s]*([A-Z]{2,})`,
			`(?:groupement|consortium|alliance|partenariat|réseau|reseau)[\s\wà-ÿ]*[:\s]*([^,\n]{5,100})`,
			`(?:organisme|acheteur|client|maître|donneur)[\s\wà-ÿ]*[:\s]*([^,\n]{5,100})`,
		},
	},
	"lots": {
		"nbr_lots": {
			`(?:nombre|nbr|nb)[\s\wà-ÿ]*(?:lots|lot)[\s\wà-ÿ]*[:\s]*(\d+)`,
			`(?:lots|lot)[\s\wà-ÿ]*[:\s]*(\d+)`,
			`(\d+)[\s\wà-ÿ]*(?:lots|lot)`,
			`(?:marché|marche|contrat|prestation)[\s\wà-ÿ]*(?:nombre|nbr|nb)[\s\wà-ÿ]*(?:lots|lot)[\s\wà-ÿ]*[:\s]*(\d+)`,
			`(?:appel|offre|ao|consultation)[\s\wà-ÿ]*(?:nombre|nbr|nb)[\s\wà-ÿ]*(?:lots|lot)[\s\wà-ÿ]*[:\s]*(\d+)`,
			`Allotissement[^\n]*(\d+)[\s\wà-ÿ]*(?:lots|lot)`,
			`LOTISSEMENT[^\n]*(\d+)[\s\wà-ÿ]*(?:lots|lot)`,
			`REPARTITION[^\n]*(\d+)[\s\wà-ÿ]*(?:lots|lot)`,
		},
		"lot_numero": {
			`lot[\s\wà-ÿ]*(?:n°|numero|numéro|no)[\s\wà-ÿ]*[:\s]*(\d+)`,
			`lot[\s\wà-ÿ]*[:\s]*(\d+)`,
			`lot[\s\wà-ÿ]*(\d+)`,
			`(?:marché|marche|contrat|prestation)[\s\wà-ÿ]*lot[\s\wà-ÿ]*(?:n°|numero|numéro|no)[\s\wà-ÿ]*[:\s]*(\d+)`,
			`(\d+)[\s\wà-ÿ]*lot`,
		},
		"intitule_lot": {
			`(?:intitulé|intitule|titre|objet|libellé|libelle)[\s\wà-ÿ]*lot[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
			`lot[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
			`(?:réalisation|realisation)[\s\wà-ÿ]*(?:prestations|prestation)[\s\wà-ÿ]*(?:formations|formation)[\s\wà-ÿ]*(?:transverses|transverse|santé|sante|soins)[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
			`(?:intitulé|intitule|titre|objet|libellé|libelle)[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
			`(?:^|\n)\d+\s+([A-Z][A-Z\s/]+?)\s+\d{1,3}(?:\s\d{3})*\s+\d{1,3}(?:\s\d{3})*\s*(?:\n|$)`,
		},
	},
	"criteres": {
		"economique": {
			`(?:lot\s*\d+[^\n]*)?(?:économique|prix|coût|cout)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:crit[èe]res?\s+d['"]attribution[^\n]*)?(?:économique|prix|coût|cout)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:lot\s*\d+[^\n]*)?(?:économique|prix|coût|cout)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*points?)`,
			`(?:crit[èe]res?\s+d['"]attribution[^\n]*)?(?:économique|prix|coût|cout)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*points?)`,
			`crit[èe]res?[\s\wà-ÿ]*(?:économique|economique|prix|coût|cout|attribution)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:prix|coût|cout|économique|economique)[\s\wà-ÿ]*crit[èe]res?[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(\d+(?:[.,]\d+)?\s*%)`,
			`crit[èe]res?[\s\wà-ÿ]*(?:économique|economique|prix|coût|cout|attribution)[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
			`(?:prix|coût|cout|économique|economique)[\s\wà-ÿ]*crit[èe]res?[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
		},
		"techniques": {
			`(?:lot\s*\d+[^\n]*)?(?:technique|qualité|qualite)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:crit[èe]res?\s+d['"]attribution[^\n]*)?(?:technique|qualité|qualite)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:lot\s*\d+[^\n]*)?(?:technique|qualité|qualite)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*points?)`,
			`(?:crit[èe]res?\s+d['"]attribution[^\n]*)?(?:technique|qualité|qualite)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*points?)`,
			`crit[èe]res?[\s\wà-ÿ]*(?:techniques|technique|attribution)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:techniques|technique)[\s\wà-ÿ]*crit[èe]res?[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(\d+(?:[.,]\d+)?\s*%)`,
			`crit[èe]res?[\s\wà-ÿ]*(?:techniques|technique|attribution)[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
			`(?:techniques|technique)[\s\wà-ÿ]*crit[èe]res?[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
		},
		"autres": {
			`(?:lot\s*\d+[^\n]*)?(?:autres?|innovation|rse|environnement)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:crit[èe]res?\s+d['"]attribution[^\n]*)?(?:autres?|innovation|rse|environnement)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(?:lot\s*\d+[^\n]*)?(?:autres?|innovation|rse|environnement)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*points?)`,
			`(?:crit[èe]res?\s+d['"]attribution[^\n]*)?(?:autres?|innovation|rse|environnement)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*points?)`,
			`(?:autres?)[\s\wà-ÿ]*(?:crit[èe]res?|attribution)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`crit[èe]res?[\s\wà-ÿ]*(?:autres?)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?\s*%)`,
			`(\d+(?:[.,]\d+)?\s*%)`,
			`(?:autres?)[\s\wà-ÿ]*(?:crit[èe]res?|attribution)[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
			`crit[èe]res?[\s\wà-ÿ]*(?:autres?)[\s\wà-ÿ]*[:\s]*([^,\n]{5,200})`,
		},
	},
	"quantites": {
		"minimum": {
			`(?:quantité|quantite|qte)[\s\wà-ÿ]*(?:minimum|min)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?)`,
			`(?:minimum|min)[\s\wà-ÿ]*(?:quantité|quantite|qte)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?)`,
			`(\d+(?:[.,]\d+)?)[\s\wà-ÿ]*(?:minimum|min)`,
		},
		"estimees": {
			`(?:quantités|quantites|qte)[\s\wà-ÿ]*(?:estimées|estimees)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?)`,
			`(?:estimées|estimees)[\s\wà-ÿ]*(?:quantités|quantites|qte)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?)`,
			`(?:quantités|quantites|qte)[\s\wà-ÿ]*(?:estimées|estimees)[\s\wà-ÿ]*[:\s]*(\d+(?:\s*x\s*\d+)?)`,
			`(?:quantités|quantites|qte)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?)`,
		},
		"maximum": {
			`(?:quantité|quantite|qte)[\s\wà-ÿ]*(?:maximum|max)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?)`,
			`(?:maximum|max)[\s\wà-ÿ]*(?:quantité|quantite|qte)[\s\wà-ÿ]*[:\s]*(\d+(?:[.,]\d+)?)`,
			`(\d+(?:[.,]\d+)?)[\s\wà-ÿ]*(?:maximum|max)`,
		},
	},
	"durees": {
		"duree_marche": {
			`(?:durée|duree)[\s\wà-ÿ]{0,40}?(?:marché|marche)?[\s\wà-ÿ]{0,20}?(\d{1,3}\s*(?:mois|ans|an)(?:\s+et\s+\d{1,2}\s*mois)?)`,
			`(\d{1,3}\s*(?:mois|ans|an))[\s\wà-ÿ]{0,20}?(?:durée|duree)`,
		},
		"execution_marche": {
			`(?:modalités?|modalites?|conditions?)\s+d['"]?ex[ée]cution[\s\wà-ÿ:,-]{0,10}(.+)`,
			`ex[ée]cution\s+du\s+march[ée]\s*[:-]?\s*(.+)`,
		},
		"reconduction": {
			`(?:reconduction|reconductible|renouvellement)[\s\wà-ÿ:,-]{0,20}(oui|non)`,
			`(?:reconduction|reconductible|renouvellement)[\s\wà-ÿ:,-]{0,50}?(\d{1,2})\s*(?:fois|ans|an)`,
		},
		"fin_sans_reconduction": {
			`fin\s+sans\s+reconduction[\s\wà-ÿ:,-]{0,10}(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`fin\s+sans\s+reconduction[\s\wà-ÿ:,-]{0,10}(\d{4}-\d{2}-\d{2})`,
		},
		"fin_avec_reconduction": {
			`fin\s+avec\s+reconduction[\s\wà-ÿ:,-]{0,10}(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
			`fin\s+avec\s+reconduction[\s\wà-ÿ:,-]{0,10}(\d{4}-\d{2}-\d{2})`,
		},
	},
	"rse": {
		"rse": {
			`(?:rse|responsabilit[ée]\s+soci[ée]tale|d[ée]veloppement\s+durable)[\s:,-]{0,10}([^\n]+)`,
			`crit[èe]res?\s+rse[\s:,-]{0,10}([^\n]+)`,
		},
	},
	"contribution": {
		"fournisseur": {
			`(?:contribution\s+fournisseur|participation\s+fournisseur)[\s:,-]{0,10}([^\n]+)`,
		},
	},
	"metadonnees": {
		"infos_complementaires": {
			`(?:informations?|renseignements?)\s+compl[ée]mentaires?[\s:,-]{0,10}([^\n]+)`,
			`infos?\s+compl[ée]mentaires?[\s:,-]{0,10}([^\n]+)`,
		},
		"remarques": {
			`(?:remarques?|commentaires?|observations?)\s*[:-]\s*([^\n]{10,500})`,
			`(?:remarque|commentaire|observation)\s+([^\n]{10,500})`,
			`(?:note|remarque)\s*(?:générale|generale|finale)\s*[:-]\s*([^\n]{10,500})`,
		},
		"notes_acheteur_procedure": {
			`(?:note|avis|commentaire)\s+(?:de\s+)?l['"]?acheteur[\s\wà-ÿ]*(?:sur\s+)?(?:la\s+)?(?:proc[ée]dure)[\s\wà-ÿ]*[:-]\s*([^\n]{10,500})`,
			`(?:note|avis)\s+acheteur[\s\wà-ÿ]*(?:proc[ée]dure)[\s\wà-ÿ]*[:-]\s*([^\n]{10,500})`,
		},
		"notes_acheteur_fournisseur": {
			`(?:note|avis|commentaire)\s+(?:de\s+)?l['"]?acheteur[\s\wà-ÿ]*(?:sur\s+)?(?:le\s+)?(?:fournisseur|prestataire)[\s\wà-ÿ]*[:-]\s*([^\n]{10,500})`,
			`(?:note|avis)\s+acheteur[\s\wà-ÿ]*(?:fournisseur|prestataire)[\s\wà-ÿ]*[:-]\s*([^\n]{10,500})`,
		},
		"notes_acheteur_positionnement": {
			`(?:note|avis|commentaire)\s+(?:de\s+)?l['"]?acheteur[\s\wà-ÿ]*(?:sur\s+)?(?:le\s+)?positionnement[\s\wà-ÿ]*[:-]\s*([^\n]{10,500})`,
			`(?:note|avis)\s+acheteur[\s\wà-ÿ]*positionnement[\s\wà-ÿ]*[:-]\s*([^\n]{10,500})`,
		},
	},
	"acquisition": {
		"achat": {
			`\bachat\b[\s:,-]{0,10}(oui|non)`,
			`\bacquisition\b[\s:,-]{0,10}(oui|non)`,
		},
		"credit_bail": {
			`cr[ée]dit[-\s]?bail[\s:,-]{0,10}(oui|non)`,
		},
		"credit_bail_duree": {
			`cr[ée]dit[-\s]?bail[\s\wà-ÿ:,-]{0,30}?(\d{1,3}\s*(?:mois|ans|an))`,
		},
		"location": {
			`\blocation\b[\s:,-]{0,10}(oui|non)`,
		},
		"location_duree": {
			`\blocation\b[\s\wà-ÿ:,-]{0,30}?(\d{1,3}\s*(?:mois|ans|an))`,
		},
		"mad": {
			`\bmad\b[\s:,-]{0,10}(oui|non)`,
			`mise\s+[àa]\s+disposition[\s:,-]{0,10}(oui|non)`,
		},
	},
	"attribution": {
		"attributaire": {
			`(?:attributaire|titulaire|adjudicataire)[\s:-]*([^\n]{3,200})`,
		},
		"produit_retenu": {
			`(?:produit\s+retenu|solution\s+retenue)[\s:-]*([^\n]{3,200})`,
		},
	},
	"classification": {
		"segment": {
			`segment\s*[:-]\s*([^\n]{3,120})`,
			`segment\s+([^\n]{3,120})`,
		},
		"famille": {
			`famille\s*[:-]\s*([^\n]{3,120})`,
			`famille\s+([^\n]{3,120})`,
		},
	},
}
