package model

// Lot numbering bounds. Numbers outside this range are treated as pattern
// noise (years, amounts, article numbers) and rejected by every strategy.
const (
	MinLotNumber = 1
	MaxLotNumber = 200
)

// LotCandidate is one lot proposed by a detection strategy, or the fused
// result of several strategies agreeing on a numero.
type LotCandidate struct {
	Numero         int      `json:"numero"`
	Intitule       string   `json:"intitule"`
	MontantEstime  float64  `json:"montant_estime,omitempty"`
	MontantMaxi    float64  `json:"montant_maxi,omitempty"`
	QuantiteMin    float64  `json:"quantite_min,omitempty"`
	QuantiteEst    float64  `json:"quantite_est,omitempty"`
	QuantiteMax    float64  `json:"quantite_max,omitempty"`
	CritEconomique string   `json:"criteres_economique,omitempty"`
	CritTechniques string   `json:"criteres_techniques,omitempty"`
	AutresCriteres string   `json:"autres_criteres,omitempty"`
	RSE            string   `json:"rse,omitempty"`
	Contribution   string   `json:"contribution_fournisseur,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	Confidence     float64  `json:"confidence,omitempty"`
}

// ValidNumero reports whether n is inside the accepted lot number range.
func ValidNumero(n int) bool {
	return n >= MinLotNumber && n <= MaxLotNumber
}
