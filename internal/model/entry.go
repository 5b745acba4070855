package model

// Stats summarizes how much of a record extraction managed to fill.
type Stats struct {
	TotalFields    int     `json:"total_fields"`
	FilledFields   int     `json:"filled_fields"`
	CompletionRate float64 `json:"completion_rate"`
}

// Entry is one output row of an extraction run: one lot of one document,
// with extracted values separated from generated ones.
type Entry struct {
	ValeursExtraites Record            `json:"valeursExtraites"`
	ValeursGenerees  Record            `json:"valeursGenerees"`
	Statistiques     Stats             `json:"statistiques"`
	Validation       *ValidationResult `json:"validation,omitempty"`

	// Set only on downgraded catastrophic failures; the data maps above
	// stay empty in that case.
	Erreur       string `json:"erreur,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorDetails string `json:"error_details,omitempty"`
}

// NewEntry returns an entry with empty value maps.
func NewEntry() *Entry {
	return &Entry{
		ValeursExtraites: make(Record),
		ValeursGenerees:  make(Record),
	}
}

// ErrorEntry wraps a failure into an entry so callers always receive a list.
func ErrorEntry(errType, msg, details string) *Entry {
	e := NewEntry()
	e.Erreur = msg
	e.ErrorType = errType
	e.ErrorDetails = details
	return e
}

// Merged returns extracted values overlaid with generated ones; extraction
// wins when both produced the same field.
func (e *Entry) Merged() Record {
	out := e.ValeursGenerees.Clone()
	for f, v := range e.ValeursExtraites {
		out[f] = v
	}
	return out
}

// Field looks a field up in extracted values first, generated second.
func (e *Entry) Field(f Field) (Value, bool) {
	if v, ok := e.ValeursExtraites.Get(f); ok {
		return v, true
	}
	return e.ValeursGenerees.Get(f)
}

// ComputeStats recounts filled fields against the full registry.
func (e *Entry) ComputeStats() {
	all := AllFields()
	filled := 0
	for _, f := range all {
		if _, ok := e.Field(f); ok {
			filled++
		}
	}
	e.Statistiques = Stats{
		TotalFields:  len(all),
		FilledFields: filled,
	}
	if len(all) > 0 {
		e.Statistiques.CompletionRate = float64(filled) / float64(len(all))
	}
}
