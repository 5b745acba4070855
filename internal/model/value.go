package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the typed value union.
type Kind int

const (
	KindText Kind = iota
	KindAmount
	KindDate
	KindDuration
	KindReference
	KindTriState
	KindInt
)

// TriState is a three-valued answer for yes/no fields where documents
// frequently mention the topic without committing either way.
type TriState string

const (
	TriOui         TriState = "Oui"
	TriNon         TriState = "Non"
	TriNonSpecifie TriState = "Non spécifié"
)

// Value is a tagged union of the extraction value types. The zero Value is
// empty text; use the constructors.
type Value struct {
	kind   Kind
	text   string
	amount float64
	num    int
}

// Text returns a text value, or an empty Value for blank input.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Amount returns a monetary value rounded to two decimals and clamped at zero.
func Amount(v float64) Value {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return Value{kind: KindAmount, amount: math.Round(v*100) / 100}
}

// Date returns a date value holding a DD/MM/YYYY string.
func Date(s string) Value {
	return Value{kind: KindDate, text: s}
}

// Duration returns a duration value in months.
func Duration(months int) Value {
	if months < 0 {
		months = 0
	}
	return Value{kind: KindDuration, num: months}
}

// Reference returns a procedure reference value.
func Reference(s string) Value {
	return Value{kind: KindReference, text: s}
}

// Tri returns a tri-state value.
func Tri(t TriState) Value {
	return Value{kind: KindTriState, text: string(t)}
}

// Int returns an integer value (lot counts and numbers).
func Int(n int) Value {
	return Value{kind: KindInt, num: n}
}

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the value carries no information. Numeric zero is
// empty for amounts and durations, matching the "fill only missing" fusion
// and derivation rules.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAmount:
		return v.amount == 0
	case KindDuration, KindInt:
		return v.num == 0
	default:
		return strings.TrimSpace(v.text) == ""
	}
}

// AsText returns the value's string form regardless of kind.
func (v Value) AsText() string {
	switch v.kind {
	case KindAmount:
		return strconv.FormatFloat(v.amount, 'f', 2, 64)
	case KindDuration, KindInt:
		return strconv.Itoa(v.num)
	default:
		return v.text
	}
}

// AsAmount returns the monetary amount, zero for non-amount kinds.
func (v Value) AsAmount() float64 {
	if v.kind == KindAmount {
		return v.amount
	}
	return 0
}

// AsInt returns the integer payload for duration and int kinds.
func (v Value) AsInt() int {
	if v.kind == KindDuration || v.kind == KindInt {
		return v.num
	}
	return 0
}

// AsTri returns the tri-state payload, empty string for other kinds.
func (v Value) AsTri() TriState {
	if v.kind == KindTriState {
		return TriState(v.text)
	}
	return ""
}

// MarshalJSON encodes amounts as numbers, durations and ints as integers,
// everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindAmount:
		return json.Marshal(v.amount)
	case KindDuration, KindInt:
		return json.Marshal(v.num)
	default:
		return json.Marshal(v.text)
	}
}

// Record maps fields to their extracted or generated values. Absence of a
// key means the field was not produced; there is no "present but missing"
// state.
type Record map[Field]Value

// Set stores v under f, dropping empty values.
func (r Record) Set(f Field, v Value) {
	if v.IsEmpty() {
		delete(r, f)
		return
	}
	r[f] = v
}

// Get returns the value for f and whether it is present and non-empty.
func (r Record) Get(f Field) (Value, bool) {
	v, ok := r[f]
	if !ok || v.IsEmpty() {
		return Value{}, false
	}
	return v, true
}

// Has reports whether f holds a non-empty value.
func (r Record) Has(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for f, v := range r {
		out[f] = v
	}
	return out
}

// MarshalJSON encodes the record as a flat field→value object.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]Value, len(r))
	for f, v := range r {
		m[string(f)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a flat field→value object, re-typing each value by
// the field's registry kind. Unknown fields decode as text.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Record, len(raw))
	for name, msg := range raw {
		f := Field(name)
		v, err := decodeValue(KindOf(f), msg)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		out.Set(f, v)
	}
	*r = out
	return nil
}

func decodeValue(kind Kind, msg json.RawMessage) (Value, error) {
	switch kind {
	case KindAmount:
		var fv float64
		if err := json.Unmarshal(msg, &fv); err == nil {
			return Amount(fv), nil
		}
		var sv string
		if err := json.Unmarshal(msg, &sv); err != nil {
			return Value{}, err
		}
		fv, _ = strconv.ParseFloat(sv, 64)
		return Amount(fv), nil
	case KindDuration, KindInt:
		var nv int
		if err := json.Unmarshal(msg, &nv); err == nil {
			if kind == KindDuration {
				return Duration(nv), nil
			}
			return Int(nv), nil
		}
		var sv string
		if err := json.Unmarshal(msg, &sv); err != nil {
			return Value{}, err
		}
		nv, _ = strconv.Atoi(strings.TrimSpace(sv))
		if kind == KindDuration {
			return Duration(nv), nil
		}
		return Int(nv), nil
	default:
		var sv string
		if err := json.Unmarshal(msg, &sv); err != nil {
			return Value{}, err
		}
		switch kind {
		case KindDate:
			return Date(sv), nil
		case KindReference:
			return Reference(sv), nil
		case KindTriState:
			return Tri(TriState(sv)), nil
		default:
			return Text(sv), nil
		}
	}
}
