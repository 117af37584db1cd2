package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptionalFloat is a nullable number decoded leniently from form-style
// JSON: numbers, numeric strings, empty strings and null are all accepted.
// Anything that does not yield a finite float64 decodes as absent, so an
// OptionalFloat never holds NaN or an infinity.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// FloatOf returns a valid OptionalFloat holding v, or an absent one when v
// is not finite.
func FloatOf(v float64) OptionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalFloat{}
	}
	return OptionalFloat{Value: v, Valid: true}
}

// ParseOptionalFloat converts a string to an OptionalFloat. Surrounding
// whitespace is ignored.
func ParseOptionalFloat(s string) OptionalFloat {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptionalFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return OptionalFloat{}
	}
	return FloatOf(v)
}

// Ptr returns nil for an absent value.
func (f OptionalFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// UnmarshalJSON implements json.Unmarshaler. It never fails on a
// well-formed JSON scalar.
func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = OptionalFloat{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = ParseOptionalFloat(s)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			// Booleans, objects and arrays are treated as absent.
			*f = OptionalFloat{}
			return nil
		}
		*f = FloatOf(v)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
