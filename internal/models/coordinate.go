package models

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a nullable latitude or longitude. The backend sends numbers,
// numeric strings, null, or nothing at all; anything that is not a finite
// number decodes as invalid rather than failing the whole record.
type Coordinate struct {
	sql.NullFloat64
}

// NewCoordinate returns a valid coordinate
func NewCoordinate(v float64) Coordinate {
	return Coordinate{sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}}
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	c.Float64, c.Valid = 0, false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}

	*c = NewCoordinate(v)
	return nil
}

// MarshalJSON implements json.Marshaler
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Float64)
}
