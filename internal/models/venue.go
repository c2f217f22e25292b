package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"venue-guide/internal/geo"
	"venue-guide/internal/i18n"
)

// Venue is a cultural venue as served by the backend, plus the derived
// distance from the observer which is never persisted
type Venue struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	NameChinese string     `db:"name_chinese" json:"nameChinese,omitempty"`
	Latitude    Coordinate `db:"latitude" json:"latitude"`
	Longitude   Coordinate `db:"longitude" json:"longitude"`
	District    string     `db:"district" json:"district,omitempty"`
	Area        string     `db:"area" json:"area,omitempty"`
	Address     string     `db:"address" json:"address,omitempty"`
	Position    int        `db:"position" json:"-"` // Order the backend returned it in
	Events      []Event    `db:"-" json:"events"`
	Distance    *float64   `db:"-" json:"distance,omitempty"`
}

// UnmarshalJSON accepts the id under "_id", "venueId" or "id", and the
// secondary name under "nameChinese" or "nameChi"
func (v *Venue) UnmarshalJSON(data []byte) error {
	type alias Venue
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		VenueID string `json:"venueId"`
		NameChi string `json:"nameChi"`
	}{alias: (*alias)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.ID = firstNonEmpty(v.ID, aux.MongoID, aux.VenueID)
	v.NameChinese = firstNonEmpty(v.NameChinese, aux.NameChi)
	return nil
}

// Location returns the venue position, and false when it cannot be located
func (v Venue) Location() (geo.Point, bool) {
	if !v.Latitude.Valid || !v.Longitude.Valid {
		return geo.Point{}, false
	}
	p := geo.Point{Lat: v.Latitude.Float64, Lng: v.Longitude.Float64}
	return p, p.Valid()
}

// LocalizedField implements i18n.Localizable
func (v Venue) LocalizedField(name string) (i18n.LocalizedText, bool) {
	switch name {
	case "name":
		return i18n.LocalizedText{Primary: v.Name, Secondary: v.NameChinese}, true
	case "district":
		return i18n.LocalizedText{Primary: v.District, Secondary: i18n.TranslateLocation(v.District, i18n.Chinese)}, true
	case "area":
		return i18n.LocalizedText{Primary: v.Area, Secondary: i18n.TranslateLocation(v.Area, i18n.Chinese)}, true
	case "address":
		return i18n.LocalizedText{Primary: v.Address}, true
	}
	return i18n.LocalizedText{}, false
}

// VenueRef points an event at its venue. The backend sends either the bare
// id or the populated venue document.
type VenueRef struct {
	ID string
}

// UnmarshalJSON implements json.Unmarshaler
func (r *VenueRef) UnmarshalJSON(data []byte) error {
	r.ID = ""
	if string(data) == "null" {
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}
	var v Venue
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("venue reference: %w", err)
	}
	r.ID = v.ID
	return nil
}

// MarshalJSON implements json.Marshaler
func (r VenueRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Scan implements sql.Scanner
func (r *VenueRef) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		r.ID = ""
	case string:
		r.ID = s
	case []byte:
		r.ID = string(s)
	default:
		return fmt.Errorf("cannot scan %T into VenueRef", src)
	}
	return nil
}

// Value implements driver.Valuer
func (r VenueRef) Value() (driver.Value, error) {
	return r.ID, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
