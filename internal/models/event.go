package models

import (
	"encoding/json"

	"venue-guide/internal/i18n"
)

// Event is a single listing hosted at one venue
type Event struct {
	ID                 string   `db:"id" json:"id,omitempty"`
	Title              string   `db:"title" json:"title"`
	TitleChinese       string   `db:"title_chinese" json:"titleChinese,omitempty"`
	Date               string   `db:"date" json:"date,omitempty"`                // Free-form schedule text
	DateChinese        string   `db:"date_chinese" json:"dateChinese,omitempty"` // Schedule text in Chinese
	DateTime           string   `db:"date_time" json:"dateTime,omitempty"`       // ISO timestamp set by the admin form
	Description        string   `db:"description" json:"description,omitempty"`
	DescriptionChinese string   `db:"description_chinese" json:"descriptionChinese,omitempty"`
	Presenter          string   `db:"presenter" json:"presentor,omitempty"`
	PresenterChinese   string   `db:"presenter_chinese" json:"presentorChinese,omitempty"`
	Price              string   `db:"price" json:"price,omitempty"`
	Venue              VenueRef `db:"venue_id" json:"venue"`
	Position           int      `db:"position" json:"-"`
}

// UnmarshalJSON accepts "_id" for the id and the "Chi" suffix for
// secondary-language fields. A bare string is an unpopulated reference and
// decodes to an Event carrying only its ID.
func (e *Event) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*e = Event{ID: id}
		return nil
	}

	type alias Event
	aux := struct {
		*alias
		MongoID  string `json:"_id"`
		EventID  string `json:"eventId"`
		TitleChi string `json:"titleChi"`
		DateChi  string `json:"dateChi"`
		DescChi  string `json:"descriptionChi"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.ID = firstNonEmpty(e.ID, aux.MongoID, aux.EventID)
	e.TitleChinese = firstNonEmpty(e.TitleChinese, aux.TitleChi)
	e.DateChinese = firstNonEmpty(e.DateChinese, aux.DateChi)
	e.DescriptionChinese = firstNonEmpty(e.DescriptionChinese, aux.DescChi)
	return nil
}

// LocalizedField implements i18n.Localizable
func (e Event) LocalizedField(name string) (i18n.LocalizedText, bool) {
	switch name {
	case "title":
		return i18n.LocalizedText{Primary: e.Title, Secondary: e.TitleChinese}, true
	case "date":
		return i18n.LocalizedText{Primary: e.Date, Secondary: e.DateChinese}, true
	case "description":
		return i18n.LocalizedText{Primary: e.Description, Secondary: e.DescriptionChinese}, true
	case "presenter":
		return i18n.LocalizedText{Primary: e.Presenter, Secondary: e.PresenterChinese}, true
	case "price":
		return i18n.LocalizedText{Primary: e.Price}, true
	}
	return i18n.LocalizedText{}, false
}
