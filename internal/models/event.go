package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// FlexString decodes a JSON string or number into its textual form.
// The ticketing API is inconsistent about quoting ids, prices and capacities.
// Any other JSON value decodes to the empty string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = ""
	if len(data) == 0 {
		return nil
	}
	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	}
	return nil
}

// String returns the raw text.
func (f FlexString) String() string {
	return string(f)
}

// RemoteLocation is either a structured venue object or a bare location identifier.
type RemoteLocation struct {
	Ref        string `json:"-"`
	Structured bool   `json:"-"`

	LocationName string     `json:"location_name,omitempty"`
	Name         string     `json:"name,omitempty"`
	AddressLine  string     `json:"address_line,omitempty"`
	Address      string     `json:"address,omitempty"`
	City         string     `json:"city,omitempty"`
	Capacity     FlexString `json:"capacity,omitempty"`
}

type remoteLocationFields RemoteLocation

type remoteLocationWire struct {
	LocationName FlexString `json:"location_name"`
	Name         FlexString `json:"name"`
	AddressLine  FlexString `json:"address_line"`
	Address      FlexString `json:"address"`
	City         FlexString `json:"city"`
	Capacity     FlexString `json:"capacity"`
}

// UnmarshalJSON implements json.Unmarshaler. Values that are neither an
// object nor a scalar identifier decode as a bare location without a ref.
func (l *RemoteLocation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		var ref FlexString
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*l = RemoteLocation{Ref: ref.String()}
		return nil
	}
	var wire remoteLocationWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*l = RemoteLocation{
		Structured:   true,
		LocationName: wire.LocationName.String(),
		Name:         wire.Name.String(),
		AddressLine:  wire.AddressLine.String(),
		Address:      wire.Address.String(),
		City:         wire.City.String(),
		Capacity:     wire.Capacity,
	}
	return nil
}

// MarshalJSON keeps the bare/structured distinction across cache round trips.
func (l RemoteLocation) MarshalJSON() ([]byte, error) {
	if !l.Structured {
		return json.Marshal(l.Ref)
	}
	return json.Marshal(remoteLocationFields(l))
}

// TicketType is one ticket tier on a remote event.
type TicketType struct {
	Name  string     `json:"name,omitempty"`
	Price FlexString `json:"price,omitempty"`
}

type ticketTypeWire struct {
	Name  FlexString `json:"name"`
	Price FlexString `json:"price"`
}

// UnmarshalJSON implements json.Unmarshaler. A tier that is not an object
// decodes as an empty tier.
func (t *TicketType) UnmarshalJSON(data []byte) error {
	*t = TicketType{}
	if !isJSONObject(data) {
		return nil
	}
	var wire ticketTypeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = TicketType{Name: wire.Name.String(), Price: wire.Price}
	return nil
}

// RemoteEvent is an event record as returned by the ticketing API. Public
// listings use startdate/enddate, organiser listings use starts_at/ends_at.
type RemoteEvent struct {
	ID          FlexString      `json:"id"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	StartDate   string          `json:"startdate,omitempty"`
	StartsAt    string          `json:"starts_at,omitempty"`
	EndDate     string          `json:"enddate,omitempty"`
	EndsAt      string          `json:"ends_at,omitempty"`
	Location    *RemoteLocation `json:"location,omitempty"`
	TicketTypes []TicketType    `json:"ticket_types,omitempty"`
	ImageLink   string          `json:"image_link,omitempty"`
	URL         string          `json:"url,omitempty"`
}

type remoteEventWire struct {
	ID          FlexString      `json:"id"`
	Name        FlexString      `json:"name"`
	Description FlexString      `json:"description"`
	StartDate   FlexString      `json:"startdate"`
	StartsAt    FlexString      `json:"starts_at"`
	EndDate     FlexString      `json:"enddate"`
	EndsAt      FlexString      `json:"ends_at"`
	Location    json.RawMessage `json:"location"`
	TicketTypes json.RawMessage `json:"ticket_types"`
	ImageLink   FlexString      `json:"image_link"`
	URL         FlexString      `json:"url"`
}

// UnmarshalJSON implements json.Unmarshaler. Fields of an unexpected type
// decode as absent so one odd field never rejects the record. Only a record
// that is not an object is an error.
func (e *RemoteEvent) UnmarshalJSON(data []byte) error {
	var wire remoteEventWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*e = RemoteEvent{
		ID:          wire.ID,
		Name:        wire.Name.String(),
		Description: wire.Description.String(),
		StartDate:   wire.StartDate.String(),
		StartsAt:    wire.StartsAt.String(),
		EndDate:     wire.EndDate.String(),
		EndsAt:      wire.EndsAt.String(),
		ImageLink:   wire.ImageLink.String(),
		URL:         wire.URL.String(),
	}

	if loc := bytes.TrimSpace(wire.Location); len(loc) > 0 && !bytes.Equal(loc, []byte("null")) {
		var location RemoteLocation
		if err := json.Unmarshal(loc, &location); err != nil {
			return err
		}
		e.Location = &location
	}

	if tiers := bytes.TrimSpace(wire.TicketTypes); len(tiers) > 0 && tiers[0] == '[' {
		if err := json.Unmarshal(tiers, &e.TicketTypes); err != nil {
			return err
		}
	}
	return nil
}

func isJSONObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// SourceResult is the outcome of a listing call against the ticketing API.
// Available is false when the call failed; an empty list with Available set
// means the API answered with no events.
type SourceResult struct {
	Events    []RemoteEvent
	Available bool
}

// SourceRecord is the outcome of a single-event lookup.
type SourceRecord struct {
	Event     RemoteEvent
	Available bool
}

// CacheEntry is the stored snapshot of the last completed-events fetch.
type CacheEntry struct {
	Events     []RemoteEvent `json:"events"`
	CapturedAt time.Time     `json:"captured_at"`
}

// LineupEntry is one artist on an event lineup.
type LineupEntry struct {
	Name string `json:"name" yaml:"name"`
	Link string `json:"link" yaml:"link"`
}

// Venue describes where an event takes place.
type Venue struct {
	Name          string   `json:"name" yaml:"name"`
	Capacity      string   `json:"capacity" yaml:"capacity"`
	Facilities    []string `json:"facilities" yaml:"facilities"`
	Accessibility string   `json:"accessibility" yaml:"accessibility"`
}

// Event is the canonical, render-ready event shape served to the site.
type Event struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Date         string        `json:"date" yaml:"date"`
	Time         string        `json:"time" yaml:"time"`
	Price        string        `json:"price" yaml:"price"`
	Location     string        `json:"location" yaml:"location"`
	Address      string        `json:"address" yaml:"address"`
	City         string        `json:"city" yaml:"city"`
	Image        string        `json:"image" yaml:"image"`
	Description  string        `json:"description" yaml:"description"`
	Venue        Venue         `json:"venue" yaml:"venue"`
	Lineup       []LineupEntry `json:"lineup" yaml:"lineup"`
	TicketLink   string        `json:"ticketLink" yaml:"ticket_link"`
	RawStartDate string        `json:"rawStartDate,omitempty" yaml:"raw_start_date,omitempty"`
}

// Clone returns a deep copy so shared datasets cannot be mutated by callers.
func (e Event) Clone() Event {
	out := e
	out.Venue.Facilities = append([]string{}, e.Venue.Facilities...)
	out.Lineup = append([]LineupEntry{}, e.Lineup...)
	return out
}
