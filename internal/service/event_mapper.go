package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/slutstation/slutstation-web/internal/models"
)

const (
	defaultEventTitle       = "Untitled Event"
	defaultEventDescription = "Event details coming soon."
	defaultCity             = "Stockholm"
	defaultAddress          = "Stockholm, Sweden"
	defaultCapacity         = "TBA"
	defaultAccessibility    = "18+ only, ID required"
	ticketLinkPrefix        = "https://billetto.com/events/"
	priceCurrencySuffix     = " SEK"

	displayDateLayout = "Jan 2, 2006"
	displayTimeLayout = "15:04"
)

// DefaultImages rotates placeholder posters for events without an image.
var DefaultImages = []string{
	"/assets/eventposters/lastpath.png",
	"/assets/eventposters/outdoors.jpg",
	"/assets/eventposters/fredagen.png",
	"/assets/eventposters/storsta.png",
}

var defaultFacilities = []string{"Bar", "Cloakroom"}

// zone-aware layouts first; the rest are read in the caller's location
var eventDateLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05.000Z0700", true},
	{"2006-01-02T15:04:05Z0700", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// ParseEventTime reads a remote date value. Values without an offset are
// interpreted in loc.
func ParseEventTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, candidate := range eventDateLayouts {
		var (
			t   time.Time
			err error
		)
		if candidate.zoned {
			t, err = time.Parse(candidate.layout, raw)
		} else {
			t, err = time.ParseInLocation(candidate.layout, raw, loc)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EventMapper turns remote ticketing records into site events.
type EventMapper struct {
	loc *time.Location
}

// NewEventMapper renders dates and times in loc (UTC when nil).
func NewEventMapper(loc *time.Location) *EventMapper {
	if loc == nil {
		loc = time.UTC
	}
	return &EventMapper{loc: loc}
}

// Location returns the display location.
func (m *EventMapper) Location() *time.Location {
	return m.loc
}

// Normalize maps one record. index selects the placeholder image.
func (m *EventMapper) Normalize(record models.RemoteEvent, index int) models.Event {
	rawStart := firstNonEmpty(record.StartDate, record.StartsAt)
	rawEnd := firstNonEmpty(record.EndDate, record.EndsAt)
	date, clock := m.formatSchedule(rawStart, rawEnd)

	locationName, address, city, capacity := resolveLocation(record.Location)
	if capacity == "" {
		capacity = defaultCapacity
	}

	id := record.ID.String()
	ticketLink := record.URL
	if ticketLink == "" {
		ticketLink = ticketLinkPrefix + id
	}

	image := record.ImageLink
	if image == "" {
		image = placeholderImage(index)
	}

	return models.Event{
		ID:          id,
		Title:       firstNonEmpty(record.Name, defaultEventTitle),
		Date:        date,
		Time:        clock,
		Price:       displayPrice(record.TicketTypes),
		Location:    locationName,
		Address:     address,
		City:        city,
		Image:       image,
		Description: firstNonEmpty(record.Description, defaultEventDescription),
		Venue: models.Venue{
			Name:          locationName,
			Capacity:      capacity,
			Facilities:    append([]string{}, defaultFacilities...),
			Accessibility: defaultAccessibility,
		},
		Lineup:       []models.LineupEntry{},
		TicketLink:   ticketLink,
		RawStartDate: rawStart,
	}
}

// NormalizeAll maps records in order, using each position as its image index.
func (m *EventMapper) NormalizeAll(records []models.RemoteEvent) []models.Event {
	events := make([]models.Event, 0, len(records))
	for i, record := range records {
		events = append(events, m.Normalize(record, i))
	}
	return events
}

// FilterActive drops events that started before local midnight of now's day.
// Events without a readable start date are kept.
func FilterActive(events []models.Event, now time.Time) []models.Event {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	kept := make([]models.Event, 0, len(events))
	for _, event := range events {
		start, ok := ParseEventTime(event.RawStartDate, now.Location())
		if ok && start.Before(midnight) {
			continue
		}
		kept = append(kept, event)
	}
	return kept
}

func (m *EventMapper) formatSchedule(rawStart, rawEnd string) (string, string) {
	start, ok := ParseEventTime(rawStart, m.loc)
	if !ok {
		return "", ""
	}
	start = start.In(m.loc)
	clock := start.Format(displayTimeLayout)
	if end, ok := ParseEventTime(rawEnd, m.loc); ok {
		clock += " - " + end.In(m.loc).Format(displayTimeLayout)
	}
	return start.Format(displayDateLayout), clock
}

func resolveLocation(loc *models.RemoteLocation) (name, address, city, capacity string) {
	if loc == nil || !loc.Structured {
		return defaultCity, defaultAddress, defaultCity, ""
	}
	name = firstNonEmpty(loc.LocationName, loc.Name, defaultCity)
	address = firstNonEmpty(loc.AddressLine, loc.Address)
	city = firstNonEmpty(loc.City, defaultCity)
	return name, address, city, loc.Capacity.String()
}

func displayPrice(tiers []models.TicketType) string {
	lowest := math.Inf(1)
	found := false
	for _, tier := range tiers {
		raw := strings.TrimSpace(tier.Price.String())
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		if value < lowest {
			lowest = value
		}
		found = true
	}
	if !found {
		return ""
	}
	return strconv.FormatFloat(lowest, 'f', -1, 64) + priceCurrencySuffix
}

func placeholderImage(index int) string {
	n := len(DefaultImages)
	return DefaultImages[((index%n)+n)%n]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Schedule recovers start and end instants for a site event. Remote events
// carry their raw start; static ones are read back from the display strings.
// end is zero when the event has no end time.
func (m *EventMapper) Schedule(event models.Event) (start, end time.Time, ok bool) {
	startClock, endClock, _ := strings.Cut(event.Time, " - ")
	startClock = strings.TrimSpace(startClock)
	endClock = strings.TrimSpace(endClock)

	if parsed, found := ParseEventTime(event.RawStartDate, m.loc); found {
		start = parsed.In(m.loc)
	} else {
		day, err := time.ParseInLocation(displayDateLayout, strings.TrimSpace(event.Date), m.loc)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		start = day
		if clock, err := time.Parse(displayTimeLayout, startClock); err == nil {
			start = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, m.loc)
		}
	}

	if clock, err := time.Parse(displayTimeLayout, endClock); err == nil {
		end = time.Date(start.Year(), start.Month(), start.Day(), clock.Hour(), clock.Minute(), 0, 0, m.loc)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
	}
	return start, end, true
}
