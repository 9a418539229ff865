package service

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/slutstation/slutstation-web/internal/models"
)

//go:embed data/static_events.yaml
var staticEventsYAML []byte

// StaticEvents is the bundled fallback listing. It is read-only after load;
// every accessor hands out copies.
type StaticEvents struct {
	events []models.Event
	byID   map[string]int
}

// LoadStaticEvents decodes the embedded dataset.
func LoadStaticEvents() (*StaticEvents, error) {
	return ParseStaticEvents(staticEventsYAML)
}

// ParseStaticEvents decodes a YAML list of events.
func ParseStaticEvents(raw []byte) (*StaticEvents, error) {
	var events []models.Event
	if err := yaml.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode static events: %w", err)
	}

	byID := make(map[string]int, len(events))
	for i := range events {
		if events[i].ID == "" {
			return nil, fmt.Errorf("static event %d has no id", i)
		}
		if _, dup := byID[events[i].ID]; dup {
			return nil, fmt.Errorf("duplicate static event id %q", events[i].ID)
		}
		if events[i].Lineup == nil {
			events[i].Lineup = []models.LineupEntry{}
		}
		if events[i].Venue.Facilities == nil {
			events[i].Venue.Facilities = []string{}
		}
		byID[events[i].ID] = i
	}
	return &StaticEvents{events: events, byID: byID}, nil
}

// All returns copies of every static event in dataset order.
func (s *StaticEvents) All() []models.Event {
	if s == nil {
		return []models.Event{}
	}
	out := make([]models.Event, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.Clone())
	}
	return out
}

// Find returns a copy of the event with the given id.
func (s *StaticEvents) Find(id string) (models.Event, bool) {
	if s == nil {
		return models.Event{}, false
	}
	idx, ok := s.byID[id]
	if !ok {
		return models.Event{}, false
	}
	return s.events[idx].Clone(), true
}
