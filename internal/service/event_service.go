package service

import (
	"context"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/dto"
	"github.com/slutstation/slutstation-web/internal/models"
)

const calendarProductID = "-//Slutstation//Events//EN"

type eventSource interface {
	IsConfigured() bool
	FetchActiveEvents(ctx context.Context) models.SourceResult
	FetchCompletedEvents(ctx context.Context) models.SourceResult
	FetchEventByID(ctx context.Context, id string) models.SourceRecord
}

type eventCacheClearer interface {
	Clear(ctx context.Context) error
}

// EventServiceParams groups constructor dependencies.
type EventServiceParams struct {
	Source  eventSource
	Cache   eventCacheClearer
	Static  *StaticEvents
	Mapper  *EventMapper
	Metrics *MetricsService
	Logger  *zap.Logger
}

// EventService answers the site's event listings. Listing operations never
// fail: ticketing problems degrade to the static dataset or an empty list.
type EventService struct {
	source  eventSource
	cache   eventCacheClearer
	static  *StaticEvents
	mapper  *EventMapper
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewEventService constructs an EventService with sane defaults.
func NewEventService(params EventServiceParams) *EventService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mapper := params.Mapper
	if mapper == nil {
		mapper = NewEventMapper(time.UTC)
	}
	return &EventService{
		source:  params.Source,
		cache:   params.Cache,
		static:  params.Static,
		mapper:  mapper,
		metrics: params.Metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *EventService) configured() bool {
	return s.source != nil && s.source.IsConfigured()
}

// GetUpcomingEvents lists active events, falling back to the static dataset.
func (s *EventService) GetUpcomingEvents(ctx context.Context) []models.Event {
	if !s.configured() {
		s.logger.Debug("ticketing not configured, serving static events")
		return s.fallback("upcoming")
	}

	result := s.source.FetchActiveEvents(ctx)
	if !result.Available || len(result.Events) == 0 {
		s.logger.Info("no upcoming events from ticketing, serving static events", zap.Bool("available", result.Available))
		return s.fallback("upcoming")
	}
	return s.mapper.NormalizeAll(result.Events)
}

// GetPastEvents lists completed events. There is no static fallback.
func (s *EventService) GetPastEvents(ctx context.Context) []models.Event {
	if !s.configured() {
		s.metrics.RecordEventFallback("past")
		return []models.Event{}
	}

	result := s.source.FetchCompletedEvents(ctx)
	if !result.Available || len(result.Events) == 0 {
		s.logger.Info("no past events from ticketing", zap.Bool("available", result.Available))
		s.metrics.RecordEventFallback("past")
		return []models.Event{}
	}
	return s.mapper.NormalizeAll(result.Events)
}

// GetEvents lists upcoming then past events, dropping anything that started
// before today.
func (s *EventService) GetEvents(ctx context.Context) []models.Event {
	if !s.configured() {
		return s.fallback("all")
	}

	var (
		wg        sync.WaitGroup
		active    models.SourceResult
		completed models.SourceResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		active = s.source.FetchActiveEvents(ctx)
	}()
	go func() {
		defer wg.Done()
		completed = s.source.FetchCompletedEvents(ctx)
	}()
	wg.Wait()

	records := make([]models.RemoteEvent, 0, len(active.Events)+len(completed.Events))
	if active.Available {
		records = append(records, active.Events...)
	}
	if completed.Available {
		records = append(records, completed.Events...)
	}
	if len(records) == 0 {
		s.logger.Info("no events from ticketing, serving static events",
			zap.Bool("active_available", active.Available),
			zap.Bool("completed_available", completed.Available),
		)
		return s.fallback("all")
	}

	events := FilterActive(s.mapper.NormalizeAll(records), s.now().In(s.mapper.Location()))
	s.logger.Debug("events loaded", zap.Int("fetched", len(records)), zap.Int("active", len(events)))
	return events
}

// GetEventByID resolves one event, trying the ticketing API before the static dataset.
func (s *EventService) GetEventByID(ctx context.Context, id string) (models.Event, bool) {
	if s.configured() {
		record := s.source.FetchEventByID(ctx, id)
		if record.Available {
			return s.mapper.Normalize(record.Event, 0), true
		}
		s.logger.Debug("event not found on ticketing, checking static events", zap.String("event_id", id))
	}
	return s.static.Find(id)
}

// GetOverview returns both listings and whether the page has anything to show.
func (s *EventService) GetOverview(ctx context.Context) dto.EventOverview {
	var (
		wg       sync.WaitGroup
		upcoming []models.Event
		past     []models.Event
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		upcoming = s.GetUpcomingEvents(ctx)
	}()
	go func() {
		defer wg.Done()
		past = s.GetPastEvents(ctx)
	}()
	wg.Wait()

	return dto.EventOverview{
		Upcoming: upcoming,
		Past:     past,
		Empty:    len(upcoming) == 0 && len(past) == 0,
	}
}

// ClearCache drops cached completed events so the next read hits the API.
func (s *EventService) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("event cache clear failed", zap.Error(err))
		return err
	}
	s.logger.Info("event cache cleared")
	return nil
}

// Calendar renders the upcoming listing as an iCalendar feed. Events whose
// start cannot be recovered are left out of the feed.
func (s *EventService) Calendar(ctx context.Context) []byte {
	events := s.GetUpcomingEvents(ctx)
	stamp := s.now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, event := range events {
		start, end, ok := s.mapper.Schedule(event)
		if !ok {
			s.logger.Debug("event skipped in calendar", zap.String("event_id", event.ID))
			continue
		}
		entry := cal.AddEvent(event.ID + "@slutstation.se")
		entry.SetDtStampTime(stamp)
		entry.SetStartAt(start)
		if !end.IsZero() {
			entry.SetEndAt(end)
		}
		entry.SetSummary(event.Title)
		entry.SetDescription(event.Description)
		entry.SetLocation(calendarLocation(event))
		if event.TicketLink != "" && event.TicketLink != "#" {
			entry.SetURL(event.TicketLink)
		}
	}
	return []byte(cal.Serialize())
}

func (s *EventService) fallback(operation string) []models.Event {
	s.metrics.RecordEventFallback(operation)
	return s.static.All()
}

func calendarLocation(event models.Event) string {
	if event.Address == "" || event.Address == event.Location {
		return event.Location
	}
	return event.Location + ", " + event.Address
}
