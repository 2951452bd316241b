package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-crm-api/internal/models"
	appErrors "github.com/noah-isme/tutor-crm-api/pkg/errors"
)

type scheduleRuleRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ScheduleRule, error)
}

type eventStore interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Upsert(ctx context.Context, event *models.Event) error
}

type eventUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EventServiceConfig tunes calendar materialization.
type EventServiceConfig struct {
	// Location is the zone the day-by-day expansion iterates in.
	Location *time.Location
	// MaxWindowDays caps the requested date window. Zero disables the cap.
	MaxWindowDays int
}

// EventService materializes the calendar: it expands weekly schedule rules
// into concrete occurrences over a window and reconciles them with
// persisted edits and cancellations.
type EventService struct {
	schedules scheduleRuleRepository
	events    eventStore
	users     eventUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    EventServiceConfig

	// now is captured once per request so a single materialization is
	// deterministic. Overridable in tests.
	now func() time.Time
}

// NewEventService constructs the service.
func NewEventService(schedules scheduleRuleRepository, events eventStore, users eventUserRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cfg EventServiceConfig) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &EventService{
		schedules: schedules,
		events:    events,
		users:     users,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    cfg,
		now:       time.Now,
	}
}

// GetEventsByDates returns the merged calendar for the window (from, to):
// occurrences generated from the user's schedule rules, overridden by any
// persisted edits, with cancelled occurrences removed, ordered by start
// time. Nothing is written; generated occurrences stay ephemeral.
func (s *EventService) GetEventsByDates(ctx context.Context, userID string, from, to time.Time) ([]models.Event, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownUser, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if !to.After(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be after startDate")
	}
	if s.config.MaxWindowDays > 0 && to.Sub(from) > time.Duration(s.config.MaxWindowDays)*24*time.Hour {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requested window exceeds the maximum span")
	}

	// The schedule and event reads are independent; the merge below is
	// the join point.
	var (
		rules     []models.ScheduleRule
		persisted []models.Event
		rulesErr  error
		eventsErr error
		wg        sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rules, rulesErr = s.schedules.ListByUser(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		persisted, eventsErr = s.events.ListBetween(ctx, from, to)
	}()
	wg.Wait()
	if rulesErr != nil {
		return nil, appErrors.Wrap(rulesErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule rules")
	}
	if eventsErr != nil {
		return nil, appErrors.Wrap(eventsErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load persisted events")
	}

	generated := s.generate(rules, from, to, s.now())
	if s.metrics != nil {
		s.metrics.AddGeneratedEvents(len(generated))
	}

	return mergeEvents(persisted, generated), nil
}

// generate expands the rules over the window. Only the portion of the
// window from "now" forward is materialized: occurrences that already lie
// fully in the past are not regenerated (edits to past occurrences remain
// visible through the persisted store). The scan runs one day past the
// window end to absorb zone effects at the boundary; the strict lower-bound
// filter keeps the result inside the window.
func (s *EventService) generate(rules []models.ScheduleRule, from, to, now time.Time) []models.Event {
	if len(rules) == 0 {
		return nil
	}

	cursor := from
	if cursor.Before(now) {
		cursor = now
	}
	cursor = cursor.In(s.config.Location)
	scanEnd := to.In(s.config.Location).AddDate(0, 0, 1)

	var generated []models.Event
	for d := cursor; d.Before(scanEnd); d = d.AddDate(0, 0, 1) {
		weekday := models.ISOWeekday(d)
		for _, rule := range rules {
			if rule.Weekday != weekday {
				continue
			}
			key, err := models.NewEventKey(d, rule)
			if err != nil {
				// Unreachable given the weekday filter above.
				s.logger.Error("skipping schedule rule", zap.Error(err))
				continue
			}
			event := key.Event()
			if event.From.After(from) {
				generated = append(generated, event)
			}
		}
	}
	return generated
}

// mergeEvents reconciles persisted overrides with generated occurrences.
// A persisted event sharing an id with a generated one fully supersedes it.
// Persisted events with no generated counterpart (one-offs, or rules changed
// after the fact) are appended. Cancelled events never survive the merge.
func mergeEvents(persisted, generated []models.Event) []models.Event {
	overrides := make(map[string]models.Event, len(persisted))
	for _, event := range persisted {
		overrides[event.ID] = event
	}

	generatedIDs := make(map[string]struct{}, len(generated))
	merged := make([]models.Event, 0, len(generated)+len(persisted))
	for _, event := range generated {
		generatedIDs[event.ID] = struct{}{}
		if override, ok := overrides[event.ID]; ok {
			event = override
		}
		if event.Cancelled {
			continue
		}
		merged = append(merged, event)
	}
	for _, event := range persisted {
		if _, ok := generatedIDs[event.ID]; ok {
			continue
		}
		if event.Cancelled {
			continue
		}
		merged = append(merged, event)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].From.Before(merged[j].From)
	})
	return merged
}

// UpdateEventRequest carries an occurrence edit.
type UpdateEventRequest struct {
	From            time.Time `json:"from" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,min=1"`
}

// UpdateEvent persists an edited occurrence under its canonical id. The id
// keeps encoding the rule-derived identity; the stored fields carry the
// edit.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	key, err := models.ParseEventID(id, s.config.Location)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event id")
	}

	event := key.Event()
	event.From = req.From
	event.DurationMinutes = req.DurationMinutes

	if err := s.events.Upsert(ctx, &event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store event")
	}
	return &event, nil
}

// CancelEvent persists a cancellation override for the occurrence. The
// cancelled row suppresses the generated occurrence on every later read.
func (s *EventService) CancelEvent(ctx context.Context, id string) error {
	key, err := models.ParseEventID(id, s.config.Location)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event id")
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
		}
		fresh := key.Event()
		event = &fresh
	}
	event.Cancelled = true

	if err := s.events.Upsert(ctx, event); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store cancellation")
	}
	return nil
}
