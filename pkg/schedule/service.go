package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eqsched/eqsched/internal/utils"
	"github.com/eqsched/eqsched/pkg/auth"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEndBeforeStart   = errors.New("end date must not be before start date")
	ErrNoFieldsSelected = errors.New("no fields selected for update")
	ErrEventNotFound    = errors.New("event not found")
	ErrReadOnly         = errors.New("role does not permit editing events")
)

// EventInput carries the authored fields of an event. Title and the
// provenance columns are never part of the input: the title is derived and
// the stamps are applied by the operation itself.
type EventInput struct {
	Type     EventType
	Status   Status
	Source   Source
	Client   string
	Course   string
	Trainer  string
	Medium   Medium
	Location string
	Billing  string
	Invoiced Invoiced
	Notes    string
}

// FieldChanges selects the fields a bulk update applies. Nil fields are
// left untouched.
type FieldChanges struct {
	Status   *Status
	Trainer  *string
	Location *string
	Medium   *Medium
	Invoiced *Invoiced
	Type     *EventType
	Source   *Source
}

func (c FieldChanges) IsEmpty() bool {
	return c.Status == nil && c.Trainer == nil && c.Location == nil &&
		c.Medium == nil && c.Invoiced == nil && c.Type == nil && c.Source == nil
}

func (c FieldChanges) applyTo(e *Event) {
	if c.Status != nil {
		e.Status = *c.Status
	}
	if c.Trainer != nil {
		e.Trainer = *c.Trainer
	}
	if c.Location != nil {
		e.Location = *c.Location
	}
	if c.Medium != nil {
		e.Medium = *c.Medium
	}
	if c.Invoiced != nil {
		e.Invoiced = *c.Invoiced
	}
	if c.Type != nil {
		e.Type = *c.Type
	}
	if c.Source != nil {
		e.Source = *c.Source
	}
}

type Service interface {
	List(ctx context.Context, filter Filter) ([]Event, error)
	Create(ctx context.Context, input EventInput, start time.Time, end time.Time) ([]Event, error)
	Update(ctx context.Context, id string, input EventInput, start time.Time, end time.Time) ([]Event, error)
	BulkUpdate(ctx context.Context, ids []string, changes FieldChanges) ([]Event, error)
	DuplicateToDate(ctx context.Context, ids []string, target time.Time) ([]Event, error)
	DuplicateRange(ctx context.Context, ids []string, start time.Time, end time.Time) ([]Event, error)
	Delete(ctx context.Context, ids []string) ([]Event, error)
}

// ServiceImpl implements all event operations as load-full, mutate
// in-memory, save-once cycles against the store. A failed save leaves the
// backing file unchanged; the next load reverts the in-memory view.
type ServiceImpl struct {
	store EventStore
	clock utils.Clock
}

func NewService(store EventStore, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{store: store, clock: clock}
}

// List returns the role-scoped, filtered view of the collection. A trainer
// identity only ever sees its own records, regardless of requested filters.
func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Event, error) {
	identity, err := auth.CurrentIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current identity: %w", err)
	}
	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	if identity.Role == auth.RoleTrainer {
		filter.Trainer = identity.TrainerName
	}
	return filter.Apply(events), nil
}

func (s *ServiceImpl) Create(ctx context.Context, input EventInput, start time.Time, end time.Time) ([]Event, error) {
	actor, err := s.editor(ctx)
	if err != nil {
		return nil, err
	}
	days, err := expandDays(start, end)
	if err != nil {
		return nil, err
	}

	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	created := s.expand(input, days, ActionCreated, actor)
	events = append(events, created...)
	if err := s.store.Save(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to save events: %w", err)
	}
	log.Infof("%s created %d event(s)", actor, len(created))
	return created, nil
}

// Update replaces a single record with the per-day expansion of the new
// input: editing one event's dates to a range swaps one record for N.
func (s *ServiceImpl) Update(ctx context.Context, id string, input EventInput, start time.Time, end time.Time) ([]Event, error) {
	actor, err := s.editor(ctx)
	if err != nil {
		return nil, err
	}
	days, err := expandDays(start, end)
	if err != nil {
		return nil, err
	}

	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	index := -1
	for i, e := range events {
		if e.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrEventNotFound
	}
	events = append(events[:index], events[index+1:]...)

	replacements := s.expand(input, days, ActionModified, actor)
	events = append(events, replacements...)
	if err := s.store.Save(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to save events: %w", err)
	}
	log.Infof("%s replaced event %s with %d record(s)", actor, id, len(replacements))
	return replacements, nil
}

// BulkUpdate applies exactly the selected fields to every referenced
// record. An empty selection is a no-op: nothing is mutated or persisted.
func (s *ServiceImpl) BulkUpdate(ctx context.Context, ids []string, changes FieldChanges) ([]Event, error) {
	actor, err := s.editor(ctx)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return nil, ErrNoFieldsSelected
	}

	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	selected := idSet(ids)
	updated := make([]Event, 0, len(ids))
	for i := range events {
		if !selected[events[i].ID] {
			continue
		}
		changes.applyTo(&events[i])
		s.stamp(&events[i], ActionBulkModified, actor)
		updated = append(updated, events[i])
	}
	if err := s.store.Save(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to save events: %w", err)
	}
	log.Infof("%s bulk-updated %d event(s)", actor, len(updated))
	return updated, nil
}

func (s *ServiceImpl) DuplicateToDate(ctx context.Context, ids []string, target time.Time) ([]Event, error) {
	return s.duplicate(ctx, ids, []time.Time{dateOnly(target)})
}

func (s *ServiceImpl) DuplicateRange(ctx context.Context, ids []string, start time.Time, end time.Time) ([]Event, error) {
	days, err := expandDays(start, end)
	if err != nil {
		return nil, err
	}
	return s.duplicate(ctx, ids, days)
}

func (s *ServiceImpl) duplicate(ctx context.Context, ids []string, days []time.Time) ([]Event, error) {
	actor, err := s.editor(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	selected := idSet(ids)
	duplicates := make([]Event, 0, len(ids)*len(days))
	for _, e := range events {
		if !selected[e.ID] {
			continue
		}
		for _, day := range days {
			dup := e
			dup.ID = uuid.NewString()
			dup.Date = day
			s.stamp(&dup, ActionDuplicated, actor)
			duplicates = append(duplicates, dup)
		}
	}
	events = append(events, duplicates...)
	if err := s.store.Save(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to save events: %w", err)
	}
	log.Infof("%s duplicated %d event(s) into %d record(s)", actor, len(ids), len(duplicates))
	return duplicates, nil
}

// Delete removes the referenced records. The Deleted stamp is applied to
// the returned copies for display only: the rows are gone before the save,
// so the stamp never persists.
func (s *ServiceImpl) Delete(ctx context.Context, ids []string) ([]Event, error) {
	actor, err := s.editor(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	selected := idSet(ids)
	remaining := make([]Event, 0, len(events))
	deleted := make([]Event, 0, len(ids))
	for _, e := range events {
		if selected[e.ID] {
			s.stamp(&e, ActionDeleted, actor)
			deleted = append(deleted, e)
			continue
		}
		remaining = append(remaining, e)
	}
	if err := s.store.Save(ctx, remaining); err != nil {
		return nil, fmt.Errorf("failed to save events: %w", err)
	}
	log.Infof("%s deleted %d event(s)", actor, len(deleted))
	return deleted, nil
}

// editor resolves the acting identity and rejects read-only roles before
// any load or mutation happens.
func (s *ServiceImpl) editor(ctx context.Context) (string, error) {
	identity, err := auth.CurrentIdentity(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current identity: %w", err)
	}
	if !identity.CanEdit() {
		return "", ErrReadOnly
	}
	return identity.Email, nil
}

func (s *ServiceImpl) expand(input EventInput, days []time.Time, action ActionType, actor string) []Event {
	expanded := make([]Event, 0, len(days))
	for _, day := range days {
		e := Event{
			ID:       uuid.NewString(),
			Date:     day,
			Type:     input.Type,
			Status:   input.Status,
			Source:   input.Source,
			Client:   input.Client,
			Course:   input.Course,
			Trainer:  input.Trainer,
			Medium:   input.Medium,
			Location: input.Location,
			Billing:  input.Billing,
			Invoiced: input.Invoiced,
			Notes:    input.Notes,
		}
		s.stamp(&e, action, actor)
		expanded = append(expanded, e)
	}
	return expanded
}

func (s *ServiceImpl) stamp(e *Event, action ActionType, actor string) {
	e.DateModified = s.clock.Now()
	e.ActionType = action
	e.ModifiedBy = actor
}

// expandDays lists every calendar day in [start, end] inclusive.
func expandDays(start time.Time, end time.Time) ([]time.Time, error) {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}
	days := make([]time.Time, 0, 1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days, nil
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
