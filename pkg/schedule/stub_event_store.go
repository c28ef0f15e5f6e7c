package schedule

import (
	"context"
	"errors"
)

// StubEventStore keeps the collection in memory for tests.
type StubEventStore struct {
	events    []Event
	saves     int
	failSaves bool
	failLoads bool
}

var errStubStore = errors.New("store unavailable")

func NewStubEventStore(events []Event) *StubEventStore {
	return &StubEventStore{events: events}
}

func (s *StubEventStore) Load(ctx context.Context) ([]Event, error) {
	if s.failLoads {
		return nil, errStubStore
	}
	loaded := make([]Event, len(s.events))
	copy(loaded, s.events)
	return loaded, nil
}

func (s *StubEventStore) Save(ctx context.Context, events []Event) error {
	if s.failSaves {
		return errStubStore
	}
	s.saves++
	s.events = make([]Event, len(events))
	copy(s.events, events)
	return nil
}

func (s *StubEventStore) Events() []Event {
	return s.events
}

func (s *StubEventStore) SaveCount() int {
	return s.saves
}

func (s *StubEventStore) FailSaves() {
	s.failSaves = true
}

func (s *StubEventStore) FailLoads() {
	s.failLoads = true
}
