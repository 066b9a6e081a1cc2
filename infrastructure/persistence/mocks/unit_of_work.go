package mocks

import (
	"context"
	"sync"

	"pos/domain/shared"
)

// Transactional is implemented by in-memory repositories that can undo
// everything written after Begin.
type Transactional interface {
	Begin() (rollback func())
}

// MockUnitOfWork is a mock implementation of UnitOfWork for testing
// Writes to the participating repositories are undone when fn fails, and
// events of registered aggregates are kept only on success.
type MockUnitOfWork struct {
	participants []Transactional
	aggregates   []shared.AggregateRoot
	outbox       *MockOutbox

	// ExecuteErr is returned instead of running fn (simulates a failed BEGIN)
	ExecuteErr error
	// Executions counts calls to Execute
	Executions int
}

// NewMockUnitOfWork creates a new MockUnitOfWork instance
func NewMockUnitOfWork(outbox *MockOutbox, participants ...Transactional) *MockUnitOfWork {
	if outbox == nil {
		outbox = NewMockOutbox()
	}
	return &MockUnitOfWork{
		participants: participants,
		aggregates:   make([]shared.AggregateRoot, 0),
		outbox:       outbox,
	}
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.Executions++
	if u.ExecuteErr != nil {
		return u.ExecuteErr
	}
	u.aggregates = make([]shared.AggregateRoot, 0)

	rollbacks := make([]func(), 0, len(u.participants))
	for _, p := range u.participants {
		rollbacks = append(rollbacks, p.Begin())
	}
	rollback := func() {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			rollbacks[i]()
		}
	}

	if err := fn(ctx); err != nil {
		rollback()
		return err
	}

	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			if err := u.outbox.SaveEvent(ctx, event); err != nil {
				rollback()
				return err
			}
		}
	}
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// MockUnitOfWorkFactory returns the same mock for every request
type MockUnitOfWorkFactory struct {
	UoW *MockUnitOfWork
}

func NewMockUnitOfWorkFactory(uow *MockUnitOfWork) *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{UoW: uow}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return f.UoW
}

// MockOutbox keeps committed events in memory
type MockOutbox struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	// SaveErr makes SaveEvent fail, forcing the unit of work to roll back
	SaveErr error
}

func NewMockOutbox() *MockOutbox {
	return &MockOutbox{}
}

func (o *MockOutbox) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if o.SaveErr != nil {
		return o.SaveErr
	}
	if err := shared.ValidateEvent(event); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return nil
}

// Events returns a copy of the saved events
func (o *MockOutbox) Events() []shared.DomainEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	events := make([]shared.DomainEvent, len(o.events))
	copy(events, o.events)
	return events
}

// Compile-time checks
var (
	_ shared.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
	_ shared.OutboxRepository  = (*MockOutbox)(nil)
)
