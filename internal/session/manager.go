package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/spherical-ai/esg-assistant/internal/assistant"
	"github.com/spherical-ai/esg-assistant/internal/conversation"
	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
)

// Manager runs chat turns for many independent sessions. Turns within one
// session are serialized; different sessions run concurrently.
type Manager struct {
	store     Store
	assistant *assistant.Service
	logger    *observability.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is released from the map once no caller holds or waits on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a session manager.
func NewManager(store Store, svc *assistant.Service, logger *observability.Logger) *Manager {
	return &Manager{
		store:     store,
		assistant: svc,
		logger:    observability.OrNop(logger).WithOperation("session"),
		locks:     make(map[string]*sessionLock),
	}
}

// Create starts a new empty session and returns its id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, nil); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	m.logger.WithSession(id).Debug().Msg("session created")
	return id, nil
}

// Ask runs one chat turn in the given session.
func (m *Manager) Ask(ctx context.Context, id, question string) (string, error) {
	unlock := m.lock(id)
	defer unlock()

	state, err := m.load(ctx, id)
	if err != nil {
		return "", err
	}

	reply, err := m.assistant.Ask(ctx, state, question)
	if err != nil {
		return "", err
	}

	if err := m.store.Save(ctx, id, state.Turns()); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return reply, nil
}

// History returns the turns after the persona.
func (m *Manager) History(ctx context.Context, id string) ([]domain.Turn, error) {
	unlock := m.lock(id)
	defer unlock()

	state, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return state.Turns(), nil
}

// Reset clears the history of a session but keeps it alive.
func (m *Manager) Reset(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if _, err := m.store.Load(ctx, id); err != nil {
		return err
	}
	if err := m.store.Save(ctx, id, nil); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	m.logger.WithSession(id).Debug().Msg("session history cleared")
	return nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	return m.store.Delete(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (*conversation.State, error) {
	turns, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return conversation.Restore(m.assistant.Persona(), turns)
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
