package session

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

const (
	logMsgSessionEstablished = "session established"
	logMsgSessionCleared     = "session cleared"
)

var (
	ErrLoadingSessionFailed = errors.New("loading session failed")
	ErrSavingSessionFailed  = errors.New("saving session failed")
)

// Manager owns the process wide Session.
//
// Subscribers are called synchronously after every Establish and Clear, outside the lock,
// so a subscriber may read Current.
type Manager struct {
	mu          sync.RWMutex
	current     Session
	store       Store
	subscribers map[int]func(Session)
	nextID      int
	logger      shell.Logger
}

type ManagerOption func(*Manager)

func WithLogger(logger shell.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager restores whatever session the store holds.
func NewManager(ctx context.Context, store Store, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		store:       store,
		subscribers: make(map[int]func(Session)),
	}

	for _, opt := range opts {
		opt(m)
	}

	entries, err := store.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrLoadingSessionFailed, err)
	}

	m.current = fromEntries(entries)

	return m, nil
}

func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current
}

// Establish replaces the session and persists it.
func (m *Manager) Establish(ctx context.Context, s Session) error {
	if err := m.swap(ctx, s); err != nil {
		return err
	}

	if m.logger != nil {
		m.logger.Info(logMsgSessionEstablished, "username", s.Username, "role", string(s.Role))
	}

	return nil
}

// Clear drops the session. Clearing an empty session is fine.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.swap(ctx, Session{}); err != nil {
		return err
	}

	if m.logger != nil {
		m.logger.Info(logMsgSessionCleared)
	}

	return nil
}

// Subscribe registers fn for session changes. The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.subscribers, id)
	}
}

func (m *Manager) swap(ctx context.Context, s Session) error {
	m.mu.Lock()

	var err error
	if s.IsZero() {
		err = m.store.Clear(ctx)
	} else {
		err = m.store.Save(ctx, s.entries())
	}

	if err != nil {
		m.mu.Unlock()
		return errors.Join(ErrSavingSessionFailed, err)
	}

	m.current = s

	subscribers := make([]func(Session), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subscribers = append(subscribers, fn)
	}

	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(s)
	}

	return nil
}
