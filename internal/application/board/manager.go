package board

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// Manager hands out one Store per authenticated user.
type Manager struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Store
	repo   ports.TaskRepository
	logger *logger.Logger
}

// NewManager creates a store manager backed by the task repository.
func NewManager(repo ports.TaskRepository, appLogger *logger.Logger) *Manager {
	return &Manager{
		stores: make(map[uuid.UUID]*Store),
		repo:   repo,
		logger: appLogger,
	}
}

// StoreFor returns the user's store, creating it on first access.
func (m *Manager) StoreFor(userID uuid.UUID) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.stores[userID]
	if !ok {
		store = NewStore(userID, m.repo, m.logger)
		m.stores[userID] = store
	}
	return store
}

// Invalidate drops a user's working copy, if one exists.
func (m *Manager) Invalidate(userID uuid.UUID) {
	m.mu.Lock()
	store, ok := m.stores[userID]
	m.mu.Unlock()

	if ok {
		store.Invalidate()
	}
}
