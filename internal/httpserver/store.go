package httpserver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dinoai/omnicast/internal/domain"
)

// composerStore holds live composer sessions by id. Sessions are
// process-lifetime only; nothing here is persisted.
type composerStore struct {
	mu        sync.Mutex
	composers map[string]*domain.Composer
}

func newComposerStore() *composerStore {
	return &composerStore{composers: make(map[string]*domain.Composer)}
}

func (s *composerStore) create(c *domain.Composer) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.composers[id] = c
	s.mu.Unlock()
	return id
}

func (s *composerStore) get(id string) (*domain.Composer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.composers[id]
	return c, ok
}

func (s *composerStore) delete(id string) {
	s.mu.Lock()
	delete(s.composers, id)
	s.mu.Unlock()
}
