package memory

import (
	"context"
	"fmt"
	"sync"

	"shipment-consolidation-service/internal/domain"
)

type SessionStore struct {
	mu          sync.RWMutex
	drafts      map[string]*domain.ShipmentDraft
	allocations map[string]*domain.AllocationSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		drafts:      make(map[string]*domain.ShipmentDraft),
		allocations: make(map[string]*domain.AllocationSession),
	}
}

func (s *SessionStore) PutDraft(ctx context.Context, d *domain.ShipmentDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.drafts[d.DraftID] = &cp
	return nil
}

func (s *SessionStore) GetDraft(ctx context.Context, id string) (*domain.ShipmentDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %q: %w", id, domain.ErrUnknownSession)
	}
	cp := *d
	return &cp, nil
}

func (s *SessionStore) DeleteDraft(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

func (s *SessionStore) PutAllocation(ctx context.Context, a *domain.AllocationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.allocations[a.SessionID] = &cp
	return nil
}

func (s *SessionStore) GetAllocation(ctx context.Context, id string) (*domain.AllocationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.allocations[id]
	if !ok {
		return nil, fmt.Errorf("allocation %q: %w", id, domain.ErrUnknownSession)
	}
	cp := *a
	return &cp, nil
}

func (s *SessionStore) DeleteAllocation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.allocations, id)
	return nil
}
