package profile

import (
	"context"
	"sync"

	"shopfront/commerce"
	"shopfront/models"
)

// Store owns the session's UserProfile. Balance and verification are only
// ever updated by Refresh, which re-fetches them from the commerce service;
// nothing mutates them locally.
type Store struct {
	mu  sync.RWMutex
	api *commerce.Client
	cur models.UserProfile
}

func NewStore(api *commerce.Client, initial models.UserProfile) *Store {
	return &Store{api: api, cur: initial}
}

func (s *Store) Current() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Refresh re-fetches balance, verification state and order history. On
// failure the stored profile is left untouched.
func (s *Store) Refresh(ctx context.Context) (models.UserProfile, []models.OrderRecord, error) {
	res, err := s.api.Profile(ctx)
	if err != nil {
		return s.Current(), nil, err
	}

	s.mu.Lock()
	s.cur.Balance = res.Balance
	s.cur.IsVerified = res.IsVerified
	cur := s.cur
	s.mu.Unlock()

	return cur, res.Orders, nil
}
