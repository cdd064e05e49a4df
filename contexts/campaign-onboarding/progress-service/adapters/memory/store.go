package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/errors"
)

type Store struct {
	mu       sync.RWMutex
	progress map[string]entities.Progress
}

func NewStore() *Store {
	return &Store{progress: make(map[string]entities.Progress)}
}

func (s *Store) GetProgress(_ context.Context, userAddress string) (entities.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.progress[strings.ToLower(strings.TrimSpace(userAddress))]
	if !ok {
		return entities.Progress{}, domainerrors.ErrProgressNotFound
	}
	return progress, nil
}

func (s *Store) UpsertProgress(_ context.Context, progress entities.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progress.UserAddress] = progress
	return nil
}

func (s *Store) ListProgress(_ context.Context) ([]entities.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Progress, 0, len(s.progress))
	for _, progress := range s.progress {
		items = append(items, progress)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UserAddress < items[j].UserAddress
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
