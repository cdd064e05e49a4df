package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/ports"
)

type userWeekKey struct {
	userAddress string
	week        int
}

// Store keeps submissions in process for tests and single-node runs.
type Store struct {
	mu          sync.RWMutex
	submissions map[string]entities.Submission
	byUserWeek  map[userWeekKey]string
}

func NewStore() *Store {
	return &Store{
		submissions: make(map[string]entities.Submission),
		byUserWeek:  make(map[userWeekKey]string),
	}
}

func (s *Store) CreateSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userWeekKey{userAddress: submission.UserAddress, week: submission.Week}
	if _, exists := s.byUserWeek[key]; exists {
		return domainerrors.ErrDuplicateSubmission
	}
	s.submissions[submission.SubmissionID] = submission
	s.byUserWeek[key] = submission.SubmissionID
	return nil
}

func (s *Store) UpdateSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[submission.SubmissionID]; !ok {
		return domainerrors.ErrSubmissionNotFound
	}
	s.submissions[submission.SubmissionID] = submission
	return nil
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	submission, ok := s.submissions[strings.TrimSpace(submissionID)]
	if !ok {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *Store) GetByUserWeek(_ context.Context, userAddress string, week int) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := userWeekKey{userAddress: strings.ToLower(strings.TrimSpace(userAddress)), week: week}
	submissionID, ok := s.byUserWeek[key]
	if !ok {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return s.submissions[submissionID], nil
}

func (s *Store) ListSubmissions(_ context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Submission, 0)
	for _, submission := range s.submissions {
		if filter.UserAddress != "" && submission.UserAddress != filter.UserAddress {
			continue
		}
		if filter.Week != 0 && submission.Week != filter.Week {
			continue
		}
		if filter.ApprovedOnly && submission.Status != entities.ReviewStatusApproved {
			continue
		}
		items = append(items, submission)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmittedAt.Before(items[j].SubmittedAt)
	})
	return items, nil
}

func (s *Store) CountByWeek(_ context.Context) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for _, submission := range s.submissions {
		counts[submission.Week]++
	}
	return counts, nil
}

func (s *Store) CountryDistribution(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, submission := range s.submissions {
		if submission.Country == "" {
			continue
		}
		counts[submission.Country]++
	}
	return counts, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
