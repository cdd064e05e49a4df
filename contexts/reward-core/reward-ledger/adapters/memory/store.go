package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Store backs the ledger's audit, outbox and mirror ports for tests and
// single-process deployments.
type Store struct {
	mu sync.RWMutex

	audit  []ports.AuditRecord
	outbox map[string]outboxRecord
	mirror map[string]ports.GrantRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		outbox: make(map[string]outboxRecord),
		mirror: make(map[string]ports.GrantRecord),
	}
}

func (s *Store) AppendAudit(_ context.Context, record ports.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, record)
	return nil
}

// AuditTrail returns the append-only audit log in commit order.
func (s *Store) AuditTrail() []ports.AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.AuditRecord(nil), s.audit...)
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return errors.New("outbox envelope requires an event id")
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrDuplicateProof
		}
		return nil
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrBatchNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) UpsertGrant(_ context.Context, record ports.GrantRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(record.GrantID) == "" {
		return errors.New("grant record requires a grant id")
	}
	s.mirror[record.GrantID] = record
	return nil
}

func (s *Store) MarkGrantsPaid(_ context.Context, recipient string, paidAt time.Time, txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := strings.ToLower(strings.TrimSpace(recipient))
	ts := paidAt.UTC()
	for id, record := range s.mirror {
		if record.Recipient != addr {
			continue
		}
		record.Status = ports.GrantStatusSettled
		record.TxHash = txHash
		record.SettledAt = &ts
		s.mirror[id] = record
	}
	return nil
}

func (s *Store) ListGrantsByRecipient(_ context.Context, recipient string) ([]ports.GrantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addr := strings.ToLower(strings.TrimSpace(recipient))
	items := make([]ports.GrantRecord, 0)
	for _, record := range s.mirror {
		if record.Recipient == addr {
			items = append(items, record)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AllocatedAt.Before(items[j].AllocatedAt)
	})
	return items, nil
}

func (s *Store) ListGrantsByWeek(_ context.Context, week int) ([]ports.GrantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.GrantRecord, 0)
	for _, record := range s.mirror {
		if record.Week == week {
			items = append(items, record)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AllocatedAt.Before(items[j].AllocatedAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
