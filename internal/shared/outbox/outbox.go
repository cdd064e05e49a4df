// Package outbox relays pending ledger events to the message bus. Rows are
// appended inside the ledger's critical section; the relay publishes them and
// marks them published, so consumers see every committed batch and claim at
// least once.
package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/0xandee/SpeedRunLisk/internal/shared/events"

	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

const (
	defaultBatchSize = 64
	defaultInterval  = 2 * time.Second
)

// Bus is the publish side of the message bus the relay feeds.
type Bus interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type Relay struct {
	repo     rewardports.OutboxRepository
	bus      Bus
	clock    rewardports.Clock
	logger   *slog.Logger
	batch    int
	interval time.Duration
}

type RelayDependencies struct {
	Repository rewardports.OutboxRepository
	Bus        Bus
	Clock      rewardports.Clock
	Logger     *slog.Logger
	BatchSize  int
	Interval   time.Duration
}

func NewRelay(deps RelayDependencies) *Relay {
	batch := deps.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	interval := deps.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		repo:     deps.Repository,
		bus:      deps.Bus,
		clock:    deps.Clock,
		logger:   logger,
		batch:    batch,
		interval: interval,
	}
}

// Run polls for pending messages until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RelayPending(ctx); err != nil {
				r.logger.Error("outbox relay pass failed",
					"event", "outbox_relay_failed",
					"module", "internal/shared/outbox",
					"layer", "shared",
					"error", err.Error(),
				)
			}
		}
	}
}

// RelayPending publishes one batch of pending messages and reports how many
// went out. A message that fails to decode or publish stays pending and is
// retried on the next pass.
func (r *Relay) RelayPending(ctx context.Context) (int, error) {
	rows, err := r.repo.ListPendingOutbox(ctx, r.batch)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, row := range rows {
		var envelope events.Envelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			r.logger.Error("outbox message payload is not an envelope",
				"event", "outbox_decode_failed",
				"module", "internal/shared/outbox",
				"layer", "shared",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			continue
		}
		if err := r.bus.Publish(ctx, row.EventType, envelope); err != nil {
			r.logger.Warn("outbox publish failed, will retry",
				"event", "outbox_publish_failed",
				"module", "internal/shared/outbox",
				"layer", "shared",
				"outbox_id", row.OutboxID,
				"event_type", row.EventType,
				"error", err.Error(),
			)
			continue
		}
		if err := r.repo.MarkOutboxPublished(ctx, row.OutboxID, r.clock.Now()); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}
