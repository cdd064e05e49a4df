package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rewardledger "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
	"github.com/0xandee/SpeedRunLisk/internal/shared/events"
)

const (
	relayOwner = "0x00000000000000000000000000000000000000AA"
	relayUser  = "0x00000000000000000000000000000000000000BB"
)

type captureBus struct {
	published []events.Envelope
	topics    []string
	failNext  int
}

func (b *captureBus) Publish(_ context.Context, topic string, event events.Envelope) error {
	if b.failNext > 0 {
		b.failNext--
		return errors.New("bus unavailable")
	}
	b.topics = append(b.topics, topic)
	b.published = append(b.published, event)
	return nil
}

func allocateOne(t *testing.T, module rewardledger.Module) {
	t.Helper()
	_, err := module.Ledger.Allocate(context.Background(), relayOwner, []ports.Grant{{
		Recipient: relayUser,
		Amount:    20,
		Category:  ports.CategoryFastCompletion,
		Week:      1,
		Proof:     "relay proof",
	}})
	require.NoError(t, err)
}

func TestRelayPendingPublishesAndMarks(t *testing.T) {
	module := rewardledger.NewInMemoryModule(relayOwner, nil)
	allocateOne(t, module)

	bus := &captureBus{}
	relay := NewRelay(RelayDependencies{
		Repository: module.Store,
		Bus:        bus,
		Clock:      module.Store,
	})

	published, err := relay.RelayPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	require.Len(t, bus.published, 1)
	assert.Equal(t, "reward.batch_allocated", bus.topics[0])
	assert.Equal(t, "reward.batch_allocated", bus.published[0].EventType)

	// Second pass has nothing left to publish.
	published, err = relay.RelayPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestRelayKeepsMessagePendingOnPublishFailure(t *testing.T) {
	module := rewardledger.NewInMemoryModule(relayOwner, nil)
	allocateOne(t, module)

	bus := &captureBus{failNext: 1}
	relay := NewRelay(RelayDependencies{
		Repository: module.Store,
		Bus:        bus,
		Clock:      module.Store,
	})

	published, err := relay.RelayPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)

	published, err = relay.RelayPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	require.Len(t, bus.published, 1)
}
