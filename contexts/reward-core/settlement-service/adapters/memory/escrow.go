package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/ports"
)

// Escrow is the in-process stand-in for the escrow contract: deterministic
// transaction hashes, recorded submissions and injectable failures for
// exercising the settler's retry path.
type Escrow struct {
	mu           sync.Mutex
	nonce        uint64
	failuresLeft int

	allocations []ports.AllocationBatch
	payouts     []Payout
	funded      int64
}

type Payout struct {
	Recipient string
	Amount    int64
}

func NewEscrow() *Escrow {
	return &Escrow{}
}

// FailNext makes the next n submissions fail with ErrEscrowUnavailable.
func (e *Escrow) FailNext(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failuresLeft = n
}

func (e *Escrow) SubmitAllocation(_ context.Context, batch ports.AllocationBatch) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failuresLeft > 0 {
		e.failuresLeft--
		return "", domainerrors.ErrEscrowUnavailable
	}
	e.allocations = append(e.allocations, batch)
	return e.txHash("allocate", batch.BatchRef), nil
}

func (e *Escrow) SubmitPayout(_ context.Context, recipient string, amount int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failuresLeft > 0 {
		e.failuresLeft--
		return "", domainerrors.ErrEscrowUnavailable
	}
	e.payouts = append(e.payouts, Payout{Recipient: recipient, Amount: amount})
	return e.txHash("payout", recipient), nil
}

func (e *Escrow) FundEscrow(_ context.Context, amount int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failuresLeft > 0 {
		e.failuresLeft--
		return "", domainerrors.ErrEscrowUnavailable
	}
	e.funded += amount
	return e.txHash("fund", fmt.Sprintf("%d", e.funded)), nil
}

func (e *Escrow) Allocations() []ports.AllocationBatch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ports.AllocationBatch(nil), e.allocations...)
}

func (e *Escrow) Payouts() []Payout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Payout(nil), e.payouts...)
}

func (e *Escrow) Funded() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.funded
}

func (e *Escrow) txHash(kind string, ref string) string {
	e.nonce++
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("%s:%s:%d", kind, ref, e.nonce))).Hex()
}
