package evmadapter

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/ports"
)

// Campaign escrow contract surface used by the settler. Reward categories are
// the contract's enum order; weeks and amounts are plain integers because the
// escrow holds a stable token with whole-unit amounts.
const escrowABI = `[
  {"type":"function","name":"allocateRewards","stateMutability":"nonpayable","inputs":[
    {"name":"recipients","type":"address[]"},
    {"name":"amounts","type":"uint256[]"},
    {"name":"categories","type":"uint8[]"},
    {"name":"weekNumbers","type":"uint8[]"},
    {"name":"submissionProofs","type":"bytes32[]"}],"outputs":[]},
  {"type":"function","name":"payoutReward","stateMutability":"nonpayable","inputs":[
    {"name":"recipient","type":"address"},
    {"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"fundCampaign","stateMutability":"nonpayable","inputs":[
    {"name":"amount","type":"uint256"}],"outputs":[]}
]`

var categoryCodes = map[rewardports.RewardCategory]uint8{
	rewardports.CategoryTopQuality:     0,
	rewardports.CategoryTopEngagement:  1,
	rewardports.CategoryFastCompletion: 2,
}

// Client submits settlement transactions to the campaign escrow contract and
// waits for them to mine before confirming back to the ledger.
type Client struct {
	eth      *ethclient.Client
	contract *bind.BoundContract
	key      *ecdsa.PrivateKey
	chainID  *big.Int
	logger   *slog.Logger
}

func Dial(ctx context.Context, rpcURL string, contractAddr string, privateKeyHex string, logger *slog.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial escrow rpc: %w", err)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("resolve chain id: %w", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("parse settlement key: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(escrowABI))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("parse escrow abi: %w", err)
	}
	if !common.IsHexAddress(contractAddr) {
		eth.Close()
		return nil, fmt.Errorf("bad escrow contract address %q", contractAddr)
	}
	contract := bind.NewBoundContract(common.HexToAddress(contractAddr), parsed, eth, eth, eth)
	return &Client{
		eth:      eth,
		contract: contract,
		key:      key,
		chainID:  chainID,
		logger:   logger,
	}, nil
}

func (c *Client) SubmitAllocation(ctx context.Context, batch ports.AllocationBatch) (string, error) {
	recipients := make([]common.Address, 0, len(batch.Grants))
	amounts := make([]*big.Int, 0, len(batch.Grants))
	categories := make([]uint8, 0, len(batch.Grants))
	weeks := make([]uint8, 0, len(batch.Grants))
	proofs := make([][32]byte, 0, len(batch.Grants))
	for _, grant := range batch.Grants {
		code, ok := categoryCodes[grant.Category]
		if !ok {
			return "", fmt.Errorf("grant %s: no contract code for category %q", grant.GrantID, grant.Category)
		}
		recipients = append(recipients, common.HexToAddress(grant.Recipient))
		amounts = append(amounts, big.NewInt(grant.Amount))
		categories = append(categories, code)
		weeks = append(weeks, uint8(grant.Week))
		proofs = append(proofs, proofWord(grant.Proof))
	}
	return c.transact(ctx, "allocateRewards", recipients, amounts, categories, weeks, proofs)
}

func (c *Client) SubmitPayout(ctx context.Context, recipient string, amount int64) (string, error) {
	if !common.IsHexAddress(recipient) {
		return "", fmt.Errorf("bad payout recipient %q", recipient)
	}
	return c.transact(ctx, "payoutReward", common.HexToAddress(recipient), big.NewInt(amount))
}

func (c *Client) FundEscrow(ctx context.Context, amount int64) (string, error) {
	return c.transact(ctx, "fundCampaign", big.NewInt(amount))
}

func (c *Client) transact(ctx context.Context, method string, args ...any) (string, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return "", fmt.Errorf("build transactor: %w", err)
	}
	opts.Context = ctx

	tx, err := c.contract.Transact(opts, method, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domainerrors.ErrEscrowUnavailable, method, err)
	}
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return "", fmt.Errorf("%w: waiting for %s: %v", domainerrors.ErrEscrowUnavailable, method, err)
	}
	if receipt.Status == 0 {
		return "", fmt.Errorf("escrow %s reverted in tx %s", method, tx.Hash().Hex())
	}
	if c.logger != nil {
		c.logger.Info("escrow transaction mined",
			"event", "escrow_tx_mined",
			"module", "reward-core/settlement-service",
			"layer", "adapters/evm",
			"method", method,
			"tx_hash", tx.Hash().Hex(),
			"block", receipt.BlockNumber.Uint64(),
		)
	}
	return tx.Hash().Hex(), nil
}

func (c *Client) Close() {
	c.eth.Close()
}

// proofWord maps a proof token to the contract's bytes32 slot: already-hashed
// proofs pass through, anything else is keccak-hashed on the way out.
func proofWord(proof string) [32]byte {
	trimmed := strings.TrimSpace(proof)
	if len(trimmed) == 2+2*common.HashLength && strings.HasPrefix(trimmed, "0x") {
		return common.HexToHash(trimmed)
	}
	return crypto.Keccak256Hash([]byte(trimmed))
}
