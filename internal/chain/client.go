package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// receiptPollInterval paces the wait for a mined transaction.
const receiptPollInterval = 4 * time.Second

// Client wraps the node RPC endpoints the miner needs: nonce lookup, raw
// transaction submission, receipt polling and fee reporting. Everything in
// here is an external collaborator of the search core.
type Client struct {
	eth *ethclient.Client
	rpc *rpc.Client
}

// Dial connects to the node at rpcURL.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return &Client{
		eth: ethclient.NewClient(rpcClient),
		rpc: rpcClient,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// ChainID returns the chain id the node reports, for cross-checking against
// the configured one before signing anything.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.eth.ChainID(ctx)
}

// Nonce returns the sender's transaction count at the latest block.
func (c *Client) Nonce(ctx context.Context, sender common.Address) (uint64, error) {
	nonce, err := c.eth.NonceAt(ctx, sender, nil)
	if err != nil {
		return 0, fmt.Errorf("fetch nonce for %s: %w", sender.Hex(), err)
	}
	return nonce, nil
}

// SendRawTransaction submits wire-encoded signed bytes and returns the
// transaction hash the node acknowledges.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return common.Hash{}, fmt.Errorf("send raw transaction: %w", err)
	}
	return hash, nil
}

// WaitMined polls until the transaction has a receipt or the context ends.
func (c *Client) WaitMined(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("fetch receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// FeeReport is a snapshot of current network gas prices in wei.
type FeeReport struct {
	BaseFee        *big.Int
	AvgPriorityFee *big.Int
}

// SuggestFees reads the latest base fee and averages the 10th-percentile
// priority fee over the last 10 blocks.
func (c *Client) SuggestFees(ctx context.Context) (*FeeReport, error) {
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch latest header: %w", err)
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = new(big.Int)
	}

	history, err := c.eth.FeeHistory(ctx, 10, nil, []float64{10})
	if err != nil {
		return nil, fmt.Errorf("fetch fee history: %w", err)
	}

	sum := new(big.Int)
	count := 0
	for _, rewards := range history.Reward {
		if len(rewards) > 0 && rewards[0] != nil {
			sum.Add(sum, rewards[0])
			count++
		}
	}
	avg := new(big.Int)
	if count > 0 {
		avg.Div(sum, big.NewInt(int64(count)))
	}

	return &FeeReport{
		BaseFee:        baseFee,
		AvgPriorityFee: avg,
	}, nil
}
