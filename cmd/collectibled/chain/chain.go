package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/textileio/collectibles/cmd/collectibled/contractclient"
	"github.com/textileio/collectibles/collectible"
	"github.com/textileio/collectibles/metrics"
	logging "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var log = logging.Logger("chain")

// Backend is what the client needs from an RPC connection.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// Config holds the configuration for creating a new Client.
type Config struct {
	ContractAddr common.Address
	ChainID      *big.Int
	PrivateKey   *ecdsa.PrivateKey
	Timeout      time.Duration
}

// Client is the typed access layer to the YourCollectible contract.
type Client struct {
	backend  Backend
	contract *contractclient.YourCollectible
	from     common.Address
	signer   bind.SignerFn
	timeout  time.Duration

	metricReads            metric.Int64Counter
	metricWrites           metric.Int64Counter
	metricWriteDurationMil metric.Int64Histogram
}

var _ collectible.Contract = (*Client)(nil)

// New returns a new Client.
func New(backend Backend, conf Config) (*Client, error) {
	if conf.PrivateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}
	if conf.ChainID == nil {
		return nil, fmt.Errorf("chain id is required")
	}
	contract, err := contractclient.NewYourCollectible(conf.ContractAddr, backend)
	if err != nil {
		return nil, fmt.Errorf("binding contract: %s", err)
	}

	from := crypto.PubkeyToAddress(conf.PrivateKey.PublicKey)
	s := types.LatestSignerForChainID(conf.ChainID)
	signer := func(a common.Address, t *types.Transaction) (*types.Transaction, error) {
		if a != from {
			return nil, bind.ErrNotAuthorized
		}
		return types.SignTx(t, s, conf.PrivateKey)
	}

	c := &Client{
		backend:  backend,
		contract: contract,
		from:     from,
		signer:   signer,
		timeout:  conf.Timeout,
	}
	c.initMetrics()
	return c, nil
}

// Account returns the wallet connection context of the signing key.
func (c *Client) Account() collectible.Account {
	return collectible.Account{Address: c.from, Connected: true}
}

// BlockNumber returns the latest block height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.backend.BlockNumber(ctx)
}

// TokenIDCounter returns the id the next minted token will get.
func (c *Client) TokenIDCounter(ctx context.Context) (res *big.Int, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.countRead(ctx, "tokenIdCounter", &err)

	res, err = c.contract.TokenIdCounter(c.callOpts(ctx))
	if err != nil {
		return nil, fmt.Errorf("calling tokenIdCounter: %s", err)
	}
	return res, nil
}

// Auction returns the auction state of a token.
func (c *Client) Auction(ctx context.Context, tokenID *big.Int) (res collectible.Auction, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.countRead(ctx, "auctions", &err)

	a, err := c.contract.Auctions(c.callOpts(ctx), tokenID)
	if err != nil {
		return collectible.Auction{}, fmt.Errorf("calling auctions: %s", err)
	}
	return collectible.Auction{
		Seller:        a.Seller,
		HighestBidder: a.HighestBidder,
		HighestBid:    a.HighestBid,
		StartingPrice: a.StartingPrice,
		EndTime:       a.EndTime,
		Active:        a.Active,
	}, nil
}

// ActiveAuctions returns the token ids with an active auction.
func (c *Client) ActiveAuctions(ctx context.Context) (res []*big.Int, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.countRead(ctx, "getActiveAuctions", &err)

	res, err = c.contract.GetActiveAuctions(c.callOpts(ctx))
	if err != nil {
		return nil, fmt.Errorf("calling getActiveAuctions: %s", err)
	}
	return res, nil
}

// AuctionsDetails returns the auction state of each token id, in the same order.
func (c *Client) AuctionsDetails(ctx context.Context, tokenIDs []*big.Int) (res []collectible.Auction, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.countRead(ctx, "getAuctionsDetails", &err)

	details, err := c.contract.GetAuctionsDetails(c.callOpts(ctx), tokenIDs)
	if err != nil {
		return nil, fmt.Errorf("calling getAuctionsDetails: %s", err)
	}
	res = make([]collectible.Auction, len(details))
	for i, d := range details {
		res[i] = collectible.Auction{
			Seller:        d.Seller,
			HighestBidder: d.HighestBidder,
			HighestBid:    d.HighestBid,
			StartingPrice: d.StartingPrice,
			EndTime:       d.EndTime,
			Active:        d.Active,
		}
	}
	return res, nil
}

// BalanceOf returns how many tokens owner holds.
func (c *Client) BalanceOf(ctx context.Context, owner common.Address) (res *big.Int, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.countRead(ctx, "balanceOf", &err)

	res, err = c.contract.BalanceOf(c.callOpts(ctx), owner)
	if err != nil {
		return nil, fmt.Errorf("calling balanceOf: %s", err)
	}
	return res, nil
}

// TokenOfOwnerByIndex returns the index-th token held by owner.
func (c *Client) TokenOfOwnerByIndex(
	ctx context.Context,
	owner common.Address,
	index *big.Int,
) (res *big.Int, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.countRead(ctx, "tokenOfOwnerByIndex", &err)

	res, err = c.contract.TokenOfOwnerByIndex(c.callOpts(ctx), owner, index)
	if err != nil {
		return nil, fmt.Errorf("calling tokenOfOwnerByIndex: %s", err)
	}
	return res, nil
}

// TokenURI returns the metadata URI of a token.
func (c *Client) TokenURI(ctx context.Context, tokenID *big.Int) (res string, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.countRead(ctx, "tokenURI", &err)

	res, err = c.contract.TokenURI(c.callOpts(ctx), tokenID)
	if err != nil {
		return "", fmt.Errorf("calling tokenURI: %s", err)
	}
	return res, nil
}

// CreateAuction puts tokenID up for auction for durationSeconds.
func (c *Client) CreateAuction(
	ctx context.Context,
	tokenID, durationSeconds, startingPrice *big.Int,
) (*types.Receipt, error) {
	return c.transact(ctx, "createAuction", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.CreateAuction(opts, tokenID, durationSeconds, startingPrice)
	})
}

// PlaceBid bids value wei on the auction of tokenID.
func (c *Client) PlaceBid(ctx context.Context, tokenID, value *big.Int) (*types.Receipt, error) {
	return c.transact(ctx, "placeBid", value, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.PlaceBid(opts, tokenID)
	})
}

// EndAuction closes the auction of tokenID.
func (c *Client) EndAuction(ctx context.Context, tokenID *big.Int) (*types.Receipt, error) {
	return c.transact(ctx, "endAuction", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.EndAuction(opts, tokenID)
	})
}

// MintItem mints a new token for to referencing uri.
func (c *Client) MintItem(ctx context.Context, to common.Address, uri string) (*types.Receipt, error) {
	return c.transact(ctx, "mintItem", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.MintItem(opts, to, uri)
	})
}

// CreateIndependentNFT mints a new token referencing an already pinned hash.
func (c *Client) CreateIndependentNFT(ctx context.Context, hash string) (*types.Receipt, error) {
	return c.transact(ctx, "createIndependentNFT", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.CreateIndependentNFT(opts, hash)
	})
}

// TransferFrom moves tokenID from one account to another.
func (c *Client) TransferFrom(
	ctx context.Context,
	from, to common.Address,
	tokenID *big.Int,
) (*types.Receipt, error) {
	return c.transact(ctx, "transferFrom", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.TransferFrom(opts, from, to, tokenID)
	})
}

func (c *Client) transact(
	ctx context.Context,
	method string,
	value *big.Int,
	send func(*bind.TransactOpts) (*types.Transaction, error),
) (receipt *types.Receipt, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	opID := uuid.New().String()
	start := time.Now()
	label := attribute.String("method", method)
	defer func() {
		metrics.MetricRecordSince(ctx, err, start, c.metricWriteDurationMil, label)
		metrics.MetricIncrCounter(ctx, err, c.metricWrites, label)
	}()

	opts := &bind.TransactOpts{
		Context: ctx,
		From:    c.from,
		Signer:  c.signer,
		Value:   value,
	}
	log.Debugf("%s: sending %s (value %s)", opID, method, value)
	tx, err := send(opts)
	if err != nil {
		return nil, fmt.Errorf("sending %s: %s", method, err)
	}
	log.Infof("%s: sent %s in tx %s", opID, method, tx.Hash())

	receipt, err = bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting %s tx %s to be mined: %s", method, tx.Hash(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%s tx %s: %w", method, tx.Hash(), collectible.ErrTxReverted)
	}
	log.Infof("%s: %s mined in block %s", opID, method, receipt.BlockNumber)
	return receipt, nil
}

func (c *Client) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: c.from}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) countRead(ctx context.Context, method string, err *error) {
	metrics.MetricIncrCounter(ctx, *err, c.metricReads, attribute.String("method", method))
}
