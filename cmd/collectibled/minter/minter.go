package minter

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
	"github.com/textileio/collectibles/cmd/collectibled/inflight"
	"github.com/textileio/collectibles/cmd/collectibled/pinner"
	"github.com/textileio/collectibles/cmd/collectibled/watch"
	"github.com/textileio/collectibles/collectible"
	logging "github.com/textileio/go-log/v2"
)

var log = logging.Logger("minter")

// QueryTokenIDCounter is the live query of the next token id.
const QueryTokenIDCounter = "token-id-counter"

const (
	actionMint        = "mint"
	actionIndependent = "create-independent"
	actionTransfer    = "transfer"
)

// ErrCounterUnresolved is returned when minting before the token counter was read.
var ErrCounterUnresolved = errors.New("token id counter not resolved yet")

// Watcher runs live queries.
type Watcher interface {
	Watch(name string, fetch watch.FetchFunc) *watch.Query
	Get(name string) (*watch.Query, bool)
	Refresh(ctx context.Context)
}

// Config holds the configuration for creating a new Controller.
type Config struct {
	Contract collectible.Contract
	Pinner   collectible.Pinner
	Notifier collectible.Notifier
	Watcher  Watcher
	Account  collectible.Account
	// Catalog defaults to DefaultCatalog.
	Catalog []collectible.Metadata
	// ReportFailures shows an error notification when minting fails. Failures are
	// only logged otherwise.
	ReportFailures bool
}

// MintResult describes a minted catalog item.
type MintResult struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Path  string `json:"path"`
}

// Holding is a token owned by the connected account.
type Holding struct {
	TokenID string `json:"token_id"`
	URI     string `json:"uri"`
	Owner   string `json:"owner"`
	// Metadata is nil if the document couldn't be fetched.
	Metadata *collectible.Metadata `json:"metadata,omitempty"`
}

// Controller drives minting and holdings of the connected account.
type Controller struct {
	contract       collectible.Contract
	pinner         collectible.Pinner
	notifier       collectible.Notifier
	watcher        Watcher
	account        collectible.Account
	catalog        []collectible.Metadata
	reportFailures bool
	guard          *inflight.Guard

	lock    sync.Mutex
	ipfsURL string
}

// New returns a new Controller and starts watching the token counter.
func New(conf Config) (*Controller, error) {
	if conf.Contract == nil || conf.Pinner == nil || conf.Notifier == nil || conf.Watcher == nil {
		return nil, fmt.Errorf("contract, pinner, notifier and watcher are required")
	}
	if conf.Catalog == nil {
		conf.Catalog = DefaultCatalog()
	}
	if len(conf.Catalog) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	c := &Controller{
		contract:       conf.Contract,
		pinner:         conf.Pinner,
		notifier:       conf.Notifier,
		watcher:        conf.Watcher,
		account:        conf.Account,
		catalog:        conf.Catalog,
		reportFailures: conf.ReportFailures,
		guard:          inflight.New(),
	}
	c.watcher.Watch(QueryTokenIDCounter, func(ctx context.Context) (interface{}, error) {
		return c.contract.TokenIDCounter(ctx)
	})
	return c, nil
}

// Catalog returns the mintable items in mint order.
func (c *Controller) Catalog() []collectible.Metadata {
	return c.catalog
}

// TokenIDCounter returns the latest token counter, and false while unresolved.
func (c *Controller) TokenIDCounter() (*big.Int, bool) {
	q, ok := c.watcher.Get(QueryTokenIDCounter)
	if !ok {
		return nil, false
	}
	v, ok := q.Value()
	if !ok {
		return nil, false
	}
	n, ok := v.(*big.Int)
	return n, ok && n != nil
}

// IPFSURL returns the IPFS URL field.
func (c *Controller) IPFSURL() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.ipfsURL
}

// SetIPFSURL sets the IPFS URL field.
func (c *Controller) SetIPFSURL(url string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ipfsURL = url
}

// MintItem pins the catalog entry selected by the token counter and mints it to
// the connected account.
func (c *Controller) MintItem(ctx context.Context) (MintResult, error) {
	if err := c.acquire(actionMint); err != nil {
		return MintResult{}, err
	}
	defer c.guard.Release(actionMint)

	counter, ok := c.TokenIDCounter()
	if !ok {
		return MintResult{}, ErrCounterUnresolved
	}
	i, md, err := Select(c.catalog, counter)
	if err != nil {
		return MintResult{}, err
	}

	id := c.notifier.Loading("Uploading to IPFS")
	res, err := c.pinner.Pin(ctx, md)
	c.notifier.Remove(id)
	if err != nil {
		log.Errorf("pinning %s metadata: %s", md.Name, err)
		c.mintFailed()
		return MintResult{}, err
	}
	c.notifier.Success("Metadata uploaded to IPFS")

	if _, err := c.contract.MintItem(ctx, c.account.Address, res.Path); err != nil {
		log.Errorf("minting %s at %s: %s", md.Name, res.Path, err)
		c.mintFailed()
		return MintResult{}, err
	}
	log.Infof("minted %s (catalog index %d) at %s", md.Name, i, res.Path)
	c.refresh()

	return MintResult{Index: i, Name: md.Name, Path: res.Path}, nil
}

// CreateIndependentNFT mints a token for the content referenced by the IPFS URL
// field. The field is cleared on success.
func (c *Controller) CreateIndependentNFT(ctx context.Context) error {
	if err := c.acquire(actionIndependent); err != nil {
		return err
	}
	defer c.guard.Release(actionIndependent)

	url := c.IPFSURL()
	if url == "" {
		c.notifier.Error("Please enter IPFS URL")
		return collectible.ErrMissingFields
	}
	hash := pinner.StripGatewayPrefix(url)
	if _, err := cid.Decode(hash); err != nil {
		log.Warnf("%q doesn't look like a cid: %s", hash, err)
	}

	id := c.notifier.Loading("Creating your NFT...")
	_, err := c.contract.CreateIndependentNFT(ctx, hash)
	c.notifier.Remove(id)
	if err != nil {
		log.Errorf("creating independent nft %s: %s", hash, err)
		c.notifier.Error("Failed to create NFT")
		return err
	}

	c.SetIPFSURL("")
	c.notifier.Success("NFT created successfully!")
	c.refresh()
	return nil
}

// Holdings lists the tokens of the connected account with their metadata.
func (c *Controller) Holdings(ctx context.Context) ([]Holding, error) {
	if !c.account.Connected {
		return nil, collectible.ErrNotConnected
	}
	owner := c.account.Address
	balance, err := c.contract.BalanceOf(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("getting balance: %s", err)
	}
	if !balance.IsInt64() {
		return nil, fmt.Errorf("balance %s out of range", balance)
	}

	res := []Holding{}
	for i := int64(0); i < balance.Int64(); i++ {
		tokenID, err := c.contract.TokenOfOwnerByIndex(ctx, owner, big.NewInt(i))
		if err != nil {
			return nil, fmt.Errorf("getting token at index %d: %s", i, err)
		}
		uri, err := c.contract.TokenURI(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("getting uri of token %s: %s", tokenID, err)
		}
		h := Holding{TokenID: tokenID.String(), URI: uri, Owner: owner.Hex()}
		md, err := c.pinner.Fetch(ctx, pinner.StripGatewayPrefix(uri))
		if err != nil {
			log.Warnf("fetching metadata of token %s: %s", tokenID, err)
		} else {
			h.Metadata = &md
		}
		res = append(res, h)
	}
	return res, nil
}

// Transfer sends tokenID from the connected account to the to address.
func (c *Controller) Transfer(ctx context.Context, tokenID, to string) error {
	if err := c.acquire(actionTransfer); err != nil {
		return err
	}
	defer c.guard.Release(actionTransfer)

	to = strings.TrimSpace(to)
	if tokenID == "" || to == "" {
		c.notifier.Error("Please enter token ID and recipient address")
		return collectible.ErrMissingFields
	}
	id, err := collectible.ParseUint(tokenID)
	if err == nil && !common.IsHexAddress(to) {
		err = fmt.Errorf("%q is not an address: %w", to, collectible.ErrInvalidInput)
	}
	if err == nil {
		nid := c.notifier.Loading("Transferring NFT...")
		_, err = c.contract.TransferFrom(ctx, c.account.Address, common.HexToAddress(to), id)
		c.notifier.Remove(nid)
	}
	if err != nil {
		log.Errorf("transferring token %s to %s: %s", tokenID, to, err)
		c.notifier.Error("Failed to transfer NFT")
		return err
	}

	c.notifier.Success("NFT transferred!")
	c.refresh()
	return nil
}

func (c *Controller) mintFailed() {
	if c.reportFailures {
		c.notifier.Error("Failed to mint NFT")
	}
}

func (c *Controller) acquire(action string) error {
	if !c.account.Connected {
		return collectible.ErrNotConnected
	}
	if !c.guard.Acquire(action) {
		c.notifier.Error("Please wait for the pending transaction")
		return fmt.Errorf("%s: %w", action, collectible.ErrActionInFlight)
	}
	return nil
}

func (c *Controller) refresh() {
	go c.watcher.Refresh(context.Background())
}
