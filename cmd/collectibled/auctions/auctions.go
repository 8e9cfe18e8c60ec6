package auctions

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/textileio/collectibles/cmd/collectibled/inflight"
	"github.com/textileio/collectibles/cmd/collectibled/watch"
	"github.com/textileio/collectibles/collectible"
	logging "github.com/textileio/go-log/v2"
)

var log = logging.Logger("auctions")

const (
	// QueryAuction is the live query of the auction selected by token id.
	QueryAuction = "auction"
	// QueryActiveAuctions is the live query of the active auctions list.
	QueryActiveAuctions = "active-auctions"

	actionCreate = "create-auction"
	actionBid    = "place-bid"
	actionEnd    = "end-auction"
)

// Watcher runs live queries.
type Watcher interface {
	Watch(name string, fetch watch.FetchFunc) *watch.Query
	Unwatch(name string)
	Get(name string) (*watch.Query, bool)
	Refresh(ctx context.Context)
}

// CreateForm holds the create auction inputs as typed by the user.
type CreateForm struct {
	TokenID       string `json:"token_id"`
	Duration      string `json:"duration"`
	StartingPrice string `json:"starting_price"`
}

// Config holds the configuration for creating a new Controller.
type Config struct {
	Contract collectible.Contract
	Notifier collectible.Notifier
	Watcher  Watcher
	Account  collectible.Account
	// Now defaults to time.Now.
	Now func() time.Time
}

// Controller drives the auction workflow against the contract.
type Controller struct {
	contract collectible.Contract
	notifier collectible.Notifier
	watcher  Watcher
	account  collectible.Account
	now      func() time.Time
	guard    *inflight.Guard

	// queryLock serializes changes to the queried token id with their live query.
	queryLock sync.Mutex

	lock         sync.Mutex
	form         CreateForm
	queryTokenID string
	bidAmount    string
}

type queriedAuction struct {
	tokenID *big.Int
	auction collectible.Auction
}

// New returns a new Controller and starts watching the active auctions.
func New(conf Config) (*Controller, error) {
	if conf.Contract == nil || conf.Notifier == nil || conf.Watcher == nil {
		return nil, fmt.Errorf("contract, notifier and watcher are required")
	}
	if conf.Now == nil {
		conf.Now = time.Now
	}
	c := &Controller{
		contract: conf.Contract,
		notifier: conf.Notifier,
		watcher:  conf.Watcher,
		account:  conf.Account,
		now:      conf.Now,
		guard:    inflight.New(),
	}
	c.watcher.Watch(QueryActiveAuctions, func(ctx context.Context) (interface{}, error) {
		return ListActive(ctx, c.contract)
	})
	return c, nil
}

// Form returns the create auction form.
func (c *Controller) Form() CreateForm {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.form
}

// SetForm replaces the create auction form.
func (c *Controller) SetForm(f CreateForm) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.form = f
}

// BidAmount returns the bid amount field.
func (c *Controller) BidAmount() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.bidAmount
}

// SetBidAmount sets the bid amount field, in wei.
func (c *Controller) SetBidAmount(amount string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.bidAmount = amount
}

// QueryTokenID returns the token id of the queried auction.
func (c *Controller) QueryTokenID() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.queryTokenID
}

// SetQueryTokenID selects the auction to watch. An empty or malformed id stops
// watching.
func (c *Controller) SetQueryTokenID(id string) {
	c.queryLock.Lock()
	defer c.queryLock.Unlock()

	c.lock.Lock()
	c.queryTokenID = id
	c.lock.Unlock()

	if strings.TrimSpace(id) == "" {
		c.watcher.Unwatch(QueryAuction)
		return
	}
	tokenID, err := collectible.ParseUint(id)
	if err != nil {
		log.Debugf("not watching auction: %s", err)
		c.watcher.Unwatch(QueryAuction)
		return
	}
	c.watcher.Watch(QueryAuction, func(ctx context.Context) (interface{}, error) {
		a, err := c.contract.Auction(ctx, tokenID)
		if err != nil {
			return nil, err
		}
		return queriedAuction{tokenID: tokenID, auction: a}, nil
	})
}

// QueriedAuction returns the view of the queried auction, or nil while the
// snapshot is unresolved or the token has no auction.
func (c *Controller) QueriedAuction() *AuctionView {
	q, ok := c.watcher.Get(QueryAuction)
	if !ok {
		return nil
	}
	v, ok := q.Value()
	if !ok {
		return nil
	}
	qa, ok := v.(queriedAuction)
	if !ok || qa.auction.Seller == collectible.ZeroAddress {
		return nil
	}
	view := Render(qa.tokenID, qa.auction, c.account.Address, c.now())
	return &view
}

// ActiveAuctions returns the views of the active auctions, and false while the
// list is unresolved.
func (c *Controller) ActiveAuctions() ([]AuctionView, bool) {
	q, ok := c.watcher.Get(QueryActiveAuctions)
	if !ok {
		return nil, false
	}
	v, ok := q.Value()
	if !ok {
		return nil, false
	}
	ls, _ := v.([]collectible.Listing)
	return RenderListings(ls, c.account.Address, c.now()), true
}

// ListActive reads the active token ids and then, only if there are any, their
// details. The result has exactly the ids of the first read, in the same order.
func ListActive(ctx context.Context, r collectible.ContractReader) ([]collectible.Listing, error) {
	ids, err := r.ActiveAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting active auctions: %w", err)
	}
	if len(ids) == 0 {
		return []collectible.Listing{}, nil
	}

	details, err := r.AuctionsDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("getting auctions details: %w", err)
	}
	if len(details) != len(ids) {
		return nil, fmt.Errorf("got %d auction details for %d active auctions", len(details), len(ids))
	}
	res := make([]collectible.Listing, len(ids))
	for i := range ids {
		res[i] = collectible.Listing{TokenID: ids[i], Auction: details[i]}
	}
	return res, nil
}

// CreateAuction submits the create auction form. The form is cleared on success
// and kept otherwise.
func (c *Controller) CreateAuction(ctx context.Context) error {
	if err := c.acquire(actionCreate); err != nil {
		return err
	}
	defer c.guard.Release(actionCreate)

	f := c.Form()
	if f.TokenID == "" || f.Duration == "" || f.StartingPrice == "" {
		c.notifier.Error("Please fill all fields")
		return collectible.ErrMissingFields
	}

	tokenID, seconds, price, err := parseCreateForm(f)
	if err == nil {
		err = c.write(ctx, "Creating auction...", func(ctx context.Context) error {
			_, err := c.contract.CreateAuction(ctx, tokenID, seconds, price)
			return err
		})
	}
	if err != nil {
		log.Errorf("creating auction: %s", err)
		c.notifier.Error("Failed to create auction")
		return err
	}

	c.SetForm(CreateForm{})
	c.notifier.Success("Auction created successfully!")
	c.refresh()
	return nil
}

// PlaceBid bids the bid amount field on the auction of tokenID. The field is
// cleared on success and kept otherwise.
func (c *Controller) PlaceBid(ctx context.Context, tokenID string) error {
	if err := c.acquire(actionBid); err != nil {
		return err
	}
	defer c.guard.Release(actionBid)

	amount := c.BidAmount()
	if tokenID == "" || amount == "" {
		c.notifier.Error("Please enter token ID and bid amount")
		return collectible.ErrMissingFields
	}

	id, value, err := parseBid(tokenID, amount)
	if err == nil {
		err = c.write(ctx, "Placing bid...", func(ctx context.Context) error {
			_, err := c.contract.PlaceBid(ctx, id, value)
			return err
		})
	}
	if err != nil {
		log.Errorf("placing bid on %s: %s", tokenID, err)
		c.notifier.Error("Failed to place bid")
		return err
	}

	c.SetBidAmount("")
	c.notifier.Success("Bid placed successfully!")
	c.refresh()
	return nil
}

// EndAuction ends the auction of tokenID.
func (c *Controller) EndAuction(ctx context.Context, tokenID string) error {
	if err := c.acquire(actionEnd); err != nil {
		return err
	}
	defer c.guard.Release(actionEnd)

	if tokenID == "" {
		c.notifier.Error("Please enter token ID")
		return collectible.ErrMissingFields
	}

	id, err := collectible.ParseUint(tokenID)
	if err == nil {
		err = c.write(ctx, "Ending auction...", func(ctx context.Context) error {
			_, err := c.contract.EndAuction(ctx, id)
			return err
		})
	}
	if err != nil {
		log.Errorf("ending auction %s: %s", tokenID, err)
		c.notifier.Error("Failed to end auction")
		return err
	}

	c.notifier.Success("Auction ended successfully!")
	c.refresh()
	return nil
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

// write runs a contract write behind a loading notification that is removed on
// every return path.
func (c *Controller) write(ctx context.Context, loading string, f func(context.Context) error) error {
	id := c.notifier.Loading(loading)
	defer c.notifier.Remove(id)
	return f(ctx)
}

func parseCreateForm(f CreateForm) (tokenID, seconds, price *big.Int, err error) {
	if tokenID, err = collectible.ParseUint(f.TokenID); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing token id: %w", err)
	}
	if seconds, err = collectible.HoursToSeconds(f.Duration); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing duration: %w", err)
	}
	if price, err = collectible.ParseUint(f.StartingPrice); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing starting price: %w", err)
	}
	return tokenID, seconds, price, nil
}

func parseBid(tokenID, amount string) (id, value *big.Int, err error) {
	if id, err = collectible.ParseUint(tokenID); err != nil {
		return nil, nil, fmt.Errorf("parsing token id: %w", err)
	}
	if value, err = collectible.ParseUint(amount); err != nil {
		return nil, nil, fmt.Errorf("parsing bid amount: %w", err)
	}
	return id, value, nil
}

func (c *Controller) refresh() {
	go c.watcher.Refresh(context.Background())
}

// IsValidationError returns true if err was caused by user input rather than a
// remote failure.
func IsValidationError(err error) bool {
	return errors.Is(err, collectible.ErrMissingFields) || errors.Is(err, collectible.ErrInvalidInput)
}
