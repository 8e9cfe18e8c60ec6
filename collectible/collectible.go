package collectible

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ContractName is the name of the deployed contract the daemon drives.
const ContractName = "YourCollectible"

// ZeroAddress is the sentinel used by the contract for "no bidder yet".
var ZeroAddress = common.Address{}

var (
	// ErrNotConnected is returned when an action needs a connected wallet.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrMissingFields is returned when a required input is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidInput is returned when an input can't be converted to a call argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrActionInFlight is returned when the same action is already outstanding.
	ErrActionInFlight = errors.New("action already in flight")
	// ErrTxReverted is returned when a mined transaction has a failed status.
	ErrTxReverted = errors.New("transaction reverted")
)

// Auction is the latest fetched projection of an auction held by the contract.
type Auction struct {
	Seller        common.Address
	HighestBidder common.Address
	HighestBid    *big.Int
	StartingPrice *big.Int
	EndTime       *big.Int
	Active        bool
}

// HasBids returns true if somebody has bid on the auction.
func (a Auction) HasBids() bool {
	return a.HighestBidder != ZeroAddress
}

// Listing is an active auction paired with its token id.
type Listing struct {
	TokenID *big.Int
	Auction Auction
}

// Attribute is an ERC-721 metadata trait.
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// Metadata is the ERC-721 metadata document pinned before minting.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ExternalURL string      `json:"external_url,omitempty"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Account is the wallet connection context injected into controllers.
type Account struct {
	Address   common.Address
	Connected bool
}

// PinResult is the outcome of pinning a document.
type PinResult struct {
	// Path is the content address of the pinned document.
	Path string
}

// ContractReader performs view calls against the contract.
type ContractReader interface {
	TokenIDCounter(ctx context.Context) (*big.Int, error)
	Auction(ctx context.Context, tokenID *big.Int) (Auction, error)
	ActiveAuctions(ctx context.Context) ([]*big.Int, error)
	AuctionsDetails(ctx context.Context, tokenIDs []*big.Int) ([]Auction, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
}

// ContractWriter submits transactions to the contract and waits for them to be mined.
type ContractWriter interface {
	CreateAuction(ctx context.Context, tokenID, durationSeconds, startingPrice *big.Int) (*types.Receipt, error)
	PlaceBid(ctx context.Context, tokenID, value *big.Int) (*types.Receipt, error)
	EndAuction(ctx context.Context, tokenID *big.Int) (*types.Receipt, error)
	MintItem(ctx context.Context, to common.Address, uri string) (*types.Receipt, error)
	CreateIndependentNFT(ctx context.Context, hash string) (*types.Receipt, error)
	TransferFrom(ctx context.Context, from, to common.Address, tokenID *big.Int) (*types.Receipt, error)
}

// Contract is the full contract access layer.
type Contract interface {
	ContractReader
	ContractWriter
}

// Pinner stores metadata documents on content-addressed storage.
type Pinner interface {
	Pin(ctx context.Context, md Metadata) (PinResult, error)
	Fetch(ctx context.Context, path string) (Metadata, error)
}

// Notifier surfaces user-facing notifications.
type Notifier interface {
	Loading(msg string) string
	Success(msg string)
	Error(msg string)
	Remove(id string)
}
