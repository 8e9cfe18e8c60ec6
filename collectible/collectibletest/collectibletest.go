// Package collectibletest provides testify mocks of the collectible interfaces.
package collectibletest

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/textileio/collectibles/collectible"
)

// ContractMock mocks collectible.Contract.
type ContractMock struct {
	mock.Mock
}

var _ collectible.Contract = (*ContractMock)(nil)

// Receipt is a successful receipt for write mocks to return.
var Receipt = &types.Receipt{Status: types.ReceiptStatusSuccessful}

// TokenIDCounter implements collectible.ContractReader.
func (cm *ContractMock) TokenIDCounter(ctx context.Context) (*big.Int, error) {
	args := cm.Called(ctx)
	return bigArg(args, 0), args.Error(1)
}

// Auction implements collectible.ContractReader.
func (cm *ContractMock) Auction(ctx context.Context, tokenID *big.Int) (collectible.Auction, error) {
	args := cm.Called(ctx, tokenID)
	return args.Get(0).(collectible.Auction), args.Error(1)
}

// ActiveAuctions implements collectible.ContractReader.
func (cm *ContractMock) ActiveAuctions(ctx context.Context) ([]*big.Int, error) {
	args := cm.Called(ctx)
	ids, _ := args.Get(0).([]*big.Int)
	return ids, args.Error(1)
}

// AuctionsDetails implements collectible.ContractReader.
func (cm *ContractMock) AuctionsDetails(ctx context.Context, tokenIDs []*big.Int) ([]collectible.Auction, error) {
	args := cm.Called(ctx, tokenIDs)
	as, _ := args.Get(0).([]collectible.Auction)
	return as, args.Error(1)
}

// BalanceOf implements collectible.ContractReader.
func (cm *ContractMock) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	args := cm.Called(ctx, owner)
	return bigArg(args, 0), args.Error(1)
}

// TokenOfOwnerByIndex implements collectible.ContractReader.
func (cm *ContractMock) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	args := cm.Called(ctx, owner, index)
	return bigArg(args, 0), args.Error(1)
}

// TokenURI implements collectible.ContractReader.
func (cm *ContractMock) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	args := cm.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

// CreateAuction implements collectible.ContractWriter.
func (cm *ContractMock) CreateAuction(
	ctx context.Context,
	tokenID, durationSeconds, startingPrice *big.Int) (*types.Receipt, error) {
	args := cm.Called(ctx, tokenID, durationSeconds, startingPrice)
	return receiptArg(args, 0), args.Error(1)
}

// PlaceBid implements collectible.ContractWriter.
func (cm *ContractMock) PlaceBid(ctx context.Context, tokenID, value *big.Int) (*types.Receipt, error) {
	args := cm.Called(ctx, tokenID, value)
	return receiptArg(args, 0), args.Error(1)
}

// EndAuction implements collectible.ContractWriter.
func (cm *ContractMock) EndAuction(ctx context.Context, tokenID *big.Int) (*types.Receipt, error) {
	args := cm.Called(ctx, tokenID)
	return receiptArg(args, 0), args.Error(1)
}

// MintItem implements collectible.ContractWriter.
func (cm *ContractMock) MintItem(ctx context.Context, to common.Address, uri string) (*types.Receipt, error) {
	args := cm.Called(ctx, to, uri)
	return receiptArg(args, 0), args.Error(1)
}

// CreateIndependentNFT implements collectible.ContractWriter.
func (cm *ContractMock) CreateIndependentNFT(ctx context.Context, hash string) (*types.Receipt, error) {
	args := cm.Called(ctx, hash)
	return receiptArg(args, 0), args.Error(1)
}

// TransferFrom implements collectible.ContractWriter.
func (cm *ContractMock) TransferFrom(
	ctx context.Context,
	from, to common.Address,
	tokenID *big.Int) (*types.Receipt, error) {
	args := cm.Called(ctx, from, to, tokenID)
	return receiptArg(args, 0), args.Error(1)
}

// PinnerMock mocks collectible.Pinner.
type PinnerMock struct {
	mock.Mock
}

var _ collectible.Pinner = (*PinnerMock)(nil)

// Pin implements collectible.Pinner.
func (pm *PinnerMock) Pin(ctx context.Context, md collectible.Metadata) (collectible.PinResult, error) {
	args := pm.Called(ctx, md)
	return args.Get(0).(collectible.PinResult), args.Error(1)
}

// Fetch implements collectible.Pinner.
func (pm *PinnerMock) Fetch(ctx context.Context, path string) (collectible.Metadata, error) {
	args := pm.Called(ctx, path)
	return args.Get(0).(collectible.Metadata), args.Error(1)
}

// BigEq matches a *big.Int argument equal to n.
func BigEq(n int64) interface{} {
	return mock.MatchedBy(func(v *big.Int) bool {
		return v != nil && v.Cmp(big.NewInt(n)) == 0
	})
}

func bigArg(args mock.Arguments, i int) *big.Int {
	n, _ := args.Get(i).(*big.Int)
	return n
}

func receiptArg(args mock.Arguments, i int) *types.Receipt {
	r, _ := args.Get(i).(*types.Receipt)
	return r
}
