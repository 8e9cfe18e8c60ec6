package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/textileio/collectibles/collectible"
)

var simChainID = big.NewInt(1337)

var (
	// Returns the word 7 to any call.
	answerSeven = []byte{0x60, 0x07, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}
	// Reverts any call.
	alwaysRevert = []byte{0x60, 0x00, 0x60, 0x00, 0xfd}
)

// simBackend mines every sent transaction right away. A non-zero gas skips
// estimation so reverting calls still get mined.
type simBackend struct {
	*backends.SimulatedBackend
	gas uint64
}

func (b *simBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := b.SimulatedBackend.SendTransaction(ctx, tx); err != nil {
		return err
	}
	b.Commit()
	return nil
}

func (b *simBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if b.gas > 0 {
		return b.gas, nil
	}
	return b.SimulatedBackend.EstimateGas(ctx, call)
}

func (b *simBackend) BlockNumber(context.Context) (uint64, error) {
	return b.Blockchain().CurrentBlock().NumberU64(), nil
}

func newSimBackend(t *testing.T, gas uint64) (*simBackend, *ecdsa.PrivateKey) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	funds := new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	sim := backends.NewSimulatedBackend(core.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: funds},
	}, 10_000_000)
	t.Cleanup(func() { require.NoError(t, sim.Close()) })
	return &simBackend{SimulatedBackend: sim, gas: gas}, key
}

func deploy(t *testing.T, b *simBackend, key *ecdsa.PrivateKey, runtime []byte) common.Address {
	auth, err := bind.NewKeyedTransactorWithChainID(key, simChainID)
	require.NoError(t, err)
	n := byte(len(runtime))
	code := append([]byte{0x60, n, 0x60, 0x0c, 0x60, 0x00, 0x39, 0x60, n, 0x60, 0x00, 0xf3}, runtime...)
	addr, _, _, err := bind.DeployContract(auth, abi.ABI{}, code, b)
	require.NoError(t, err)
	return addr
}

func newSimClient(t *testing.T, b *simBackend, key *ecdsa.PrivateKey, addr common.Address) *Client {
	c, err := New(b, Config{ContractAddr: addr, ChainID: simChainID, PrivateKey: key, Timeout: 10 * time.Second})
	require.NoError(t, err)
	return c
}

func TestReads(t *testing.T) {
	t.Parallel()

	b, key := newSimBackend(t, 0)
	c := newSimClient(t, b, key, deploy(t, b, key, answerSeven))
	ctx := context.Background()

	counter, err := c.TokenIDCounter(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(7), counter.Int64())

	balance, err := c.BalanceOf(ctx, c.from)
	require.NoError(t, err)
	require.Equal(t, int64(7), balance.Int64())

	height, err := c.BlockNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), height)
}

func TestReadsWithoutContract(t *testing.T) {
	t.Parallel()

	b, key := newSimBackend(t, 0)
	c := newSimClient(t, b, key, common.HexToAddress("0x00000000000000000000000000000000000000cc"))

	_, err := c.TokenIDCounter(context.Background())
	require.Error(t, err)
}

func TestPlaceBidCarriesValue(t *testing.T) {
	t.Parallel()

	b, key := newSimBackend(t, 0)
	addr := deploy(t, b, key, answerSeven)
	c := newSimClient(t, b, key, addr)
	ctx := context.Background()

	receipt, err := c.PlaceBid(ctx, big.NewInt(3), big.NewInt(1234))
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	held, err := b.BalanceAt(ctx, addr, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1234), held.Int64())

	// Other writes carry no value.
	_, err = c.EndAuction(ctx, big.NewInt(3))
	require.NoError(t, err)
	held, err = b.BalanceAt(ctx, addr, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1234), held.Int64())
}

func TestWrites(t *testing.T) {
	t.Parallel()

	b, key := newSimBackend(t, 0)
	c := newSimClient(t, b, key, deploy(t, b, key, answerSeven))
	ctx := context.Background()
	to := common.HexToAddress("0x00000000000000000000000000000000000000dd")

	writes := map[string]func() (*types.Receipt, error){
		"createAuction": func() (*types.Receipt, error) {
			return c.CreateAuction(ctx, big.NewInt(1), big.NewInt(7200), big.NewInt(100))
		},
		"mintItem": func() (*types.Receipt, error) {
			return c.MintItem(ctx, c.from, "https://ipfs.io/ipfs/abc")
		},
		"createIndependentNFT": func() (*types.Receipt, error) {
			return c.CreateIndependentNFT(ctx, "abc")
		},
		"transferFrom": func() (*types.Receipt, error) {
			return c.TransferFrom(ctx, c.from, to, big.NewInt(1))
		},
	}
	for name, write := range writes {
		receipt, err := write()
		require.NoError(t, err, name)
		require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status, name)
		require.NotNil(t, receipt.BlockNumber, name)
	}
}

func TestRevertedWrite(t *testing.T) {
	t.Parallel()

	b, key := newSimBackend(t, 100_000)
	c := newSimClient(t, b, key, deploy(t, b, key, alwaysRevert))

	receipt, err := c.EndAuction(context.Background(), big.NewInt(1))
	require.ErrorIs(t, err, collectible.ErrTxReverted)
	require.NotNil(t, receipt)
	require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
}

func TestRejectedWrite(t *testing.T) {
	t.Parallel()

	b, key := newSimBackend(t, 0)
	c := newSimClient(t, b, key, deploy(t, b, key, alwaysRevert))

	// Gas estimation fails, so nothing is sent.
	_, err := c.EndAuction(context.Background(), big.NewInt(1))
	require.Error(t, err)
	require.NotErrorIs(t, err, collectible.ErrTxReverted)

	height, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), height)
}
