package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/textileio/collectibles/cmd/collectibled/contractclient"
)

type nopBackend struct {
	Backend
}

func TestNew(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = New(nopBackend{}, Config{ChainID: big.NewInt(31337)})
	require.Error(t, err)
	_, err = New(nopBackend{}, Config{PrivateKey: key})
	require.Error(t, err)

	c, err := New(nopBackend{}, Config{ChainID: big.NewInt(31337), PrivateKey: key})
	require.NoError(t, err)
	acc := c.Account()
	require.True(t, acc.Connected)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), acc.Address)
}

func TestSigner(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	chainID := big.NewInt(31337)
	c, err := New(nopBackend{}, Config{ChainID: chainID, PrivateKey: key})
	require.NoError(t, err)

	tx := types.NewTransaction(0, common.HexToAddress("0x01"), big.NewInt(1), 21000, big.NewInt(1), nil)
	signed, err := c.signer(c.from, tx)
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	require.Equal(t, c.from, sender)

	_, err = c.signer(common.HexToAddress("0x02"), tx)
	require.ErrorIs(t, err, bind.ErrNotAuthorized)
}

func TestABI(t *testing.T) {
	t.Parallel()

	parsed, err := abi.JSON(strings.NewReader(contractclient.YourCollectibleABI))
	require.NoError(t, err)

	payable := map[string]bool{"placeBid": true}
	for _, name := range []string{
		"createAuction", "placeBid", "endAuction", "mintItem", "createIndependentNFT", "transferFrom",
	} {
		m, ok := parsed.Methods[name]
		require.True(t, ok, name)
		require.False(t, m.IsConstant(), name)
		require.Equal(t, payable[name], m.IsPayable(), name)
	}
	for _, name := range []string{
		"tokenIdCounter", "auctions", "getActiveAuctions", "getAuctionsDetails", "balanceOf",
		"tokenOfOwnerByIndex", "tokenURI",
	} {
		m, ok := parsed.Methods[name]
		require.True(t, ok, name)
		require.True(t, m.IsConstant(), name)
	}

	data, err := parsed.Pack("createAuction", big.NewInt(1), big.NewInt(7200), big.NewInt(100))
	require.NoError(t, err)
	require.Len(t, data, 4+3*32)
	require.Equal(t, big.NewInt(7200), new(big.Int).SetBytes(data[4+32:4+64]))
}

func TestUnpackAuctionsDetails(t *testing.T) {
	t.Parallel()

	parsed, err := abi.JSON(strings.NewReader(contractclient.YourCollectibleABI))
	require.NoError(t, err)
	method := parsed.Methods["getAuctionsDetails"]

	seller := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	in := []contractclient.YourCollectibleAuction{
		{
			Seller:        seller,
			HighestBid:    big.NewInt(0),
			StartingPrice: big.NewInt(100),
			EndTime:       big.NewInt(1700000000),
			Active:        true,
		},
	}
	// Output encoding matches a call response.
	encoded, err := method.Outputs.Pack(in)
	require.NoError(t, err)

	out, err := parsed.Unpack("getAuctionsDetails", encoded)
	require.NoError(t, err)
	got := *abi.ConvertType(out[0], new([]contractclient.YourCollectibleAuction)).(*[]contractclient.YourCollectibleAuction)
	require.Len(t, got, 1)
	require.Equal(t, seller, got[0].Seller)
	require.Equal(t, int64(100), got[0].StartingPrice.Int64())
	require.True(t, got[0].Active)
}
