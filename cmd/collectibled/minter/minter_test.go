package minter

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/textileio/collectibles/cmd/collectibled/notify"
	"github.com/textileio/collectibles/cmd/collectibled/watch"
	"github.com/textileio/collectibles/collectible"
	"github.com/textileio/collectibles/collectible/collectibletest"
)

var (
	me        = common.HexToAddress("0x1111111111111111111111111111111111111111")
	recipient = common.HexToAddress("0x4444444444444444444444444444444444444444")
	someCid   = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
)

type staticHeads struct{}

func (staticHeads) BlockNumber(context.Context) (uint64, error) {
	return 1, nil
}

type fixture struct {
	contract *collectibletest.ContractMock
	pinner   *collectibletest.PinnerMock
	notifier *notify.Center
}

func newController(t *testing.T, f fixture, conf Config) *Controller {
	w, err := watch.New(watch.Config{Heads: staticHeads{}, Frequency: time.Hour, RequestTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, w.Close()) })

	conf.Contract = f.contract
	conf.Pinner = f.pinner
	conf.Notifier = f.notifier
	conf.Watcher = w
	if conf.Account == (collectible.Account{}) {
		conf.Account = collectible.Account{Address: me, Connected: true}
	}
	c, err := New(conf)
	require.NoError(t, err)
	return c
}

func newFixture(counter int64) fixture {
	cm := &collectibletest.ContractMock{}
	cm.On("TokenIDCounter", mock.Anything).Return(big.NewInt(counter), nil).Maybe()
	return fixture{contract: cm, pinner: &collectibletest.PinnerMock{}, notifier: notify.New(0)}
}

func waitCounter(t *testing.T, c *Controller) {
	require.Eventually(t, func() bool {
		_, ok := c.TokenIDCounter()
		return ok
	}, time.Second, time.Millisecond)
}

func messages(n *notify.Center, kind notify.Kind) []string {
	var res []string
	for _, v := range n.Visible() {
		if v.Kind == kind {
			res = append(res, v.Message)
		}
	}
	return res
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	require.Len(t, c, 6)
	require.Equal(t, "Buffalo", c[0].Name)
	require.Equal(t, "Godzilla", c[5].Name)
	for _, md := range c {
		require.NotEmpty(t, md.Image)
		require.Len(t, md.Attributes, 3)
	}

	_, err := ParseCatalog([]byte("[]"))
	require.Error(t, err)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	catalog := []collectible.Metadata{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	tests := []struct {
		counter int64
		index   int
	}{
		{0, 0},
		{2, 2},
		{3, 0},
		{5, 2},
		{301, 1},
	}
	for _, tc := range tests {
		i, md, err := Select(catalog, big.NewInt(tc.counter))
		require.NoError(t, err)
		require.Equal(t, tc.index, i)
		require.Equal(t, catalog[tc.index], md)
	}

	_, _, err := Select(nil, big.NewInt(1))
	require.Error(t, err)
	_, _, err = Select(catalog, big.NewInt(-1))
	require.Error(t, err)
}

func TestMintItem(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	catalog := []collectible.Metadata{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	f.pinner.On("Pin", mock.Anything, catalog[2]).Return(collectible.PinResult{Path: someCid}, nil)
	f.contract.On("MintItem", mock.Anything, me, someCid).Return(collectibletest.Receipt, nil)
	c := newController(t, f, Config{Catalog: catalog})
	waitCounter(t, c)

	res, err := c.MintItem(context.Background())
	require.NoError(t, err)
	require.Equal(t, MintResult{Index: 2, Name: "c", Path: someCid}, res)
	require.Equal(t, []string{"Metadata uploaded to IPFS"}, messages(f.notifier, notify.KindSuccess))
	require.Empty(t, messages(f.notifier, notify.KindLoading))
	f.pinner.AssertExpectations(t)
	f.contract.AssertExpectations(t)
}

func TestMintItemPinFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report bool
		errors []string
	}{
		{"silent", false, nil},
		{"reported", true, []string{"Failed to mint NFT"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(0)
			f.pinner.On("Pin", mock.Anything, mock.Anything).Return(collectible.PinResult{}, errors.New("ipfs down"))
			c := newController(t, f, Config{ReportFailures: tc.report})
			waitCounter(t, c)

			_, err := c.MintItem(context.Background())
			require.Error(t, err)
			require.Empty(t, messages(f.notifier, notify.KindLoading))
			require.Empty(t, messages(f.notifier, notify.KindSuccess))
			require.Equal(t, tc.errors, messages(f.notifier, notify.KindError))
			f.contract.AssertNotCalled(t, "MintItem", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMintItemWriteFailureIsSilent(t *testing.T) {
	t.Parallel()

	f := newFixture(1)
	f.pinner.On("Pin", mock.Anything, mock.Anything).Return(collectible.PinResult{Path: someCid}, nil)
	f.contract.On("MintItem", mock.Anything, me, someCid).Return(nil, errors.New("user rejected"))
	c := newController(t, f, Config{})
	waitCounter(t, c)

	_, err := c.MintItem(context.Background())
	require.Error(t, err)
	require.Equal(t, []string{"Metadata uploaded to IPFS"}, messages(f.notifier, notify.KindSuccess))
	require.Empty(t, messages(f.notifier, notify.KindError))
}

func TestMintItemNeedsCounter(t *testing.T) {
	t.Parallel()

	f := newFixture(0)
	f.contract.ExpectedCalls = nil
	f.contract.On("TokenIDCounter", mock.Anything).Return(nil, errors.New("rpc down"))
	c := newController(t, f, Config{})

	_, err := c.MintItem(context.Background())
	require.ErrorIs(t, err, ErrCounterUnresolved)
	f.pinner.AssertNotCalled(t, "Pin", mock.Anything, mock.Anything)
}

func TestCreateIndependentNFT(t *testing.T) {
	t.Parallel()

	f := newFixture(0)
	f.contract.On("CreateIndependentNFT", mock.Anything, someCid).Return(collectibletest.Receipt, nil)
	c := newController(t, f, Config{})

	c.SetIPFSURL("  https://ipfs.io/ipfs/" + someCid + " ")
	require.NoError(t, c.CreateIndependentNFT(context.Background()))
	require.Empty(t, c.IPFSURL())
	require.Equal(t, []string{"NFT created successfully!"}, messages(f.notifier, notify.KindSuccess))
	require.Empty(t, messages(f.notifier, notify.KindLoading))
	f.contract.AssertExpectations(t)
}

func TestCreateIndependentNFTFailures(t *testing.T) {
	t.Parallel()

	t.Run("missing url", func(t *testing.T) {
		t.Parallel()
		f := newFixture(0)
		c := newController(t, f, Config{})

		require.ErrorIs(t, c.CreateIndependentNFT(context.Background()), collectible.ErrMissingFields)
		require.Equal(t, []string{"Please enter IPFS URL"}, messages(f.notifier, notify.KindError))
	})

	t.Run("write fails", func(t *testing.T) {
		t.Parallel()
		f := newFixture(0)
		f.contract.On("CreateIndependentNFT", mock.Anything, "not-a-cid").Return(nil, errors.New("reverted"))
		c := newController(t, f, Config{})

		c.SetIPFSURL("https://ipfs.io/ipfs/not-a-cid")
		require.Error(t, c.CreateIndependentNFT(context.Background()))
		require.Equal(t, "https://ipfs.io/ipfs/not-a-cid", c.IPFSURL())
		require.Equal(t, []string{"Failed to create NFT"}, messages(f.notifier, notify.KindError))
		require.Empty(t, messages(f.notifier, notify.KindLoading))
	})

	t.Run("not connected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(0)
		c := newController(t, f, Config{Account: collectible.Account{Address: me}})

		c.SetIPFSURL(someCid)
		require.ErrorIs(t, c.CreateIndependentNFT(context.Background()), collectible.ErrNotConnected)
		require.Empty(t, f.notifier.Visible())
	})
}

func TestHoldings(t *testing.T) {
	t.Parallel()

	f := newFixture(0)
	f.contract.On("BalanceOf", mock.Anything, me).Return(big.NewInt(2), nil)
	f.contract.On("TokenOfOwnerByIndex", mock.Anything, me, collectibletest.BigEq(0)).Return(big.NewInt(10), nil)
	f.contract.On("TokenOfOwnerByIndex", mock.Anything, me, collectibletest.BigEq(1)).Return(big.NewInt(11), nil)
	f.contract.On("TokenURI", mock.Anything, collectibletest.BigEq(10)).Return("https://ipfs.io/ipfs/"+someCid, nil)
	f.contract.On("TokenURI", mock.Anything, collectibletest.BigEq(11)).Return("broken", nil)
	f.pinner.On("Fetch", mock.Anything, someCid).Return(collectible.Metadata{Name: "Buffalo"}, nil)
	f.pinner.On("Fetch", mock.Anything, "broken").Return(collectible.Metadata{}, errors.New("bad cid"))
	c := newController(t, f, Config{})

	hs, err := c.Holdings(context.Background())
	require.NoError(t, err)
	require.Len(t, hs, 2)
	require.Equal(t, "10", hs[0].TokenID)
	require.Equal(t, "Buffalo", hs[0].Metadata.Name)
	require.Equal(t, me.Hex(), hs[0].Owner)
	require.Equal(t, "11", hs[1].TokenID)
	require.Nil(t, hs[1].Metadata)
}

func TestHoldingsHugeBalance(t *testing.T) {
	t.Parallel()

	f := newFixture(0)
	f.contract.On("BalanceOf", mock.Anything, me).Return(big.NewInt(1<<62), nil)
	f.contract.On("TokenOfOwnerByIndex", mock.Anything, me, collectibletest.BigEq(0)).Return(nil, errors.New("index out of bounds"))
	c := newController(t, f, Config{})

	var err error
	require.NotPanics(t, func() { _, err = c.Holdings(context.Background()) })
	require.Error(t, err)
}

func TestHoldingsEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(0)
	f.contract.On("BalanceOf", mock.Anything, me).Return(big.NewInt(0), nil)
	c := newController(t, f, Config{})

	hs, err := c.Holdings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, hs)
	require.Empty(t, hs)
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	f := newFixture(0)
	f.contract.On("TransferFrom", mock.Anything, me, recipient, collectibletest.BigEq(10)).Return(collectibletest.Receipt, nil)
	c := newController(t, f, Config{})

	require.NoError(t, c.Transfer(context.Background(), "10", recipient.Hex()))
	require.Equal(t, []string{"NFT transferred!"}, messages(f.notifier, notify.KindSuccess))

	err := c.Transfer(context.Background(), "10", "nobody")
	require.ErrorIs(t, err, collectible.ErrInvalidInput)
	require.Equal(t, []string{"Failed to transfer NFT"}, messages(f.notifier, notify.KindError))
	f.contract.AssertNumberOfCalls(t, "TransferFrom", 1)
}
