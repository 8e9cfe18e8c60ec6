package auctions

import (
	"math/big"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/common"
	"github.com/textileio/collectibles/collectible"
	collcommon "github.com/textileio/collectibles/common"
)

// AuctionView is how an auction snapshot is presented to the connected account.
type AuctionView struct {
	TokenID       string `json:"token_id"`
	Seller        string `json:"seller"`
	SellerAddress string `json:"seller_address"`
	HighestBid    string `json:"highest_bid"`
	StartingPrice string `json:"starting_price"`
	EndsAt        string `json:"ends_at"`
	EndsIn        string `json:"ends_in"`
	// HighestBidder is empty until somebody bids.
	HighestBidder string `json:"highest_bidder,omitempty"`
	Active        bool   `json:"active"`
	Status        string `json:"status"`
	CanBid        bool   `json:"can_bid"`
	CanEnd        bool   `json:"can_end"`
}

// Render builds the view of an auction for viewer at time now.
// Ending is only offered to the seller; the contract decides who may really end it.
func Render(tokenID *big.Int, a collectible.Auction, viewer common.Address, now time.Time) AuctionView {
	v := AuctionView{
		TokenID:       tokenID.String(),
		Seller:        collcommon.ShortenAddr(a.Seller),
		SellerAddress: a.Seller.Hex(),
		HighestBid:    weiString(a.HighestBid),
		StartingPrice: weiString(a.StartingPrice),
		Active:        a.Active,
		Status:        "Ended",
		CanBid:        a.Active,
		CanEnd:        a.Active && a.Seller == viewer,
	}
	if a.Active {
		v.Status = "Active"
	}
	if a.EndTime != nil && a.EndTime.IsInt64() {
		ends := time.Unix(a.EndTime.Int64(), 0).UTC()
		v.EndsAt = ends.Format(time.RFC3339)
		v.EndsIn = humanize.RelTime(ends, now, "ago", "from now")
	}
	if a.HasBids() {
		v.HighestBidder = collcommon.ShortenAddr(a.HighestBidder)
	}
	return v
}

// RenderListings builds the views of listings, preserving their order.
func RenderListings(ls []collectible.Listing, viewer common.Address, now time.Time) []AuctionView {
	res := make([]AuctionView, len(ls))
	for i, l := range ls {
		res[i] = Render(l.TokenID, l.Auction, viewer, now)
	}
	return res
}

func weiString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
