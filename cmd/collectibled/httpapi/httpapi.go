package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/textileio/collectibles/cmd/collectibled/auctions"
	"github.com/textileio/collectibles/cmd/collectibled/minter"
	"github.com/textileio/collectibles/cmd/collectibled/notify"
	"github.com/textileio/collectibles/cmd/collectibled/watch"
	"github.com/textileio/collectibles/collectible"
	"github.com/textileio/collectibles/common"
	logging "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LogName is the name of the http api logger.
const LogName = "http-api"

const maxBodySize = 1 << 20

var log = logging.Logger(LogName)

// Auctions is the auction workflow exposed over HTTP.
type Auctions interface {
	Form() auctions.CreateForm
	SetForm(f auctions.CreateForm)
	CreateAuction(ctx context.Context) error
	QueryTokenID() string
	SetQueryTokenID(id string)
	QueriedAuction() *auctions.AuctionView
	ActiveAuctions() ([]auctions.AuctionView, bool)
	BidAmount() string
	SetBidAmount(amount string)
	PlaceBid(ctx context.Context, tokenID string) error
	EndAuction(ctx context.Context, tokenID string) error
}

// Minter is the minting workflow exposed over HTTP.
type Minter interface {
	TokenIDCounter() (*big.Int, bool)
	IPFSURL() string
	SetIPFSURL(url string)
	MintItem(ctx context.Context) (minter.MintResult, error)
	CreateIndependentNFT(ctx context.Context) error
	Holdings(ctx context.Context) ([]minter.Holding, error)
	Transfer(ctx context.Context, tokenID, to string) error
}

// Notifications are the visible notifications and their changes.
type Notifications interface {
	Visible() []notify.Notification
	Remove(id string)
	Subscribe() (<-chan notify.Event, func())
}

// Updates publishes live query updates.
type Updates interface {
	OnUpdate(l watch.Listener) func()
}

// Config holds what the API serves.
type Config struct {
	Account       collectible.Account
	Auctions      Auctions
	Minter        Minter
	Notifications Notifications
	Updates       Updates
}

// NewServer starts serving the API at listenAddr.
func NewServer(listenAddr string, conf Config) (*http.Server, error) {
	if conf.Auctions == nil || conf.Minter == nil || conf.Notifications == nil || conf.Updates == nil {
		return nil, fmt.Errorf("auctions, minter, notifications and updates are required")
	}
	httpServer := &http.Server{
		Addr:              listenAddr,
		ReadHeaderTimeout: time.Second * 5,
		Handler:           createMux(conf),
	}

	log.Infof("Running HTTP API...")
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("stopping http server: %s", err)
		}
	}()

	return httpServer, nil
}

type api struct {
	Config
}

func createMux(conf Config) *mux.Router {
	a := &api{Config: conf}
	r := mux.NewRouter()
	r.Use(common.HTTPLoggerMiddleware(log))

	route := func(method, path, name string, f handlerFunc) {
		r.Handle(path, otelhttp.NewHandler(wrap(f), name)).Methods(method)
	}
	route("GET", "/account", "account", a.getAccount)
	route("GET", "/notifications", "notifications", a.getNotifications)
	route("DELETE", "/notifications/{id}", "remove-notification", a.deleteNotification)

	route("GET", "/auctions/form", "get-auction-form", a.getAuctionForm)
	route("PUT", "/auctions/form", "set-auction-form", a.putAuctionForm)
	route("POST", "/auctions", "create-auction", a.createAuction)
	route("GET", "/auctions/query", "get-auction-query", a.getAuctionQuery)
	route("PUT", "/auctions/query", "set-auction-query", a.putAuctionQuery)
	route("GET", "/auctions/active", "active-auctions", a.getActiveAuctions)
	route("PUT", "/auctions/bid-amount", "set-bid-amount", a.putBidAmount)
	route("POST", "/auctions/{tokenId}/bid", "place-bid", a.placeBid)
	route("POST", "/auctions/{tokenId}/end", "end-auction", a.endAuction)

	route("GET", "/nfts/counter", "token-id-counter", a.getCounter)
	route("POST", "/nfts/mint", "mint", a.mint)
	route("PUT", "/nfts/ipfs-url", "set-ipfs-url", a.putIPFSURL)
	route("POST", "/nfts/independent", "create-independent-nft", a.createIndependentNFT)
	route("GET", "/nfts/holdings", "holdings", a.getHoldings)
	route("POST", "/nfts/{tokenId}/transfer", "transfer", a.transfer)

	r.Handle("/ws", &feed{api: a}).Methods("GET")
	return r
}

type accountView struct {
	Address   string `json:"address"`
	Short     string `json:"short"`
	Connected bool   `json:"connected"`
}

func (a *api) getAccount(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, accountView{
		Address:   a.Account.Address.Hex(),
		Short:     common.ShortenAddr(a.Account.Address),
		Connected: a.Account.Connected,
	})
}

func (a *api) getNotifications(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, a.Notifications.Visible())
}

func (a *api) deleteNotification(w http.ResponseWriter, r *http.Request) error {
	a.Notifications.Remove(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *api) getAuctionForm(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, a.Auctions.Form())
}

func (a *api) putAuctionForm(w http.ResponseWriter, r *http.Request) error {
	var f auctions.CreateForm
	if ok, err := readJSON(w, r, &f); err != nil || !ok {
		return requiredBody(err)
	}
	a.Auctions.SetForm(f)
	return writeJSON(w, a.Auctions.Form())
}

func (a *api) createAuction(w http.ResponseWriter, r *http.Request) error {
	var f auctions.CreateForm
	ok, err := readJSON(w, r, &f)
	if err != nil {
		return err
	}
	if ok {
		a.Auctions.SetForm(f)
	}
	if err := a.Auctions.CreateAuction(r.Context()); err != nil {
		return err
	}
	return writeJSON(w, a.Auctions.Form())
}

type auctionQuery struct {
	TokenID string                `json:"token_id"`
	Auction *auctions.AuctionView `json:"auction"`
}

func (a *api) getAuctionQuery(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, auctionQuery{TokenID: a.Auctions.QueryTokenID(), Auction: a.Auctions.QueriedAuction()})
}

func (a *api) putAuctionQuery(w http.ResponseWriter, r *http.Request) error {
	var q auctionQuery
	if ok, err := readJSON(w, r, &q); err != nil || !ok {
		return requiredBody(err)
	}
	a.Auctions.SetQueryTokenID(q.TokenID)
	return writeJSON(w, auctionQuery{TokenID: a.Auctions.QueryTokenID(), Auction: a.Auctions.QueriedAuction()})
}

type activeAuctions struct {
	Resolved bool                   `json:"resolved"`
	Auctions []auctions.AuctionView `json:"auctions"`
}

func (a *api) getActiveAuctions(w http.ResponseWriter, _ *http.Request) error {
	vs, ok := a.Auctions.ActiveAuctions()
	return writeJSON(w, activeAuctions{Resolved: ok, Auctions: vs})
}

type bidAmount struct {
	Amount string `json:"amount"`
}

func (a *api) putBidAmount(w http.ResponseWriter, r *http.Request) error {
	var b bidAmount
	if ok, err := readJSON(w, r, &b); err != nil || !ok {
		return requiredBody(err)
	}
	a.Auctions.SetBidAmount(b.Amount)
	return writeJSON(w, bidAmount{Amount: a.Auctions.BidAmount()})
}

func (a *api) placeBid(w http.ResponseWriter, r *http.Request) error {
	var b bidAmount
	ok, err := readJSON(w, r, &b)
	if err != nil {
		return err
	}
	if ok {
		a.Auctions.SetBidAmount(b.Amount)
	}
	if err := a.Auctions.PlaceBid(r.Context(), mux.Vars(r)["tokenId"]); err != nil {
		return err
	}
	return writeJSON(w, bidAmount{Amount: a.Auctions.BidAmount()})
}

func (a *api) endAuction(w http.ResponseWriter, r *http.Request) error {
	if err := a.Auctions.EndAuction(r.Context(), mux.Vars(r)["tokenId"]); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type counter struct {
	Resolved       bool   `json:"resolved"`
	TokenIDCounter string `json:"token_id_counter,omitempty"`
}

func (a *api) getCounter(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, counterView(a.Minter))
}

func counterView(m Minter) counter {
	n, ok := m.TokenIDCounter()
	if !ok {
		return counter{}
	}
	return counter{Resolved: true, TokenIDCounter: n.String()}
}

func (a *api) mint(w http.ResponseWriter, r *http.Request) error {
	res, err := a.Minter.MintItem(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

type ipfsURL struct {
	IPFSURL string `json:"ipfs_url"`
}

func (a *api) putIPFSURL(w http.ResponseWriter, r *http.Request) error {
	var u ipfsURL
	if ok, err := readJSON(w, r, &u); err != nil || !ok {
		return requiredBody(err)
	}
	a.Minter.SetIPFSURL(u.IPFSURL)
	return writeJSON(w, ipfsURL{IPFSURL: a.Minter.IPFSURL()})
}

func (a *api) createIndependentNFT(w http.ResponseWriter, r *http.Request) error {
	var u ipfsURL
	ok, err := readJSON(w, r, &u)
	if err != nil {
		return err
	}
	if ok {
		a.Minter.SetIPFSURL(u.IPFSURL)
	}
	if err := a.Minter.CreateIndependentNFT(r.Context()); err != nil {
		return err
	}
	return writeJSON(w, ipfsURL{IPFSURL: a.Minter.IPFSURL()})
}

func (a *api) getHoldings(w http.ResponseWriter, r *http.Request) error {
	hs, err := a.Minter.Holdings(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, hs)
}

type transferRequest struct {
	To string `json:"to"`
}

func (a *api) transfer(w http.ResponseWriter, r *http.Request) error {
	var t transferRequest
	if _, err := readJSON(w, r, &t); err != nil {
		return err
	}
	if err := a.Minter.Transfer(r.Context(), mux.Vars(r)["tokenId"], t.To); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// handlerFunc is an http handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type badRequest struct {
	err error
}

func (br badRequest) Error() string {
	return br.err.Error()
}

func (br badRequest) Unwrap() error {
	return br.err
}

func wrap(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			httpError(w, err.Error(), statusCode(err))
		}
	}
}

func statusCode(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br), auctions.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, collectible.ErrActionInFlight):
		return http.StatusConflict
	case errors.Is(err, collectible.ErrNotConnected):
		return http.StatusPreconditionFailed
	case errors.Is(err, minter.ErrCounterUnresolved):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// readJSON decodes the request body into v. It returns false if the body is empty.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) (bool, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, badRequest{fmt.Errorf("decoding body: %s", err)}
	}
	return true, nil
}

func requiredBody(err error) error {
	if err != nil {
		return err
	}
	return badRequest{errors.New("missing body")}
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("marshaling response: %s", err)
	}
	return nil
}

func httpError(w http.ResponseWriter, err string, status int) {
	log.Errorf("request error: %s", err)
	http.Error(w, err, status)
}
