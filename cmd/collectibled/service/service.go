package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/textileio/collectibles/cmd/collectibled/auctions"
	"github.com/textileio/collectibles/cmd/collectibled/chain"
	"github.com/textileio/collectibles/cmd/collectibled/httpapi"
	"github.com/textileio/collectibles/cmd/collectibled/minter"
	"github.com/textileio/collectibles/cmd/collectibled/notify"
	"github.com/textileio/collectibles/cmd/collectibled/pinner"
	"github.com/textileio/collectibles/cmd/collectibled/watch"
	logging "github.com/textileio/go-log/v2"
)

var log = logging.Logger("service")

// Config defines params for Service configuration.
type Config struct {
	HTTPAddr           string
	Backend            chain.Backend
	Chain              chain.Config
	WatchFrequency     time.Duration
	IPFSMultiaddr      string
	NotificationTTL    time.Duration
	ReportMintFailures bool
}

// Service wires the contract, the controllers and the HTTP API.
type Service struct {
	watcher  *watch.Watcher
	notifier *notify.Center
	server   *http.Server

	Auctions *auctions.Controller
	Minter   *minter.Controller
}

// New returns a new running Service.
func New(conf Config) (*Service, error) {
	if conf.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if conf.WatchFrequency <= 0 {
		return nil, fmt.Errorf("watch frequency must be positive")
	}

	client, err := chain.New(conf.Backend, conf.Chain)
	if err != nil {
		return nil, fmt.Errorf("creating chain client: %s", err)
	}
	p, err := pinner.New(conf.IPFSMultiaddr)
	if err != nil {
		return nil, fmt.Errorf("creating pinner: %s", err)
	}
	w, err := watch.New(watch.Config{
		Heads:          client,
		Frequency:      conf.WatchFrequency,
		RequestTimeout: conf.Chain.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %s", err)
	}
	n := notify.New(conf.NotificationTTL)
	account := client.Account()

	ac, err := auctions.New(auctions.Config{
		Contract: client,
		Notifier: n,
		Watcher:  w,
		Account:  account,
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("creating auctions controller: %s", err)
	}
	mc, err := minter.New(minter.Config{
		Contract:       client,
		Pinner:         p,
		Notifier:       n,
		Watcher:        w,
		Account:        account,
		ReportFailures: conf.ReportMintFailures,
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("creating minter controller: %s", err)
	}

	server, err := httpapi.NewServer(conf.HTTPAddr, httpapi.Config{
		Account:       account,
		Auctions:      ac,
		Minter:        mc,
		Notifications: n,
		Updates:       w,
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("creating http api: %s", err)
	}
	log.Infof("serving %s as %s", conf.Chain.ContractAddr, account.Address)

	return &Service{
		watcher:  w,
		notifier: n,
		server:   server,
		Auctions: ac,
		Minter:   mc,
	}, nil
}

// Close stops the HTTP API and the live queries.
func (s *Service) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.Errorf("shutting down http server: %s", err)
	}
	if err := s.watcher.Close(); err != nil {
		return fmt.Errorf("closing watcher: %s", err)
	}
	if err := s.notifier.Close(); err != nil {
		return fmt.Errorf("closing notifier: %s", err)
	}
	return nil
}
