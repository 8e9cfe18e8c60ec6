package pinner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	ipfsfiles "github.com/ipfs/go-ipfs-files"
	httpapi "github.com/ipfs/go-ipfs-http-client"
	"github.com/ipfs/interface-go-ipfs-core/options"
	ipfspath "github.com/ipfs/interface-go-ipfs-core/path"
	"github.com/multiformats/go-multiaddr"
	"github.com/textileio/collectibles/cmd/collectibled/metrics"
	"github.com/textileio/collectibles/collectible"
	commonmetrics "github.com/textileio/collectibles/metrics"
	logging "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GatewayPrefix is the public gateway prefix token URIs and user input carry.
const GatewayPrefix = "https://ipfs.io/ipfs/"

var log = logging.Logger("pinner")

// StripGatewayPrefix returns the content hash referenced by a gateway URL.
// The result is not validated.
func StripGatewayPrefix(url string) string {
	return strings.TrimSpace(strings.Replace(url, GatewayPrefix, "", 1))
}

// Pinner pins metadata documents in an IPFS node.
type Pinner struct {
	client *httpapi.HttpApi

	metricOps            metric.Int64Counter
	metricDurationMillis metric.Int64Histogram
}

var _ collectible.Pinner = (*Pinner)(nil)

// New returns a Pinner talking to the IPFS HTTP API at ipfsAPIMultiaddr.
func New(ipfsAPIMultiaddr string) (*Pinner, error) {
	ma, err := multiaddr.NewMultiaddr(ipfsAPIMultiaddr)
	if err != nil {
		return nil, fmt.Errorf("parsing ipfs client multiaddress: %s", err)
	}
	client, err := httpapi.NewApi(ma)
	if err != nil {
		return nil, fmt.Errorf("creating ipfs client: %s", err)
	}

	return &Pinner{
		client:               client,
		metricOps:            metrics.Meter.NewInt64Counter(metrics.Prefix + ".pinner.ops_total"),
		metricDurationMillis: metrics.Meter.NewInt64Histogram(metrics.Prefix + ".pinner.duration_millis"),
	}, nil
}

// Pin adds and pins the JSON encoding of md, and returns its Cid as the path.
func (p *Pinner) Pin(ctx context.Context, md collectible.Metadata) (res collectible.PinResult, err error) {
	start := time.Now()
	label := attribute.String("op", "pin")
	defer func() {
		commonmetrics.MetricIncrCounter(ctx, err, p.metricOps, label)
		commonmetrics.MetricRecordSince(ctx, err, start, p.metricDurationMillis, label)
	}()

	data, err := EncodeMetadata(md)
	if err != nil {
		return collectible.PinResult{}, err
	}
	resolved, err := p.client.Unixfs().Add(ctx, ipfsfiles.NewBytesFile(data), options.Unixfs.Pin(true))
	if err != nil {
		return collectible.PinResult{}, fmt.Errorf("adding metadata to ipfs: %s", err)
	}
	log.Debugf("pinned %q as %s", md.Name, resolved.Cid())

	return collectible.PinResult{Path: resolved.Cid().String()}, nil
}

// Fetch reads and decodes the metadata document at path.
func (p *Pinner) Fetch(ctx context.Context, path string) (md collectible.Metadata, err error) {
	start := time.Now()
	label := attribute.String("op", "fetch")
	defer func() {
		commonmetrics.MetricIncrCounter(ctx, err, p.metricOps, label)
		commonmetrics.MetricRecordSince(ctx, err, start, p.metricDurationMillis, label)
	}()

	c, err := cid.Decode(StripGatewayPrefix(path))
	if err != nil {
		return collectible.Metadata{}, fmt.Errorf("decoding cid %q: %s", path, err)
	}
	node, err := p.client.Unixfs().Get(ctx, ipfspath.IpfsPath(c))
	if err != nil {
		return collectible.Metadata{}, fmt.Errorf("getting %s from ipfs: %s", c, err)
	}
	defer func() { _ = node.Close() }()

	f := ipfsfiles.ToFile(node)
	if f == nil {
		return collectible.Metadata{}, fmt.Errorf("%s is not a file", c)
	}
	if err := json.NewDecoder(f).Decode(&md); err != nil {
		return collectible.Metadata{}, fmt.Errorf("decoding metadata %s: %s", c, err)
	}
	return md, nil
}

// EncodeMetadata returns the JSON document that gets pinned for md.
func EncodeMetadata(md collectible.Metadata) ([]byte, error) {
	data, err := json.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %s", err)
	}
	return data, nil
}
