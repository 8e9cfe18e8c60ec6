package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/textileio/cli"
	"github.com/textileio/collectibles/cmd/collectibled/chain"
	"github.com/textileio/collectibles/cmd/collectibled/service"
	collcommon "github.com/textileio/collectibles/common"
	logging "github.com/textileio/go-log/v2"
)

var (
	daemonName = "collectibled"
	log        = logging.Logger(daemonName)
	v          = viper.New()
)

func init() {
	flags := []cli.Flag{
		{Name: "http-addr", DefValue: ":8888", Description: "HTTP API listen address"},
		{Name: "eth-endpoint", DefValue: "http://127.0.0.1:8545", Description: "Ethereum JSON-RPC endpoint"},
		{Name: "eth-chain-id", DefValue: int64(31337), Description: "Chain id used to sign transactions"},
		{Name: "contract-addr", DefValue: "", Description: "Address of the deployed YourCollectible contract"},
		{Name: "wallet-private-key", DefValue: "", Description: "Hex private key of the connected wallet"},
		{Name: "rpc-timeout", DefValue: time.Minute * 2, Description: "Timeout of a contract call, mining included"},
		{Name: "watch-frequency", DefValue: time.Second * 4, Description: "How often to poll for new blocks"},
		{Name: "ipfs-multiaddr", DefValue: "/ip4/127.0.0.1/tcp/5001", Description: "IPFS API multiaddress"},
		{
			Name:        "notification-ttl",
			DefValue:    time.Second * 5,
			Description: "How long success and error notifications stay visible",
		},
		{Name: "report-mint-failures", DefValue: false, Description: "Show an error notification when minting fails"},
		{Name: "metrics-addr", DefValue: ":9090", Description: "Prometheus listen address"},
		{Name: "log-debug", DefValue: false, Description: "Enable debug level logging"},
		{Name: "log-json", DefValue: false, Description: "Enable structured logging"},
	}

	cli.ConfigureCLI(v, "COLLECTIBLE", flags, rootCmd.Flags())
}

var rootCmd = &cobra.Command{
	Use:   daemonName,
	Short: "collectibled mints and auctions YourCollectible NFTs",
	Long:  `collectibled drives a YourCollectible contract with one wallet and serves the minting and auction workflows over HTTP`,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		cli.ExpandEnvVars(v, v.AllSettings())
		err := cli.ConfigureLogging(v, nil)
		cli.CheckErrf("setting log levels: %v", err)
	},
	Run: func(c *cobra.Command, args []string) {
		settings, err := cli.MarshalConfig(v, !v.GetBool("log-json"), "wallet-private-key")
		cli.CheckErr(err)
		log.Infof("loaded config: %s", string(settings))

		err = collcommon.SetupInstrumentation(v.GetString("metrics-addr"))
		cli.CheckErrf("booting instrumentation: %v", err)

		contractAddr := v.GetString("contract-addr")
		if !common.IsHexAddress(contractAddr) {
			cli.CheckErr(fmt.Errorf("invalid contract address %q", contractAddr))
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(v.GetString("wallet-private-key"), "0x"))
		cli.CheckErrf("parsing wallet private key: %v", err)

		rpcTimeout := v.GetDuration("rpc-timeout")
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		client, err := ethclient.DialContext(ctx, v.GetString("eth-endpoint"))
		cli.CheckErrf("dialing eth endpoint: %v", err)

		chainID := big.NewInt(v.GetInt64("eth-chain-id"))
		if remote, err := client.ChainID(ctx); err != nil {
			log.Warnf("getting chain id: %s", err)
		} else if remote.Cmp(chainID) != 0 {
			log.Warnf("configured chain id %s differs from endpoint chain id %s", chainID, remote)
		}

		s, err := service.New(service.Config{
			HTTPAddr: v.GetString("http-addr"),
			Backend:  client,
			Chain: chain.Config{
				ContractAddr: common.HexToAddress(contractAddr),
				ChainID:      chainID,
				PrivateKey:   key,
				Timeout:      rpcTimeout,
			},
			WatchFrequency:     v.GetDuration("watch-frequency"),
			IPFSMultiaddr:      v.GetString("ipfs-multiaddr"),
			NotificationTTL:    v.GetDuration("notification-ttl"),
			ReportMintFailures: v.GetBool("report-mint-failures"),
		})
		cli.CheckErr(err)

		cli.HandleInterrupt(func() {
			log.Info("Gracefully stopping... (press Ctrl+C again to force)")
			if err := s.Close(); err != nil {
				log.Errorf("closing service: %s", err)
			}
			client.Close()
			log.Info("Closed.")
		})
	},
}

func main() {
	cli.CheckErr(rootCmd.Execute())
}
