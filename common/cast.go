package common

import ethcommon "github.com/ethereum/go-ethereum/common"

// StringifyAddrs stringifies a slice of addresses into their checksummed hex form.
func StringifyAddrs(addrs ...ethcommon.Address) []string {
	addrsStr := make([]string, len(addrs))
	for i := range addrs {
		addrsStr[i] = addrs[i].Hex()
	}
	return addrsStr
}

// ShortenAddr abbreviates an address as 0x1234...abcd, the way wallets show it.
func ShortenAddr(addr ethcommon.Address) string {
	h := addr.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}
