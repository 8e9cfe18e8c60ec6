package minter

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/textileio/collectibles/collectible"
)

//go:embed catalog.json
var catalogJSON []byte

// DefaultCatalog returns the built-in catalog of mintable items.
func DefaultCatalog() []collectible.Metadata {
	c, err := ParseCatalog(catalogJSON)
	if err != nil {
		panic(fmt.Sprintf("parsing embedded catalog: %s", err))
	}
	return c
}

// ParseCatalog decodes a JSON array of metadata records.
func ParseCatalog(data []byte) ([]collectible.Metadata, error) {
	var c []collectible.Metadata
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling catalog: %s", err)
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

// Select returns the index and entry minted when the token counter is counter.
// The catalog wraps around once every entry has been minted.
func Select(catalog []collectible.Metadata, counter *big.Int) (int, collectible.Metadata, error) {
	if len(catalog) == 0 {
		return 0, collectible.Metadata{}, fmt.Errorf("catalog is empty")
	}
	if counter == nil || counter.Sign() < 0 {
		return 0, collectible.Metadata{}, fmt.Errorf("invalid token counter %v", counter)
	}
	i := int(new(big.Int).Mod(counter, big.NewInt(int64(len(catalog)))).Int64())
	return i, catalog[i], nil
}
