package elastic_search

import (
	"fmt"

	"github.com/ZilDuck/nft-market-ledger/internal/config"
)

type Indices string

var (
	NftIndex          Indices = "nft"
	ListingIndex      Indices = "listing"
	MarketActionIndex Indices = "marketaction"
	DevErrorIndex     Indices = "deverror"
)

// Get prefixes the network and namespace and returns the full index name
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(*i))
}
