package entity

import (
	"fmt"
	"math/big"

	"github.com/gosimple/slug"
)

// Listing is an offer to sell one asset at a fixed price. A listing exists
// only while its price is positive; buy and cancel remove it.
type Listing struct {
	Contract string   `json:"contract"`
	TokenId  uint64   `json:"tokenId"`
	Price    *big.Int `json:"price"`
	Seller   string   `json:"seller"`
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.Contract, l.TokenId)
}

func CreateListingSlug(contract string, tokenId uint64) string {
	return slug.Make(fmt.Sprintf("listing-%s-%d", contract, tokenId))
}

// Sale is the outcome of a successful buy. Cost is the full payment the
// buyer attached, which can exceed the listed price.
type Sale struct {
	Contract string   `json:"contract"`
	TokenId  uint64   `json:"tokenId"`
	Buyer    string   `json:"buyer"`
	Seller   string   `json:"seller"`
	Cost     *big.Int `json:"cost"`
}

// Withdrawal is a seller draining their accumulated proceeds.
type Withdrawal struct {
	Seller string   `json:"seller"`
	Amount *big.Int `json:"amount"`
}
