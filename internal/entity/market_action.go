package entity

import (
	"crypto/md5"
	"fmt"
	"time"
)

// MarketAction is one entry in the durable audit log. Every notification the
// ledger or mint engine emits becomes exactly one action document.
type MarketAction struct {
	Id        string     `json:"id"`
	Contract  string     `json:"contract"`
	TokenId   uint64     `json:"tokenId"`
	Action    ActionType `json:"action"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Cost      string     `json:"cost"`
	Rarity    string     `json:"rarity,omitempty"`
	Character string     `json:"character,omitempty"`
	RequestId string     `json:"requestId,omitempty"`
	Time      time.Time  `json:"time"`
}

type ActionType string

const (
	ListedAction    ActionType = "listed"
	BoughtAction    ActionType = "bought"
	CanceledAction  ActionType = "canceled"
	WithdrawnAction ActionType = "withdrawn"
	RequestedAction ActionType = "requested"
	MintedAction    ActionType = "minted"
)

func (a MarketAction) Slug() string {
	return CreateMarketActionSlug(a.TokenId, a.Contract, a.Id, string(a.Action))
}

func CreateMarketActionSlug(tokenId uint64, contract, id, action string) string {
	data := []byte(fmt.Sprintf("marketaction-%d-%s-%s-%s", tokenId, contract, id, action))
	return fmt.Sprintf("%x", md5.Sum(data))
}
