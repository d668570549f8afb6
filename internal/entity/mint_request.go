package entity

type Rarity string

const (
	LegendaryRarity Rarity = "Legendary"
	RareRarity      Rarity = "Rare"
	CommonRarity    Rarity = "Common"
)

// MintRequest is a randomness request waiting on the oracle callback. The
// entry is consumed the first time the callback resolves it.
type MintRequest struct {
	RequestId string `json:"requestId"`
	Requester string `json:"requester"`
	Free      bool   `json:"free"`
}
