package messenger

type Nft struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
}
