package entity

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gosimple/slug"
)

type Nft struct {
	Contract  string `json:"contract"`
	TokenId   uint64 `json:"tokenId"`
	Owner     string `json:"owner"`
	TokenUri  string `json:"tokenUri"`
	Rarity    string `json:"rarity"`
	Character string `json:"character"`
	RequestId string `json:"requestId"`

	HasMetadata   bool        `json:"hasMetadata"`
	MetadataError string      `json:"metadataError"`
	Metadata      interface{} `json:"metadata"`
}

func (n Nft) Slug() string {
	return CreateNftSlug(n.TokenId, n.Contract)
}

func CreateNftSlug(tokenId uint64, contract string) string {
	return slug.Make(fmt.Sprintf("nft-%d-%s", tokenId, contract))
}

// MetadataUri resolves the uri the token metadata lives at. ipfs uris are
// returned as ipfs:// so the caller can pick a gateway.
func (n Nft) MetadataUri() (string, error) {
	metadataUri := n.TokenUri
	if metadataUri == "" {
		return "", errors.New("nft has no token uri")
	}

	if ipfs := getIpfs(metadataUri); ipfs != "" {
		return ipfs, nil
	}

	if len(metadataUri) < 4 || metadataUri[:4] != "http" {
		return "", errors.New("invalid metadata uri")
	}

	return metadataUri, nil
}

func getIpfs(metadataUri string) string {
	if len(metadataUri) < 7 {
		return ""
	}

	if metadataUri[:7] == "ipfs://" {
		return metadataUri
	}

	re := regexp.MustCompile("(Qm[1-9A-HJ-NP-Za-km-z]{44})")
	parts := re.FindStringSubmatch(metadataUri)
	if len(parts) == 2 {
		return "ipfs://" + parts[1]
	}

	return ""
}
