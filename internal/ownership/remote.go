package ownership

import (
	"encoding/json"
)

type remote struct {
	client *rpcClient
}

// NewRemote returns a Service backed by an external ownership oracle over
// JSON RPC.
func NewRemote(client *rpcClient) Service {
	return remote{client}
}

type assetParams struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
}

type transferParams struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type mintParams struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Owner    string `json:"owner"`
}

func (r remote) OwnerOf(contract string, tokenId uint64) (string, error) {
	resp, err := r.client.call("OwnerOf", assetParams{contract, tokenId})
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", ErrAssetNotFound
	}

	var owner string
	err = json.Unmarshal(resp.Result, &owner)

	return owner, err
}

func (r remote) IsApproved(contract string, tokenId uint64) (bool, error) {
	resp, err := r.client.call("IsApprovedForMarketplace", assetParams{contract, tokenId})
	if err != nil {
		return false, err
	}
	if resp.Error != nil {
		return false, resp.Error
	}

	var approved bool
	err = json.Unmarshal(resp.Result, &approved)

	return approved, err
}

func (r remote) Transfer(contract string, tokenId uint64, from, to string) error {
	resp, err := r.client.call("TransferFrom", transferParams{contract, tokenId, from, to})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}

	return nil
}

func (r remote) Mint(contract string, tokenId uint64, owner string) error {
	resp, err := r.client.call("MintToken", mintParams{contract, tokenId, owner})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}

	return nil
}

func (r remote) Approve(contract string, tokenId uint64) error {
	resp, err := r.client.call("ApproveMarketplace", assetParams{contract, tokenId})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}

	return nil
}
