package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/hashicorp/go-retryablehttp"
)

var ErrMetadataNotFound = errors.New("metadata not found")

type Service interface {
	GetMetadata(nft entity.Nft) (map[string]interface{}, error)
}

type service struct {
	client    *retryablehttp.Client
	ipfsHosts []string
}

func NewMetadataService(ipfsHosts []string, timeout int) Service {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2
	client.HTTPClient.Timeout = time.Duration(timeout) * time.Second

	return service{client, ipfsHosts}
}

func (s service) GetMetadata(nft entity.Nft) (map[string]interface{}, error) {
	metadataUri, err := nft.MetadataUri()
	if err != nil {
		return nil, err
	}

	for _, uri := range s.resolveUris(metadataUri) {
		md, err := s.fetch(uri)
		if err == nil {
			return md, nil
		}
	}

	return nil, ErrMetadataNotFound
}

// resolveUris expands an ipfs uri into one http uri per configured gateway.
func (s service) resolveUris(metadataUri string) []string {
	if !strings.HasPrefix(metadataUri, "ipfs://") {
		return []string{metadataUri}
	}

	path := strings.TrimPrefix(metadataUri, "ipfs://")
	uris := make([]string, 0, len(s.ipfsHosts))
	for _, host := range s.ipfsHosts {
		uris = append(uris, fmt.Sprintf("%s/ipfs/%s", host, path))
	}

	return uris
}

func (s service) fetch(uri string) (map[string]interface{}, error) {
	resp, err := s.client.Get(uri)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, errors.New(resp.Status)
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	var md map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &md); err != nil {
		return nil, err
	}

	return md, nil
}
