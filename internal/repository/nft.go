package repository

import (
	"encoding/json"
	"errors"

	"github.com/ZilDuck/nft-market-ledger/internal/elastic_search"
	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/olivere/elastic/v7"
)

var (
	ErrNftNotFound = errors.New("nft not found")
)

type NftRepository interface {
	GetNft(contract string, tokenId uint64) (*entity.Nft, error)
	GetNftsOwnedBy(owner string, size, page int) ([]entity.Nft, int64, error)
	GetNftsByRarity(rarity string, size, page int) ([]entity.Nft, int64, error)
}

type nftRepository struct {
	elastic elastic_search.Index
}

func NewNftRepository(elastic elastic_search.Index) NftRepository {
	return nftRepository{elastic}
}

func (r nftRepository) GetNft(contract string, tokenId uint64) (*entity.Nft, error) {
	query := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("contract.keyword", contract),
		elastic.NewTermQuery("tokenId", tokenId),
	)

	result, err := search(r.elastic.GetClient().
		Search(elastic_search.NftIndex.Get()).
		Query(query).
		Size(1))

	return r.findOne(result, err)
}

func (r nftRepository) GetNftsOwnedBy(owner string, size, page int) ([]entity.Nft, int64, error) {
	query := elastic.NewTermQuery("owner.keyword", owner)

	result, err := search(r.elastic.GetClient().
		Search(elastic_search.NftIndex.Get()).
		Query(query).
		Sort("tokenId", true).
		Size(size).
		From((page - 1) * size))

	return r.findMany(result, err)
}

func (r nftRepository) GetNftsByRarity(rarity string, size, page int) ([]entity.Nft, int64, error) {
	query := elastic.NewTermQuery("rarity.keyword", rarity)

	result, err := search(r.elastic.GetClient().
		Search(elastic_search.NftIndex.Get()).
		Query(query).
		Sort("tokenId", true).
		Size(size).
		From((page - 1) * size))

	return r.findMany(result, err)
}

func (r nftRepository) findOne(results *elastic.SearchResult, err error) (*entity.Nft, error) {
	if err != nil {
		return nil, err
	}

	if len(results.Hits.Hits) == 0 {
		return nil, ErrNftNotFound
	}

	var nft entity.Nft
	hit := results.Hits.Hits[0]
	if err := json.Unmarshal(hit.Source, &nft); err != nil {
		return nil, err
	}

	return &nft, nil
}

func (r nftRepository) findMany(results *elastic.SearchResult, err error) ([]entity.Nft, int64, error) {
	nfts := make([]entity.Nft, 0)

	if err != nil {
		return nfts, 0, err
	}

	for _, hit := range results.Hits.Hits {
		var nft entity.Nft
		if err := json.Unmarshal(hit.Source, &nft); err == nil {
			nfts = append(nfts, nft)
		}
	}

	return nfts, results.TotalHits(), nil
}
