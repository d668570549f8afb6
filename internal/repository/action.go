package repository

import (
	"encoding/json"

	"github.com/ZilDuck/nft-market-ledger/internal/elastic_search"
	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/olivere/elastic/v7"
)

type MarketActionRepository interface {
	GetActions(size, page int) ([]entity.MarketAction, int64, error)
	GetActionsForAsset(contract string, tokenId uint64, size, page int) ([]entity.MarketAction, int64, error)
}

type marketActionRepository struct {
	elastic elastic_search.Index
}

func NewMarketActionRepository(elastic elastic_search.Index) MarketActionRepository {
	return marketActionRepository{elastic}
}

func (r marketActionRepository) GetActions(size, page int) ([]entity.MarketAction, int64, error) {
	result, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketActionIndex.Get()).
		Query(elastic.NewMatchAllQuery()).
		Sort("time", false).
		Size(size).
		From((page - 1) * size))

	return r.findMany(result, err)
}

func (r marketActionRepository) GetActionsForAsset(contract string, tokenId uint64, size, page int) ([]entity.MarketAction, int64, error) {
	query := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("contract.keyword", contract),
		elastic.NewTermQuery("tokenId", tokenId),
	)

	result, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketActionIndex.Get()).
		Query(query).
		Sort("time", false).
		Size(size).
		From((page - 1) * size))

	return r.findMany(result, err)
}

func (r marketActionRepository) findMany(results *elastic.SearchResult, err error) ([]entity.MarketAction, int64, error) {
	actions := make([]entity.MarketAction, 0)

	if err != nil {
		return actions, 0, err
	}

	for _, hit := range results.Hits.Hits {
		var action entity.MarketAction
		if err := json.Unmarshal(hit.Source, &action); err == nil {
			actions = append(actions, action)
		}
	}

	return actions, results.TotalHits(), nil
}
