package indexer

import (
	"github.com/ZilDuck/nft-market-ledger/internal/dev"
	"github.com/ZilDuck/nft-market-ledger/internal/elastic_search"
	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/ZilDuck/nft-market-ledger/internal/factory"
	"go.uber.org/zap"
)

// MarketIndexer turns ledger notifications into audit-log documents. Each
// handler is registered as an event listener by the daemon.
type MarketIndexer interface {
	IndexListed(msg interface{})
	IndexBought(msg interface{})
	IndexCanceled(msg interface{})
	IndexWithdrawn(msg interface{})
}

type marketIndexer struct {
	elastic elastic_search.Index
}

func NewMarketIndexer(elastic elastic_search.Index) MarketIndexer {
	return marketIndexer{elastic}
}

func (i marketIndexer) IndexListed(msg interface{}) {
	listing, ok := msg.(entity.Listing)
	if !ok {
		i.badPayload("IndexListed", msg)
		return
	}

	zap.L().With(
		zap.String("contract", listing.Contract),
		zap.Uint64("tokenId", listing.TokenId),
	).Debug("MarketIndexer: Index listing")

	// a price update re-announces as Listed; an already-buffered doc becomes
	// an update instead of a second create
	if i.elastic.HasRequest(listing) {
		i.elastic.AddUpdateRequest(elastic_search.ListingIndex.Get(), listing, elastic_search.ListingUpdate)
	} else {
		i.elastic.AddIndexRequest(elastic_search.ListingIndex.Get(), listing, elastic_search.ListingCreate)
	}
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateListedAction(listing), elastic_search.MarketAction)
	i.elastic.Persist()
}

func (i marketIndexer) IndexBought(msg interface{}) {
	sale, ok := msg.(entity.Sale)
	if !ok {
		i.badPayload("IndexBought", msg)
		return
	}

	zap.L().With(
		zap.String("contract", sale.Contract),
		zap.Uint64("tokenId", sale.TokenId),
		zap.String("buyer", sale.Buyer),
	).Debug("MarketIndexer: Index sale")

	i.elastic.DeleteById(elastic_search.ListingIndex.Get(), entity.CreateListingSlug(sale.Contract, sale.TokenId))
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateBoughtAction(sale), elastic_search.MarketSale)
	i.elastic.Persist()
}

func (i marketIndexer) IndexCanceled(msg interface{}) {
	listing, ok := msg.(entity.Listing)
	if !ok {
		i.badPayload("IndexCanceled", msg)
		return
	}

	zap.L().With(
		zap.String("contract", listing.Contract),
		zap.Uint64("tokenId", listing.TokenId),
	).Debug("MarketIndexer: Index delisting")

	i.elastic.DeleteById(elastic_search.ListingIndex.Get(), listing.Slug())
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateCanceledAction(listing), elastic_search.MarketDelist)
	i.elastic.Persist()
}

func (i marketIndexer) IndexWithdrawn(msg interface{}) {
	withdrawal, ok := msg.(entity.Withdrawal)
	if !ok {
		i.badPayload("IndexWithdrawn", msg)
		return
	}

	zap.L().With(
		zap.String("seller", withdrawal.Seller),
		zap.String("amount", withdrawal.Amount.String()),
	).Debug("MarketIndexer: Index withdrawal")

	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateWithdrawnAction(withdrawal), elastic_search.ProceedsWithdraw)
	i.elastic.Persist()
}

func (i marketIndexer) badPayload(name string, msg interface{}) {
	zap.L().With(zap.String("handler", name)).Error("MarketIndexer: Unexpected event payload")
	i.elastic.Save(elastic_search.DevErrorIndex.Get(), dev.NewError("marketIndexer", name, errUnexpectedPayload, map[string]interface{}{"payload": msg}))
}
