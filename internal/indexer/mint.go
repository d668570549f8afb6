package indexer

import (
	"encoding/json"
	"errors"

	"github.com/ZilDuck/nft-market-ledger/internal/dev"
	"github.com/ZilDuck/nft-market-ledger/internal/elastic_search"
	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/ZilDuck/nft-market-ledger/internal/factory"
	"github.com/ZilDuck/nft-market-ledger/internal/messenger"
	"github.com/ZilDuck/nft-market-ledger/internal/metadata"
	"github.com/ZilDuck/nft-market-ledger/internal/repository"
	"go.uber.org/zap"
)

var errUnexpectedPayload = errors.New("unexpected event payload")

type MintIndexer interface {
	IndexRequested(msg interface{})
	IndexMinted(msg interface{})
	RefreshMetadata(contract string, tokenId uint64) error
}

type mintIndexer struct {
	elastic         elastic_search.Index
	nftRepo         repository.NftRepository
	metadataService metadata.Service
	messageService  messenger.MessageService
}

func NewMintIndexer(
	elastic elastic_search.Index,
	nftRepo repository.NftRepository,
	metadataService metadata.Service,
	messageService messenger.MessageService,
) MintIndexer {
	return mintIndexer{elastic, nftRepo, metadataService, messageService}
}

func (i mintIndexer) IndexRequested(msg interface{}) {
	request, ok := msg.(entity.MintRequest)
	if !ok {
		i.badPayload("IndexRequested", msg)
		return
	}

	zap.L().With(
		zap.String("requestId", request.RequestId),
		zap.String("requester", request.Requester),
	).Debug("MintIndexer: Index mint request")

	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateRequestedAction(request), elastic_search.MarketAction)
	i.elastic.Persist()
}

func (i mintIndexer) IndexMinted(msg interface{}) {
	nft, ok := msg.(entity.Nft)
	if !ok {
		i.badPayload("IndexMinted", msg)
		return
	}

	zap.L().With(
		zap.String("contract", nft.Contract),
		zap.Uint64("tokenId", nft.TokenId),
		zap.String("rarity", nft.Rarity),
	).Debug("MintIndexer: Index mint")

	i.elastic.AddIndexRequest(elastic_search.NftIndex.Get(), nft, elastic_search.NftMint)
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateMintedAction(nft), elastic_search.MarketAction)
	i.elastic.Persist()

	i.triggerMetadataRefresh(nft)
}

// RefreshMetadata fetches the token metadata for an indexed NFT and stores
// the outcome, success or failure, on the document.
func (i mintIndexer) RefreshMetadata(contract string, tokenId uint64) error {
	nft, err := i.nftRepo.GetNft(contract, tokenId)
	if err != nil {
		return err
	}

	md, err := i.metadataService.GetMetadata(*nft)
	if err != nil {
		nft.HasMetadata = false
		nft.MetadataError = err.Error()
	} else {
		nft.HasMetadata = true
		nft.MetadataError = ""
		nft.Metadata = md
	}

	i.elastic.AddUpdateRequest(elastic_search.NftIndex.Get(), *nft, elastic_search.NftMetadata)

	return nil
}

func (i mintIndexer) triggerMetadataRefresh(nft entity.Nft) {
	body, err := json.Marshal(messenger.Nft{Contract: nft.Contract, TokenId: nft.TokenId})
	if err != nil {
		return
	}

	if err := i.messageService.SendMessage(messenger.MetadataRefresh, body); err != nil {
		zap.L().With(zap.Error(err)).Error("MintIndexer: Failed to queue metadata refresh")
	}
}

func (i mintIndexer) badPayload(name string, msg interface{}) {
	zap.L().With(zap.String("handler", name)).Error("MintIndexer: Unexpected event payload")
	i.elastic.Save(elastic_search.DevErrorIndex.Get(), dev.NewError("mintIndexer", name, errUnexpectedPayload, map[string]interface{}{"payload": msg}))
}
