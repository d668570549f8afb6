package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ZilDuck/nft-market-ledger/generated/dic"
	"github.com/ZilDuck/nft-market-ledger/internal/config"
	"github.com/ZilDuck/nft-market-ledger/internal/event"
	"github.com/ZilDuck/nft-market-ledger/internal/messenger"
	"github.com/ZilDuck/nft-market-ledger/internal/mint"
	"github.com/ZilDuck/nft-market-ledger/internal/randomness"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var container *dic.Container

func main() {
	config.Init("ledgerd")
	container, _ = dic.NewContainer()

	container.GetElastic().InstallMappings()

	marketIndexer := container.GetMarketIndexer()
	mintIndexer := container.GetMintIndexer()

	event.AddEventListener(event.ListedEvent, marketIndexer.IndexListed)
	event.AddEventListener(event.BoughtEvent, marketIndexer.IndexBought)
	event.AddEventListener(event.CanceledEvent, marketIndexer.IndexCanceled)
	event.AddEventListener(event.WithdrawnEvent, marketIndexer.IndexWithdrawn)
	event.AddEventListener(event.NftRequestedEvent, mintIndexer.IndexRequested)
	event.AddEventListener(event.NftMintedEvent, mintIndexer.IndexMinted)

	go health()
	go pollFulfilments()
	go pollMetadataRefresh()

	zap.L().With(zap.String("port", config.Get().ApiPort)).Info("Ledger started")

	if err := http.ListenAndServe(":"+config.Get().ApiPort, container.GetApiServer().Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start api")
	}
}

func pollFulfilments() {
	zap.L().Info("Subscribing to randomness fulfilments")

	messageService := container.GetMessenger()
	mintEngine := container.GetMintEngine()
	elastic := container.GetElastic()

	messages := make(chan *sqs.Message, 10)
	go messageService.PollMessages(messenger.RandomnessFulfilled, messages)

	for message := range messages {
		var fulfilment randomness.Fulfilment
		if err := json.Unmarshal([]byte(*message.Body), &fulfilment); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to read fulfilment")
			continue
		}

		words := make([]*big.Int, 0, len(fulfilment.Words))
		for _, word := range fulfilment.Words {
			value, ok := new(big.Int).SetString(word, 10)
			if !ok {
				zap.L().With(zap.String("requestId", fulfilment.RequestId), zap.String("word", word)).Error("Bad random word")
				continue
			}
			words = append(words, value)
		}

		nft, err := mintEngine.ResolveMint(fulfilment.RequestId, words)
		if err != nil {
			if err == mint.ErrUnknownRequest {
				zap.L().With(zap.String("requestId", fulfilment.RequestId)).Warn("Fulfilment for unknown request")
			} else {
				zap.L().With(zap.String("requestId", fulfilment.RequestId), zap.Error(err)).Error("Failed to resolve mint")
				continue
			}
		} else {
			zap.L().With(
				zap.String("requestId", fulfilment.RequestId),
				zap.Uint64("tokenId", nft.TokenId),
				zap.String("rarity", string(nft.Rarity)),
			).Info("Mint resolved")
		}

		if err := messageService.DeleteMessage(messenger.RandomnessFulfilled, message); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to delete message")
		}
		elastic.Persist()
	}
}

func pollMetadataRefresh() {
	zap.L().Info("Subscribing to metadata refresh")

	messageService := container.GetMessenger()
	mintIndexer := container.GetMintIndexer()
	elastic := container.GetElastic()

	messages := make(chan *sqs.Message, 10)
	go messageService.PollMessages(messenger.MetadataRefresh, messages)

	for message := range messages {
		var data messenger.Nft
		if err := json.Unmarshal([]byte(*message.Body), &data); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to read message")
			continue
		}
		zap.L().With(zap.String("contract", data.Contract), zap.Uint64("tokenId", data.TokenId)).Info("Metadata refresh")

		if err := mintIndexer.RefreshMetadata(data.Contract, data.TokenId); err != nil {
			zap.L().With(zap.String("contract", data.Contract), zap.Uint64("tokenId", data.TokenId), zap.Error(err)).Error("Metadata refresh failed")
		}
		if err := messageService.DeleteMessage(messenger.MetadataRefresh, message); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to delete message")
		}

		// bulk flush under a requeue burst, immediate flush once the queue drains
		if !elastic.BatchPersist() && len(messages) == 0 {
			elastic.Persist()
		}
	}
}

func health() {
	if err := http.ListenAndServe(":"+config.Get().HealthPort, healthRouter()); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start health check")
	}
}

func healthRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	return r
}
