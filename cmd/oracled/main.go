package main

import (
	"crypto/rand"
	"encoding/json"
	"math/big"

	"github.com/ZilDuck/nft-market-ledger/generated/dic"
	"github.com/ZilDuck/nft-market-ledger/internal/config"
	"github.com/ZilDuck/nft-market-ledger/internal/messenger"
	"github.com/ZilDuck/nft-market-ledger/internal/randomness"
	"github.com/aws/aws-sdk-go/service/sqs"
	"go.uber.org/zap"
)

// wordBound caps drawn words at 2^256, matching the width of an on-chain VRF word.
var wordBound = new(big.Int).Lsh(big.NewInt(1), 256)

func main() {
	config.Init("oracled")

	container, _ := dic.NewContainer()
	messageService := container.GetMessenger()

	zap.L().Info("Oracle started")

	messages := make(chan *sqs.Message, 10)
	go messageService.PollMessages(messenger.RandomnessRequest, messages)

	for message := range messages {
		var request randomness.Request
		if err := json.Unmarshal([]byte(*message.Body), &request); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to read request")
			continue
		}

		fulfilment, err := fulfil(request)
		if err != nil {
			zap.L().With(zap.String("requestId", request.RequestId), zap.Error(err)).Error("Failed to draw words")
			continue
		}

		body, err := json.Marshal(fulfilment)
		if err != nil {
			zap.L().With(zap.String("requestId", request.RequestId), zap.Error(err)).Error("Failed to encode fulfilment")
			continue
		}

		if err := messageService.SendMessage(messenger.RandomnessFulfilled, body); err != nil {
			zap.L().With(zap.String("requestId", request.RequestId), zap.Error(err)).Error("Failed to publish fulfilment")
			continue
		}

		zap.L().With(
			zap.String("requestId", request.RequestId),
			zap.Int("words", len(fulfilment.Words)),
		).Info("Fulfilled randomness request")

		if err := messageService.DeleteMessage(messenger.RandomnessRequest, message); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to delete message")
		}
	}
}

func fulfil(request randomness.Request) (randomness.Fulfilment, error) {
	wordCount := request.Config.WordCount
	if wordCount == 0 {
		wordCount = 1
	}

	words := make([]string, 0, wordCount)
	for i := uint64(0); i < wordCount; i++ {
		word, err := rand.Int(rand.Reader, wordBound)
		if err != nil {
			return randomness.Fulfilment{}, err
		}
		words = append(words, word.String())
	}

	return randomness.Fulfilment{RequestId: request.RequestId, Words: words}, nil
}
