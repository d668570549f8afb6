package randomness

import (
	"encoding/json"

	"github.com/ZilDuck/nft-market-ledger/internal/messenger"
	"github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
)

// RequestConfig is fixed at construction and sent with every request.
type RequestConfig struct {
	GasLane           string `json:"gasLane"`
	SubscriptionId    uint64 `json:"subscriptionId"`
	ConfirmationDepth uint64 `json:"confirmationDepth"`
	CallbackGasBudget uint64 `json:"callbackGasBudget"`
	WordCount         uint64 `json:"wordCount"`
}

// Oracle accepts a randomness request and returns an opaque request token.
// Fulfilment arrives later, out of band; there is no way to wait on it.
type Oracle interface {
	RequestRandomWords(cfg RequestConfig) (string, error)
}

// Request is the message published towards the oracle.
type Request struct {
	RequestId string        `json:"requestId"`
	Config    RequestConfig `json:"config"`
}

// Fulfilment carries the random words back. Words are decimal strings so a
// full 256-bit range survives JSON.
type Fulfilment struct {
	RequestId string   `json:"requestId"`
	Words     []string `json:"words"`
}

type queueOracle struct {
	messageService messenger.MessageService
}

// NewQueueOracle returns an Oracle that publishes requests on the
// randomness request queue. Whatever consumes that queue plays the VRF.
func NewQueueOracle(messageService messenger.MessageService) Oracle {
	return queueOracle{messageService}
}

func (o queueOracle) RequestRandomWords(cfg RequestConfig) (string, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	requestId := u.String()

	body, err := json.Marshal(Request{RequestId: requestId, Config: cfg})
	if err != nil {
		return "", err
	}

	if err := o.messageService.SendMessage(messenger.RandomnessRequest, body); err != nil {
		return "", err
	}

	zap.L().With(
		zap.String("requestId", requestId),
		zap.Uint64("wordCount", cfg.WordCount),
	).Debug("Randomness: Requested words")

	return requestId, nil
}
