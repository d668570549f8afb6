package mint

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/ZilDuck/nft-market-ledger/internal/event"
	"github.com/ZilDuck/nft-market-ledger/internal/ownership"
	"github.com/ZilDuck/nft-market-ledger/internal/randomness"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const freeMintCap = 3

type Engine interface {
	RequestMint(caller string, free bool, paymentAmount *big.Int) (string, error)
	ResolveMint(requestId string, words []*big.Int) (*entity.Nft, error)
	FreeMintsUsed(caller string) int
	PendingRequest(requestId string) (entity.MintRequest, bool)
}

type Config struct {
	Collection   string
	Fee          *big.Int
	TokenUriBase string
	Request      randomness.RequestConfig
}

// engine owns the free-mint quota, the pending request map and the token id
// counter. Minting is split across two entry points: RequestMint records a
// pending request and fires the oracle; ResolveMint is the oracle callback
// and does the actual mint. The two share nothing but the pending map.
type engine struct {
	mu        sync.Mutex
	table     *Table
	oracle    randomness.Oracle
	assets    ownership.Service
	cfg       Config
	freeMints map[string]int
	pending   map[string]entity.MintRequest
	nextToken uint64
}

func NewEngine(table *Table, oracle randomness.Oracle, assets ownership.Service, cfg Config) Engine {
	return &engine{
		table:     table,
		oracle:    oracle,
		assets:    assets,
		cfg:       cfg,
		freeMints: make(map[string]int),
		pending:   make(map[string]entity.MintRequest),
	}
}

func (e *engine) RequestMint(caller string, free bool, paymentAmount *big.Int) (string, error) {
	e.mu.Lock()
	if free {
		if e.freeMints[caller] >= freeMintCap {
			e.mu.Unlock()
			return "", ErrNoMoreFreeMints
		}
		e.freeMints[caller]++
	} else if paymentAmount == nil || paymentAmount.Cmp(e.cfg.Fee) < 0 {
		e.mu.Unlock()
		return "", ErrMintFeeNotMet
	}
	e.mu.Unlock()

	requestId, err := e.oracle.RequestRandomWords(e.cfg.Request)
	if err != nil {
		zap.L().With(zap.String("caller", caller), zap.Error(err)).Error("Mint: randomness request failed")
		if free {
			e.mu.Lock()
			e.freeMints[caller]--
			e.mu.Unlock()
		}
		return "", err
	}

	request := entity.MintRequest{RequestId: requestId, Requester: caller, Free: free}

	e.mu.Lock()
	e.pending[requestId] = request
	e.mu.Unlock()

	zap.L().With(
		zap.String("requestId", requestId),
		zap.String("requester", caller),
		zap.Bool("free", free),
	).Info("Mint requested")

	event.EmitEvent(event.NftRequestedEvent, request)

	return requestId, nil
}

func (e *engine) ResolveMint(requestId string, words []*big.Int) (*entity.Nft, error) {
	if len(words) == 0 || words[0] == nil {
		return nil, ErrNoRandomWords
	}

	e.mu.Lock()
	request, ok := e.pending[requestId]
	if !ok {
		e.mu.Unlock()
		return nil, ErrUnknownRequest
	}

	rarity, character, err := e.table.Assign(words[0])
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	// consume the request before anything external; a duplicate callback
	// for the same id must never mint twice
	delete(e.pending, requestId)
	e.nextToken++
	tokenId := e.nextToken
	e.mu.Unlock()

	nft := entity.Nft{
		Contract:  e.cfg.Collection,
		TokenId:   tokenId,
		Owner:     request.Requester,
		TokenUri:  e.tokenUri(character),
		Rarity:    string(rarity),
		Character: character,
		RequestId: requestId,
	}

	if err := e.assets.Mint(nft.Contract, nft.TokenId, nft.Owner); err != nil {
		zap.L().With(zap.String("requestId", requestId), zap.Error(err)).Error("Mint: registry mint failed")
		e.mu.Lock()
		e.pending[requestId] = request
		// reclaim the id so a retried fulfilment does not leave a gap, but
		// only while no later mint has taken one
		if e.nextToken == tokenId {
			e.nextToken--
		}
		e.mu.Unlock()
		return nil, err
	}

	zap.L().With(
		zap.String("requestId", requestId),
		zap.String("requester", request.Requester),
		zap.Uint64("tokenId", tokenId),
		zap.String("rarity", string(rarity)),
		zap.String("character", character),
	).Info("Mint resolved")

	event.EmitEvent(event.NftMintedEvent, nft)

	return &nft, nil
}

func (e *engine) FreeMintsUsed(caller string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.freeMints[caller]
}

func (e *engine) PendingRequest(requestId string) (entity.MintRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	request, ok := e.pending[requestId]

	return request, ok
}

func (e *engine) tokenUri(character string) string {
	return fmt.Sprintf("%s%s.json", e.cfg.TokenUriBase, slug.Make(character))
}
