package mint

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ZilDuck/nft-market-ledger/internal/ownership"
	"github.com/ZilDuck/nft-market-ledger/internal/randomness"
	"github.com/stretchr/testify/assert"
)

type stubOracle struct {
	requests int
	err      error
	lastId   string
}

func (o *stubOracle) RequestRandomWords(cfg randomness.RequestConfig) (string, error) {
	if o.err != nil {
		return "", o.err
	}

	o.requests++
	o.lastId = fmt.Sprintf("request-%d", o.requests)

	return o.lastId, nil
}

type failingAssets struct{}

func (a failingAssets) OwnerOf(contract string, tokenId uint64) (string, error) {
	return "", ownership.ErrAssetNotFound
}
func (a failingAssets) IsApproved(contract string, tokenId uint64) (bool, error) {
	return false, ownership.ErrAssetNotFound
}
func (a failingAssets) Transfer(contract string, tokenId uint64, from, to string) error {
	return errors.New("transfer rejected")
}
func (a failingAssets) Mint(contract string, tokenId uint64, owner string) error {
	return errors.New("mint rejected")
}
func (a failingAssets) Approve(contract string, tokenId uint64) error {
	return errors.New("approve rejected")
}

func newTestEngine(oracle randomness.Oracle, assets ownership.Service) Engine {
	return NewEngine(DefaultTable(), oracle, assets, Config{
		Collection:   "0xcollection",
		Fee:          big.NewInt(100),
		TokenUriBase: "ipfs://QmTestBase/",
	})
}

func TestRequestMint_FreeQuota(t *testing.T) {
	oracle := &stubOracle{}
	engine := newTestEngine(oracle, ownership.NewRegistry())

	for i := 0; i < 3; i++ {
		_, err := engine.RequestMint("0xalice", true, nil)
		assert.NoError(t, err)
	}
	assert.Equal(t, 3, engine.FreeMintsUsed("0xalice"))

	_, err := engine.RequestMint("0xalice", true, nil)
	assert.Equal(t, ErrNoMoreFreeMints, err)
	assert.Equal(t, 3, engine.FreeMintsUsed("0xalice"))
	assert.Equal(t, 3, oracle.requests)

	// the quota is per caller
	_, err = engine.RequestMint("0xbob", true, nil)
	assert.NoError(t, err)
}

func TestRequestMint_FeeGuard(t *testing.T) {
	oracle := &stubOracle{}
	engine := newTestEngine(oracle, ownership.NewRegistry())

	_, err := engine.RequestMint("0xalice", false, nil)
	assert.Equal(t, ErrMintFeeNotMet, err)

	_, err = engine.RequestMint("0xalice", false, big.NewInt(99))
	assert.Equal(t, ErrMintFeeNotMet, err)
	assert.Equal(t, 0, oracle.requests)

	_, err = engine.RequestMint("0xalice", false, big.NewInt(100))
	assert.NoError(t, err)

	_, err = engine.RequestMint("0xalice", false, big.NewInt(150))
	assert.NoError(t, err)
	assert.Equal(t, 2, oracle.requests)
}

func TestRequestMint_OracleFailureRestoresQuota(t *testing.T) {
	oracle := &stubOracle{err: errors.New("queue unavailable")}
	engine := newTestEngine(oracle, ownership.NewRegistry())

	_, err := engine.RequestMint("0xalice", true, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, engine.FreeMintsUsed("0xalice"))
}

func TestResolveMint(t *testing.T) {
	oracle := &stubOracle{}
	registry := ownership.NewRegistry()
	engine := newTestEngine(oracle, registry)

	requestId, err := engine.RequestMint("0xalice", true, nil)
	assert.NoError(t, err)

	request, ok := engine.PendingRequest(requestId)
	assert.True(t, ok)
	assert.Equal(t, "0xalice", request.Requester)
	assert.True(t, request.Free)

	nft, err := engine.ResolveMint(requestId, []*big.Int{big.NewInt(4)})
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), nft.TokenId)
	assert.Equal(t, "0xalice", nft.Owner)
	assert.Equal(t, "Legendary", nft.Rarity)
	assert.Equal(t, "Aurelia the Eternal", nft.Character)
	assert.Equal(t, "ipfs://QmTestBase/aurelia-the-eternal.json", nft.TokenUri)
	assert.Equal(t, requestId, nft.RequestId)

	owner, err := registry.OwnerOf("0xcollection", 1)
	assert.NoError(t, err)
	assert.Equal(t, "0xalice", owner)

	_, ok = engine.PendingRequest(requestId)
	assert.False(t, ok)
}

func TestResolveMint_DuplicateFulfilment(t *testing.T) {
	oracle := &stubOracle{}
	engine := newTestEngine(oracle, ownership.NewRegistry())

	requestId, _ := engine.RequestMint("0xalice", true, nil)

	_, err := engine.ResolveMint(requestId, []*big.Int{big.NewInt(42)})
	assert.NoError(t, err)

	_, err = engine.ResolveMint(requestId, []*big.Int{big.NewInt(42)})
	assert.Equal(t, ErrUnknownRequest, err)
}

func TestResolveMint_UnknownRequest(t *testing.T) {
	engine := newTestEngine(&stubOracle{}, ownership.NewRegistry())

	_, err := engine.ResolveMint("no-such-request", []*big.Int{big.NewInt(1)})
	assert.Equal(t, ErrUnknownRequest, err)
}

func TestResolveMint_NoWords(t *testing.T) {
	engine := newTestEngine(&stubOracle{}, ownership.NewRegistry())

	_, err := engine.ResolveMint("request-1", nil)
	assert.Equal(t, ErrNoRandomWords, err)

	_, err = engine.ResolveMint("request-1", []*big.Int{nil})
	assert.Equal(t, ErrNoRandomWords, err)
}

func TestResolveMint_SequentialTokenIds(t *testing.T) {
	oracle := &stubOracle{}
	engine := newTestEngine(oracle, ownership.NewRegistry())

	first, _ := engine.RequestMint("0xalice", true, nil)
	second, _ := engine.RequestMint("0xbob", true, nil)

	nft, err := engine.ResolveMint(first, []*big.Int{big.NewInt(7)})
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), nft.TokenId)

	nft, err = engine.ResolveMint(second, []*big.Int{big.NewInt(7)})
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), nft.TokenId)
}

func TestResolveMint_RegistryFailureRestoresRequest(t *testing.T) {
	oracle := &stubOracle{}
	engine := newTestEngine(oracle, failingAssets{})

	requestId, err := engine.RequestMint("0xalice", true, nil)
	assert.NoError(t, err)

	_, err = engine.ResolveMint(requestId, []*big.Int{big.NewInt(42)})
	assert.Error(t, err)

	// the request survives a failed mint so a retried fulfilment can land
	_, ok := engine.PendingRequest(requestId)
	assert.True(t, ok)
}

type flakyAssets struct {
	*ownership.Registry
	failures int
}

func (a *flakyAssets) Mint(contract string, tokenId uint64, owner string) error {
	if a.failures > 0 {
		a.failures--
		return errors.New("mint rejected")
	}

	return a.Registry.Mint(contract, tokenId, owner)
}

func TestResolveMint_RetriedFulfilmentKeepsTokenId(t *testing.T) {
	oracle := &stubOracle{}
	engine := newTestEngine(oracle, &flakyAssets{Registry: ownership.NewRegistry(), failures: 1})

	requestId, _ := engine.RequestMint("0xalice", true, nil)

	_, err := engine.ResolveMint(requestId, []*big.Int{big.NewInt(42)})
	assert.Error(t, err)

	// the failed attempt did not burn the id
	nft, err := engine.ResolveMint(requestId, []*big.Int{big.NewInt(42)})
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), nft.TokenId)
}
