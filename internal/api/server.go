package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ZilDuck/nft-market-ledger/internal/marketplace"
	"github.com/ZilDuck/nft-market-ledger/internal/mint"
	"github.com/ZilDuck/nft-market-ledger/internal/ownership"
	"github.com/ZilDuck/nft-market-ledger/internal/repository"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	ledger     marketplace.Ledger
	mintEngine mint.Engine
	assets     ownership.Service
	nftRepo    repository.NftRepository
	actionRepo repository.MarketActionRepository
}

func NewServer(
	ledger marketplace.Ledger,
	mintEngine mint.Engine,
	assets ownership.Service,
	nftRepo repository.NftRepository,
	actionRepo repository.MarketActionRepository,
) Server {
	return Server{ledger, mintEngine, assets, nftRepo, actionRepo}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHomepage).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/listings/{contract}/{tokenId}", s.handleGetListing).Methods("GET")
	r.HandleFunc("/listings", s.handleList).Methods("POST")
	r.HandleFunc("/listings/{contract}/{tokenId}", s.handleUpdatePrice).Methods("PUT")
	r.HandleFunc("/listings/{contract}/{tokenId}", s.handleCancel).Methods("DELETE")
	r.HandleFunc("/listings/{contract}/{tokenId}/buy", s.handleBuy).Methods("POST")

	r.HandleFunc("/proceeds/{address}", s.handleGetProceeds).Methods("GET")
	r.HandleFunc("/withdrawals", s.handleWithdraw).Methods("POST")

	r.HandleFunc("/mints", s.handleRequestMint).Methods("POST")

	r.HandleFunc("/assets", s.handleRegisterAsset).Methods("POST")
	r.HandleFunc("/assets/{contract}/{tokenId}/approve", s.handleApproveAsset).Methods("POST")

	r.HandleFunc("/nfts/{contract}/{tokenId}", s.handleGetNft).Methods("GET")
	r.HandleFunc("/actions", s.handleGetActions).Methods("GET")
	r.HandleFunc("/actions/{contract}/{tokenId}", s.handleGetAssetActions).Methods("GET")

	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintf(w, "NFT Market Ledger")
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

type listRequest struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Price    string `json:"price"`
	Caller   string `json:"caller"`
}

func (s Server) handleList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	price, ok := new(big.Int).SetString(req.Price, 10)
	if !ok {
		http.Error(w, "Invalid price", http.StatusBadRequest)
		return
	}

	if err := s.ledger.List(req.Contract, req.TokenId, price, req.Caller); err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type priceRequest struct {
	Price  string `json:"price"`
	Caller string `json:"caller"`
}

func (s Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	contract, tokenId, err := getAssetVars(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	price, ok := new(big.Int).SetString(req.Price, 10)
	if !ok {
		http.Error(w, "Invalid price", http.StatusBadRequest)
		return
	}

	if err := s.ledger.UpdatePrice(contract, tokenId, req.Caller, price); err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type callerRequest struct {
	Caller string `json:"caller"`
}

func (s Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	contract, tokenId, err := getAssetVars(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	var req callerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.ledger.Cancel(contract, tokenId, req.Caller); err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type buyRequest struct {
	Caller  string `json:"caller"`
	Payment string `json:"payment"`
}

func (s Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	contract, tokenId, err := getAssetVars(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, ok := new(big.Int).SetString(req.Payment, 10)
	if !ok {
		http.Error(w, "Invalid payment", http.StatusBadRequest)
		return
	}

	if err := s.ledger.Buy(contract, tokenId, req.Caller, payment); err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	contract, tokenId, err := getAssetVars(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	listing, ok := s.ledger.GetListing(contract, tokenId)
	if !ok {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}

	writeJson(w, listing)
}

func (s Server) handleGetProceeds(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	writeJson(w, map[string]string{
		"address":  address,
		"proceeds": s.ledger.GetProceeds(address).String(),
	})
}

func (s Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	amount, err := s.ledger.Withdraw(req.Caller)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJson(w, map[string]string{
		"seller": req.Caller,
		"amount": amount.String(),
	})
}

type mintRequest struct {
	Caller  string `json:"caller"`
	Free    bool   `json:"free"`
	Payment string `json:"payment"`
}

func (s Server) handleRequestMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment := big.NewInt(0)
	if req.Payment != "" {
		var ok bool
		payment, ok = new(big.Int).SetString(req.Payment, 10)
		if !ok {
			http.Error(w, "Invalid payment", http.StatusBadRequest)
			return
		}
	}

	requestId, err := s.mintEngine.RequestMint(req.Caller, req.Free, payment)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	writeJson(w, map[string]string{"requestId": requestId})
}

type registerAssetRequest struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Owner    string `json:"owner"`
}

func (s Server) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	var req registerAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.assets.Mint(req.Contract, req.TokenId, req.Owner); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s Server) handleApproveAsset(w http.ResponseWriter, r *http.Request) {
	contract, tokenId, err := getAssetVars(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	if err := s.assets.Approve(contract, tokenId); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s Server) handleGetNft(w http.ResponseWriter, r *http.Request) {
	contract, tokenId, err := getAssetVars(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	nft, err := s.nftRepo.GetNft(contract, tokenId)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("NFT not available")
		http.Error(w, "NFT not available", http.StatusNotFound)
		return
	}

	writeJson(w, nft)
}

func (s Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	size, page := getPagination(r)

	actions, total, err := s.actionRepo.GetActions(size, page)
	if err != nil {
		http.Error(w, "Failed to get actions", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"total": total, "actions": actions})
}

func (s Server) handleGetAssetActions(w http.ResponseWriter, r *http.Request) {
	contract, tokenId, err := getAssetVars(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	size, page := getPagination(r)

	actions, total, err := s.actionRepo.GetActionsForAsset(contract, tokenId, size, page)
	if err != nil {
		http.Error(w, "Failed to get actions", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"total": total, "actions": actions})
}

func getAssetVars(r *http.Request) (string, uint64, error) {
	contract := mux.Vars(r)["contract"]
	tokenId, err := strconv.ParseUint(mux.Vars(r)["tokenId"], 10, 64)

	return contract, tokenId, err
}

func getPagination(r *http.Request) (int, int) {
	size := 25
	if val, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && val > 0 {
		size = val
	}

	page := 1
	if val, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && val > 0 {
		page = val
	}

	return size, page
}

func writeJson(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to write response")
	}
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketplace.ErrNotListed):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, marketplace.ErrAlreadyListed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, marketplace.ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, marketplace.ErrPriceMustBeAboveZero),
		errors.Is(err, marketplace.ErrPriceNotMet),
		errors.Is(err, marketplace.ErrNotApprovedForMarketplace),
		errors.Is(err, marketplace.ErrNoProceeds),
		errors.Is(err, mint.ErrMintFeeNotMet),
		errors.Is(err, mint.ErrNoMoreFreeMints):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ownership.ErrAssetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})
}
