package factory

import (
	"time"

	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/nu7hatch/gouuid"
)

func CreateListedAction(listing entity.Listing) entity.MarketAction {
	return entity.MarketAction{
		Id:       actionId(),
		Contract: listing.Contract,
		TokenId:  listing.TokenId,
		Action:   entity.ListedAction,
		From:     listing.Seller,
		Cost:     listing.Price.String(),
		Time:     time.Now(),
	}
}

func CreateBoughtAction(sale entity.Sale) entity.MarketAction {
	return entity.MarketAction{
		Id:       actionId(),
		Contract: sale.Contract,
		TokenId:  sale.TokenId,
		Action:   entity.BoughtAction,
		From:     sale.Seller,
		To:       sale.Buyer,
		Cost:     sale.Cost.String(),
		Time:     time.Now(),
	}
}

func CreateCanceledAction(listing entity.Listing) entity.MarketAction {
	return entity.MarketAction{
		Id:       actionId(),
		Contract: listing.Contract,
		TokenId:  listing.TokenId,
		Action:   entity.CanceledAction,
		From:     listing.Seller,
		Time:     time.Now(),
	}
}

func CreateWithdrawnAction(withdrawal entity.Withdrawal) entity.MarketAction {
	return entity.MarketAction{
		Id:     actionId(),
		Action: entity.WithdrawnAction,
		To:     withdrawal.Seller,
		Cost:   withdrawal.Amount.String(),
		Time:   time.Now(),
	}
}

func CreateRequestedAction(request entity.MintRequest) entity.MarketAction {
	return entity.MarketAction{
		Id:        actionId(),
		Action:    entity.RequestedAction,
		To:        request.Requester,
		RequestId: request.RequestId,
		Time:      time.Now(),
	}
}

func CreateMintedAction(nft entity.Nft) entity.MarketAction {
	return entity.MarketAction{
		Id:        actionId(),
		Contract:  nft.Contract,
		TokenId:   nft.TokenId,
		Action:    entity.MintedAction,
		To:        nft.Owner,
		Rarity:    nft.Rarity,
		Character: nft.Character,
		RequestId: nft.RequestId,
		Time:      time.Now(),
	}
}

func actionId() string {
	u, _ := uuid.NewV4()
	return u.String()
}
