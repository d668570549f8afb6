package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/ZilDuck/nft-market-ledger/generated/dic"
	"github.com/ZilDuck/nft-market-ledger/internal/config"
	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/ZilDuck/nft-market-ledger/internal/messenger"
	"github.com/ZilDuck/nft-market-ledger/internal/repository"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	container        *dic.Container
	nftRepo          repository.NftRepository
	actionRepo       repository.MarketActionRepository
	messengerService messenger.MessageService
)

func main() {
	config.Init("cli")

	container, _ = dic.NewContainer()
	nftRepo = container.GetNftRepo()
	actionRepo = container.GetActionRepo()
	messengerService = container.GetMessenger()

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "actions",
				Usage:  "List market actions, most recent first",
				Action: listActions,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "contract", Value: "", Usage: "Filter by contract"},
					&cli.Uint64Flag{Name: "tokenId", Value: 0, Usage: "Filter by token id (requires contract)"},
					&cli.IntFlag{Name: "size", Value: 25, Usage: "Page size"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number"},
				},
			},
			{
				Name:   "nfts",
				Usage:  "List minted NFTs by owner or rarity",
				Action: listNfts,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Value: "", Usage: "Filter by owner address"},
					&cli.StringFlag{Name: "rarity", Value: "", Usage: "Filter by rarity (Legendary, Rare, Common)"},
					&cli.IntFlag{Name: "size", Value: 25, Usage: "Page size"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number"},
				},
			},
			{
				Name:   "queueSize",
				Usage:  "Show the approximate size of each queue",
				Action: queueSizes,
			},
			{
				Name:   "refreshMetadata",
				Usage:  "Queue an NFT for metadata refresh (args: contract tokenId)",
				Action: refreshMetadata,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start CLI")
	}
}

func listActions(c *cli.Context) error {
	var (
		actions []entity.MarketAction
		total   int64
		err     error
	)

	if c.String("contract") != "" {
		actions, total, err = actionRepo.GetActionsForAsset(c.String("contract"), c.Uint64("tokenId"), c.Int("size"), c.Int("page"))
	} else {
		actions, total, err = actionRepo.GetActions(c.Int("size"), c.Int("page"))
	}
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to get actions")
		return err
	}

	zap.S().Infof("Found %d actions", total)
	for _, action := range actions {
		zap.S().Infof("%s %s %s/%d by %s", action.Time.Format("2006-01-02 15:04:05"), action.Action, action.Contract, action.TokenId, action.From)
	}

	return nil
}

func listNfts(c *cli.Context) error {
	var (
		nfts  []entity.Nft
		total int64
		err   error
	)

	if c.String("owner") != "" {
		nfts, total, err = nftRepo.GetNftsOwnedBy(c.String("owner"), c.Int("size"), c.Int("page"))
	} else if c.String("rarity") != "" {
		nfts, total, err = nftRepo.GetNftsByRarity(c.String("rarity"), c.Int("size"), c.Int("page"))
	} else {
		zap.L().Error("Provide --owner or --rarity")
		return nil
	}
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to get nfts")
		return err
	}

	zap.S().Infof("Found %d nfts", total)
	for _, nft := range nfts {
		zap.S().Infof("%s/%d %s (%s) owned by %s", nft.Contract, nft.TokenId, nft.Character, nft.Rarity, nft.Owner)
	}

	return nil
}

func queueSizes(c *cli.Context) error {
	for _, item := range []messenger.Item{messenger.RandomnessRequest, messenger.RandomnessFulfilled, messenger.MetadataRefresh} {
		size, err := messengerService.GetQueueSize(item)
		if err != nil {
			zap.S().With(zap.Error(err)).Errorf("Could not get the size of %s", item)
			continue
		}
		zap.S().Infof("%s: %d", item, *size)
	}

	return nil
}

func refreshMetadata(c *cli.Context) error {
	contract := c.Args().First()
	tokenId, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if contract == "" || err != nil {
		zap.L().Error("Usage: refreshMetadata <contract> <tokenId>")
		return nil
	}

	body, err := json.Marshal(messenger.Nft{Contract: contract, TokenId: tokenId})
	if err != nil {
		return err
	}

	if err := messengerService.SendMessage(messenger.MetadataRefresh, body); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to queue metadata refresh")
		return err
	}

	zap.S().Infof("Queued metadata refresh for %s/%d", contract, tokenId)

	return nil
}
