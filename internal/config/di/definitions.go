package di

import (
	"github.com/ZilDuck/nft-market-ledger/internal/api"
	"github.com/ZilDuck/nft-market-ledger/internal/config"
	"github.com/ZilDuck/nft-market-ledger/internal/elastic_search"
	"github.com/ZilDuck/nft-market-ledger/internal/indexer"
	"github.com/ZilDuck/nft-market-ledger/internal/marketplace"
	"github.com/ZilDuck/nft-market-ledger/internal/messenger"
	"github.com/ZilDuck/nft-market-ledger/internal/metadata"
	"github.com/ZilDuck/nft-market-ledger/internal/mint"
	"github.com/ZilDuck/nft-market-ledger/internal/ownership"
	"github.com/ZilDuck/nft-market-ledger/internal/payment"
	"github.com/ZilDuck/nft-market-ledger/internal/randomness"
	"github.com/ZilDuck/nft-market-ledger/internal/repository"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/sarulabs/dingo/v4"
	"go.uber.org/zap"
)

var Definitions = []dingo.Def{
	{
		Name: "elastic",
		Build: func() (elastic_search.Index, error) {
			elastic, err := elastic_search.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start ES")
			}

			return elastic, nil
		},
	},
	{
		Name: "aws.session",
		Build: func() (*session.Session, error) {
			cfg := aws.NewConfig().WithRegion(config.Get().Aws.Region)
			if config.Get().Aws.AccessKey != "" {
				cfg = cfg.WithCredentials(credentials.NewStaticCredentials(
					config.Get().Aws.AccessKey, config.Get().Aws.SecretKey, config.Get().Aws.Token))
			}

			return session.NewSession(cfg)
		},
	},
	{
		Name: "messenger",
		Build: func(sess *session.Session) (messenger.MessageService, error) {
			return messenger.NewMessenger(sess), nil
		},
	},
	{
		Name: "ownership",
		Build: func() (ownership.Service, error) {
			if config.Get().Ownership.Url != "" {
				client, err := ownership.NewClient(
					config.Get().Ownership.Url,
					config.Get().Ownership.Timeout,
					config.Get().Ownership.Debug,
				)
				if err != nil {
					return nil, err
				}
				return ownership.NewRemote(client), nil
			}

			return ownership.NewRegistry(), nil
		},
	},
	{
		Name: "payments",
		Build: func() (payment.Rail, error) {
			return payment.NewBank(), nil
		},
	},
	{
		Name: "ledger",
		Build: func(ownershipService ownership.Service, payments payment.Rail) (marketplace.Ledger, error) {
			return marketplace.NewLedger(ownershipService, payments), nil
		},
	},
	{
		Name: "random.oracle",
		Build: func(messageService messenger.MessageService) (randomness.Oracle, error) {
			return randomness.NewQueueOracle(messageService), nil
		},
	},
	{
		Name: "mint.engine",
		Build: func(oracle randomness.Oracle, assets ownership.Service) (mint.Engine, error) {
			return mint.NewEngine(mint.DefaultTable(), oracle, assets, mint.Config{
				Collection:   config.Get().Mint.Collection,
				Fee:          config.Get().Mint.Fee,
				TokenUriBase: config.Get().Mint.TokenUriBase,
				Request: randomness.RequestConfig{
					GasLane:           config.Get().Oracle.GasLane,
					SubscriptionId:    config.Get().Oracle.SubscriptionId,
					ConfirmationDepth: config.Get().Oracle.ConfirmationDepth,
					CallbackGasBudget: config.Get().Oracle.CallbackGasBudget,
					WordCount:         config.Get().Oracle.WordCount,
				},
			}), nil
		},
	},
	{
		Name: "nft.repo",
		Build: func(elastic elastic_search.Index) (repository.NftRepository, error) {
			return repository.NewNftRepository(elastic), nil
		},
	},
	{
		Name: "action.repo",
		Build: func(elastic elastic_search.Index) (repository.MarketActionRepository, error) {
			return repository.NewMarketActionRepository(elastic), nil
		},
	},
	{
		Name: "metadata",
		Build: func() (metadata.Service, error) {
			return metadata.NewMetadataService(config.Get().IpfsHosts, config.Get().IpfsTimeout), nil
		},
	},
	{
		Name: "market.indexer",
		Build: func(elastic elastic_search.Index) (indexer.MarketIndexer, error) {
			return indexer.NewMarketIndexer(elastic), nil
		},
	},
	{
		Name: "mint.indexer",
		Build: func(
			elastic elastic_search.Index,
			nftRepo repository.NftRepository,
			metadataService metadata.Service,
			messageService messenger.MessageService,
		) (indexer.MintIndexer, error) {
			return indexer.NewMintIndexer(elastic, nftRepo, metadataService, messageService), nil
		},
	},
	{
		Name: "api",
		Build: func(
			ledger marketplace.Ledger,
			mintEngine mint.Engine,
			assets ownership.Service,
			nftRepo repository.NftRepository,
			actionRepo repository.MarketActionRepository,
		) (api.Server, error) {
			return api.NewServer(ledger, mintEngine, assets, nftRepo, actionRepo), nil
		},
	},
}
