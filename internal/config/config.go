package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ZilDuck/nft-market-ledger/internal/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Env       string
	Network   string
	Index     string
	Debug     bool
	Reindex   bool
	LogPath   string
	SentryDsn string

	ApiPort    string
	HealthPort string

	IpfsHosts   []string
	IpfsTimeout int

	Mint          MintConfig
	Oracle        OracleConfig
	Ownership     OwnershipConfig
	Aws           AwsConfig
	ElasticSearch ElasticSearchConfig
}

type MintConfig struct {
	Collection   string
	Fee          *big.Int
	TokenUriBase string
}

type OracleConfig struct {
	GasLane           string
	SubscriptionId    uint64
	ConfirmationDepth uint64
	CallbackGasBudget uint64
	WordCount         uint64
}

type OwnershipConfig struct {
	Url     string
	Timeout int
	Debug   bool
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Token     string
	Region    string
}

type ElasticSearchConfig struct {
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Aws              bool
	Username         string
	Password         string
	MappingDir       string
	BulkPersistCount int
	Refresh          string
}

var ipfsHosts = []string{
	"https://gateway.pinata.cloud",
	"https://cloudflare-ipfs.com",
	"https://gateway.ipfs.io",
}

func Init(app string) {
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env, using environment")
	}

	initLogger(app)
}

func initLogger(app string) {
	cfg := Get()
	log.NewLogger(fmt.Sprintf("%s/%s.log", cfg.LogPath, app), cfg.Debug, cfg.SentryDsn)
}

func Get() *Config {
	return &Config{
		Env:         getString("ENV", ""),
		Network:     getString("NETWORK", "local"),
		Index:       getString("INDEX_NAME", "ledger"),
		Debug:       getBool("DEBUG", false),
		Reindex:     getBool("REINDEX", false),
		LogPath:     getString("LOG_PATH", "./var/log"),
		SentryDsn:   getString("SENTRY_DSN", ""),
		ApiPort:     getString("API_PORT", "8080"),
		HealthPort:  getString("HEALTH_PORT", "8081"),
		IpfsHosts:   getSlice("IPFS_HOSTS", ipfsHosts, ","),
		IpfsTimeout: getInt("IPFS_TIMEOUT", 10),
		Mint: MintConfig{
			Collection:   getString("MINT_COLLECTION", "0x9e8f0c3a2b1d4e5f6a7b8c9d0e1f2a3b4c5d6e7f"),
			Fee:          getBigInt("MINT_FEE", "10000000000000000"),
			TokenUriBase: getString("MINT_TOKEN_URI_BASE", "ipfs://QmYxkzV5cHhdpMhLfCAQJXRGv6zJt5ePoRcZvNqrUmVxLw/"),
		},
		Oracle: OracleConfig{
			GasLane:           getString("ORACLE_GAS_LANE", "0x474e34a077df58807dbe9c96d3c009b23b3c6d0cce433e59bbf5b34f823bc56c"),
			SubscriptionId:    getUint64("ORACLE_SUBSCRIPTION_ID", 1),
			ConfirmationDepth: getUint64("ORACLE_CONFIRMATION_DEPTH", 3),
			CallbackGasBudget: getUint64("ORACLE_CALLBACK_GAS_BUDGET", 500000),
			WordCount:         getUint64("ORACLE_WORD_COUNT", 1),
		},
		Ownership: OwnershipConfig{
			Url:     getString("OWNERSHIP_URL", ""),
			Timeout: getInt("OWNERSHIP_TIMEOUT", 30),
			Debug:   getBool("OWNERSHIP_DEBUG", false),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Token:     getString("AWS_TOKEN", ""),
			Region:    getString("AWS_REGION", "us-east-1"),
		},
		ElasticSearch: ElasticSearchConfig{
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Aws:              getBool("ELASTIC_SEARCH_AWS", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			MappingDir:       getString("ELASTIC_SEARCH_MAPPING_DIR", "./data/mappings"),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getUint64(key string, defaultValue uint) uint64 {
	return uint64(getInt(key, int(defaultValue)))
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getBigInt(key string, defaultValue string) *big.Int {
	valStr := getString(key, defaultValue)
	val, ok := new(big.Int).SetString(valStr, 10)
	if !ok {
		val, _ = new(big.Int).SetString(defaultValue, 10)
	}

	return val
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}
