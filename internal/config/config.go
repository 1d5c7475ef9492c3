package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/application"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
	"github.com/arkade-os/ledgerkit/internal/infrastructure/db"
	watermilldb "github.com/arkade-os/ledgerkit/internal/infrastructure/db/watermill"
	timescheduler "github.com/arkade-os/ledgerkit/internal/infrastructure/scheduler/gocron"
	inmemorytxstore "github.com/arkade-os/ledgerkit/internal/infrastructure/tx-store/inmemory"
	redistxstore "github.com/arkade-os/ledgerkit/internal/infrastructure/tx-store/redis"
	"github.com/arkade-os/ledgerkit/internal/telemetry"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	supportedEventDbs = supportedType{
		"watermill": {},
	}
	supportedDbs = supportedType{
		"badger": {},
		"sqlite": {},
	}
	supportedSchedulers = supportedType{
		"gocron": {},
	}
	supportedTxStores = supportedType{
		"inmemory": {},
		"redis":    {},
	}
)

type Config struct {
	Datadir     string
	Port        uint32
	MetricsPort uint32
	LogLevel    int

	DbType              string
	EventDbType         string
	DbDir               string
	TxStoreType         string
	RedisUrl            string
	RedisTxNumOfRetries int
	SchedulerType       string
	// CompactionInterval is expressed in seconds, 0 disables compaction.
	CompactionInterval int64

	NodeID           string
	Version          string
	MaxPageSize      int32
	MaxInputs        uint64
	VerifySignatures bool
	ChainConfigPath  string
	GenesisCoins     []ledgerlib.Coin

	repo      ports.RepoManager
	txStore   ports.TxStore
	scheduler ports.SchedulerService
	metrics   *telemetry.Metrics
	svc       application.Service
}

func (c *Config) String() string {
	clone := *c
	if clone.RedisUrl != "" {
		clone.RedisUrl = "••••••"
	}
	numOfCoins := len(clone.GenesisCoins)
	clone.GenesisCoins = nil
	json, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return fmt.Sprintf("%s\ngenesis coins: %d", json, numOfCoins)
}

var (
	defaultDatadir             = appDataDir("ledgerd")
	DefaultPort                = 4000
	defaultMetricsPort         = 0
	defaultDbType              = "badger"
	defaultEventDbType         = "watermill"
	defaultTxStoreType         = "inmemory"
	defaultSchedulerType       = "gocron"
	defaultRedisTxNumOfRetries = 10
	defaultLogLevel            = 4
	defaultCompactionInterval  = 600 // 10 minutes
	defaultMaxPageSize         = 10000
	defaultMaxInputs           = 255
	defaultVerifySignatures    = true
)

// env returns a list of strings prefixed with `LEDGERD_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("LEDGERD_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	Port = &cli.UintFlag{
		Usage: "Port to listen on, 0 binds a random one",
		Name:  "port", EnvVars: env("PORT"),
		Value: uint(DefaultPort),
	}

	MetricsPort = &cli.UintFlag{
		Usage: "Port of the prometheus metrics endpoint, disabled if 0",
		Name:  "metrics-port", EnvVars: env("METRICS_PORT"),
		Value: uint(defaultMetricsPort),
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	DbType = &cli.StringFlag{
		Usage: "Coin database type (badger, sqlite)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	EventDbType = &cli.StringFlag{
		Usage: "Event bus type (watermill)",
		Name:  "event-db-type", EnvVars: env("EVENT_DB_TYPE"),
		Value: defaultEventDbType,
	}

	InMemory = &cli.BoolFlag{
		Usage: "Keep coins in memory instead of persisting them in the datadir",
		Name:  "in-memory", EnvVars: env("IN_MEMORY"),
	}

	TxStoreType = &cli.StringFlag{
		Usage: "Transaction store type (inmemory, redis)",
		Name:  "tx-store-type", EnvVars: env("TX_STORE_TYPE"),
		Value: defaultTxStoreType,
	}

	RedisUrl = &cli.StringFlag{
		Usage: "Redis db url, required if tx store type is redis",
		Name:  "redis-url", EnvVars: env("REDIS_URL"),
	}

	RedisTxNumOfRetries = &cli.IntFlag{
		Usage: "Max number of retries for a redis transaction in case of conflicts",
		Name:  "redis-num-of-retries", EnvVars: env("REDIS_NUM_OF_RETRIES"),
		Value: defaultRedisTxNumOfRetries,
	}

	SchedulerType = &cli.StringFlag{
		Usage: "Scheduler type (gocron)",
		Name:  "scheduler-type", EnvVars: env("SCHEDULER_TYPE"),
		Value: defaultSchedulerType,
	}

	CompactionInterval = &cli.Int64Flag{
		Usage: "How often (in seconds) the coin db is compacted, 0 disables it",
		Name:  "compaction-interval", EnvVars: env("COMPACTION_INTERVAL"),
		Value: int64(defaultCompactionInterval),
	}

	MaxPageSize = &cli.IntFlag{
		Usage: "Max number of items returned in a single page",
		Name:  "max-page-size", EnvVars: env("MAX_PAGE_SIZE"),
		Value: defaultMaxPageSize,
	}

	MaxInputs = &cli.Uint64Flag{
		Usage: "Max number of coins selected for a spend request",
		Name:  "max-inputs", EnvVars: env("MAX_INPUTS"),
		Value: uint64(defaultMaxInputs),
	}

	VerifySignatures = &cli.BoolFlag{
		Usage: "Verify that every tx input is signed by the owner of the spent coin",
		Name:  "verify-signatures", EnvVars: env("VERIFY_SIGNATURES"),
		Value: defaultVerifySignatures,
	}

	ChainConfig = &cli.StringFlag{
		Usage: "Path to a JSON file with the genesis coins of the node",
		Name:  "chain-config", EnvVars: env("CHAIN_CONFIG"),
	}
)

var Flags = []cli.Flag{
	Datadir,
	Port,
	MetricsPort,
	LogLevel,
	DbType,
	EventDbType,
	InMemory,
	TxStoreType,
	RedisUrl,
	RedisTxNumOfRetries,
	SchedulerType,
	CompactionInterval,
	MaxPageSize,
	MaxInputs,
	VerifySignatures,
	ChainConfig,
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	dbPath := filepath.Join(c.String(Datadir.Name), "db")
	if c.Bool(InMemory.Name) {
		dbPath = ""
	}

	var redisUrl string
	if c.String(TxStoreType.Name) == "redis" {
		redisUrl = c.String(RedisUrl.Name)
		if redisUrl == "" {
			return nil, fmt.Errorf("tx store type set to 'redis' but redis url is missing")
		}
	}

	var genesisCoins []ledgerlib.Coin
	chainConfigPath := c.String(ChainConfig.Name)
	if chainConfigPath != "" {
		coins, err := LoadChainConfig(chainConfigPath)
		if err != nil {
			return nil, err
		}
		genesisCoins = coins
	}

	return &Config{
		Datadir:             c.String(Datadir.Name),
		Port:                uint32(c.Uint(Port.Name)),
		MetricsPort:         uint32(c.Uint(MetricsPort.Name)),
		LogLevel:            c.Int(LogLevel.Name),
		DbType:              c.String(DbType.Name),
		EventDbType:         c.String(EventDbType.Name),
		DbDir:               dbPath,
		TxStoreType:         c.String(TxStoreType.Name),
		RedisUrl:            redisUrl,
		RedisTxNumOfRetries: c.Int(RedisTxNumOfRetries.Name),
		SchedulerType:       c.String(SchedulerType.Name),
		CompactionInterval:  c.Int64(CompactionInterval.Name),
		MaxPageSize:         int32(c.Int(MaxPageSize.Name)),
		MaxInputs:           c.Uint64(MaxInputs.Name),
		VerifySignatures:    c.Bool(VerifySignatures.Name),
		ChainConfigPath:     chainConfigPath,
		GenesisCoins:        genesisCoins,
	}, nil
}

// LocalConfig returns the config of a node that keeps everything in memory and
// listens on a random port.
func LocalConfig() *Config {
	return &Config{
		LogLevel:            int(log.GetLevel()),
		DbType:              defaultDbType,
		EventDbType:         defaultEventDbType,
		TxStoreType:         defaultTxStoreType,
		RedisTxNumOfRetries: defaultRedisTxNumOfRetries,
		SchedulerType:       defaultSchedulerType,
		MaxPageSize:         int32(defaultMaxPageSize),
		MaxInputs:           uint64(defaultMaxInputs),
		VerifySignatures:    defaultVerifySignatures,
	}
}

// Copy returns a copy of the config without any of the services built by
// Validate, so that it can be used to start another node.
func (c *Config) Copy() *Config {
	clone := *c
	clone.GenesisCoins = append([]ledgerlib.Coin{}, c.GenesisCoins...)
	clone.repo = nil
	clone.txStore = nil
	clone.scheduler = nil
	clone.metrics = nil
	clone.svc = nil
	return &clone
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

func (c *Config) Validate() error {
	if !supportedEventDbs.supports(c.EventDbType) {
		return fmt.Errorf(
			"event db type not supported, please select one of: %s",
			supportedEventDbs,
		)
	}
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedSchedulers.supports(c.SchedulerType) {
		return fmt.Errorf(
			"scheduler type not supported, please select one of: %s",
			supportedSchedulers,
		)
	}
	if !supportedTxStores.supports(c.TxStoreType) {
		return fmt.Errorf(
			"tx store type not supported, please select one of: %s",
			supportedTxStores,
		)
	}
	if c.TxStoreType == "redis" && c.RedisTxNumOfRetries <= 0 {
		return fmt.Errorf("redis num of retries must be greater than 0")
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("max page size must be greater than 0")
	}
	if c.MaxInputs == 0 || c.MaxInputs > 255 {
		return fmt.Errorf("max inputs must be in range [1, 255]")
	}
	if c.CompactionInterval < 0 {
		return fmt.Errorf("compaction interval must not be negative")
	}
	if c.Port > 0 && c.Port == c.MetricsPort {
		return fmt.Errorf("metrics port must be different from service port")
	}

	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.txStoreService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	c.telemetryService()
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) Metrics() *telemetry.Metrics {
	return c.metrics
}

func (c *Config) repoManager() error {
	if c.repo != nil {
		return nil
	}

	var eventStoreConfig []interface{}
	var dataStoreConfig []interface{}
	logger := log.New()
	logger.SetLevel(log.WarnLevel)

	switch c.EventDbType {
	case "watermill":
		eventStoreConfig = []interface{}{watermilldb.NewLogger()}
	default:
		return fmt.Errorf("unknown event db type")
	}

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "sqlite":
		dataStoreConfig = []interface{}{c.DbDir}
	default:
		return fmt.Errorf("unknown db type")
	}

	svc, err := db.NewService(db.ServiceConfig{
		EventStoreType:   c.EventDbType,
		DataStoreType:    c.DbType,
		EventStoreConfig: eventStoreConfig,
		DataStoreConfig:  dataStoreConfig,
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) txStoreService() error {
	if c.txStore != nil {
		return nil
	}

	var txStore ports.TxStore
	switch c.TxStoreType {
	case "inmemory":
		txStore = inmemorytxstore.NewTxStore()
	case "redis":
		redisOpts, err := redis.ParseURL(c.RedisUrl)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		txStore = redistxstore.NewTxStore(rdb, c.RedisTxNumOfRetries)
	default:
		return fmt.Errorf("unknown tx store type")
	}

	c.txStore = txStore
	return nil
}

func (c *Config) schedulerService() error {
	if c.scheduler != nil {
		return nil
	}

	var svc ports.SchedulerService
	switch c.SchedulerType {
	case "gocron":
		svc = timescheduler.NewScheduler()
	default:
		return fmt.Errorf("unknown scheduler type")
	}

	c.scheduler = svc
	return nil
}

func (c *Config) telemetryService() {
	if c.metrics == nil {
		c.metrics = telemetry.NewMetrics()
	}
}

func (c *Config) appService() error {
	if c.repo == nil || c.txStore == nil {
		return fmt.Errorf("config must be validated first")
	}

	nodeID := c.NodeID
	if nodeID == "" {
		nodeID = uuid.New().String()
	}

	svc, err := application.NewService(
		application.Config{
			NodeID:             nodeID,
			Version:            c.Version,
			MaxPageSize:        c.MaxPageSize,
			MaxInputs:          c.MaxInputs,
			VerifySignatures:   c.VerifySignatures,
			GenesisCoins:       c.GenesisCoins,
			CompactionInterval: time.Duration(c.CompactionInterval) * time.Second,
		},
		c.repo, c.txStore, c.scheduler, c.metrics,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
