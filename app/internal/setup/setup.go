// Package setup builds the dependencies shared by the api and the
// reconciler from the viper configuration.
package setup

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/database/mongoclient"
	"github.com/x-xyz/auction/base/database/redisclient"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/base/metrics"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
	"github.com/x-xyz/auction/domain/keys"
	"github.com/x-xyz/auction/service/cache"
	"github.com/x-xyz/auction/service/cache/provider"
	"github.com/x-xyz/auction/service/cache/provider/compound"
	"github.com/x-xyz/auction/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/auction/service/cache/provider/redis"
	ledgerHttp "github.com/x-xyz/auction/service/ledger/http"
	"github.com/x-xyz/auction/service/ledger/memory"
	"github.com/x-xyz/auction/service/notifier/discord"
	"github.com/x-xyz/auction/service/query"
	"github.com/x-xyz/auction/service/redis"
	"github.com/x-xyz/auction/stores/auction/repository"
	"github.com/x-xyz/auction/stores/auction/usecase"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"

	LedgerHttp   = "http"
	LedgerMemory = "memory"
)

// LoadConfig reads the yaml file named by --config. Every key can be
// overridden by an environment variable with dots replaced by underscores,
// e.g. MONGO_URI for mongo.uri.
func LoadConfig(name, defaultPath string, args []string) {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	path := fs.String("config", defaultPath, "path of the yaml config")
	fs.Parse(args)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("storage", StorageMongo)
	viper.SetDefault("ledger.mode", LedgerHttp)
	viper.SetDefault("cache.sizeMB", 16)
	viper.SetDefault("cache.ttl", "5s")

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	level := viper.GetString("log.level")
	if viper.GetBool("debug") {
		level = "debug"
	}
	log.Setup(level, viper.GetBool("log.development"))
	if viper.GetBool("debug") {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// Deps is what main wires into the delivery layer.
type Deps struct {
	// Mongo is nil with memory storage.
	Mongo *mongoclient.Client
	// Redis is nil when redis_cache.uri is empty.
	Redis redis.Service
	// Ledger is set when ledger.mode is memory.
	Ledger  *memory.Ledger
	Auction auction.Usecase
}

func Build(c ctx.Ctx) *Deps {
	d := &Deps{}

	var repo auction.Repo
	switch storage := viper.GetString("storage"); storage {
	case StorageMongo:
		c.Info("init mongo")
		d.Mongo = mongoclient.MustConnect(mongoclient.Config{
			URI:            viper.GetString("mongo.uri"),
			AuthDBName:     viper.GetString("mongo.authDBName"),
			DBName:         viper.GetString("mongo.dbName"),
			SSL:            viper.GetBool("mongo.enableSSL"),
			SetSafe:        true,
			PoolMultiplier: viper.GetFloat64("mongo.poolMultiplier"),
		})
		q := query.New(d.Mongo, viper.GetBool("mongo.checkIndex"))
		r, err := repository.NewMongo(c, q)
		if err != nil {
			c.WithField("err", err).Panic("repository.NewMongo failed")
		}
		repo = r
	case StorageMemory:
		c.Warn("auctions are kept in memory and lost on restart")
		repo = repository.NewMemory()
	default:
		c.WithField("storage", storage).Panic("unknown storage")
	}

	if uri := viper.GetString("redis_cache.uri"); uri != "" {
		c.Info("init redis")
		name := viper.GetString("redis_cache.name")
		pool := redisclient.MustConnect(redisclient.Config{
			URI:       uri,
			Password:  viper.GetString("redis_cache.password"),
			MaxIdle:   viper.GetInt("redis_cache.maxIdle"),
			MaxActive: viper.GetInt("redis_cache.maxActive"),
			Retry:     true,
		})
		d.Redis = redis.New(name, metrics.New(name), &redis.Pools{Src: pool})
	}

	native := domain.Address(viper.GetString("ledger.nativeAccount"))
	var ledger auction.LedgerClient
	switch mode := viper.GetString("ledger.mode"); mode {
	case LedgerHttp:
		ledger = ledgerHttp.NewClient(&ledgerHttp.ClientCfg{
			BaseUrl:         viper.GetString("ledger.baseUrl"),
			CallbackBaseUrl: viper.GetString("ledger.callbackBaseUrl"),
			Timeout:         viper.GetDuration("ledger.timeout"),
			RetryStart:      viper.GetDuration("ledger.retry.start"),
			RetryLimit:      viper.GetDuration("ledger.retry.limit"),
			Attempts:        viper.GetInt("ledger.retry.attempts"),
		})
	case LedgerMemory:
		c.Warn("transfers settle on an in-process ledger")
		d.Ledger = memory.New(native)
		ledger = d.Ledger
	default:
		c.WithField("mode", mode).Panic("unknown ledger mode")
	}

	cfg := &usecase.AuctionUseCaseCfg{
		Repo:         repo,
		Ledger:       ledger,
		NativeLedger: native,
		ClaimPolicy:  auction.ClaimPolicy(viper.GetString("auction.claimPolicy")),
		Notifier:     notifier(c),
		ViewCache:    viewCache(d.Redis),
		Workers:      viper.GetInt("dispatcher.workers"),
		QueueLength:  viper.GetInt("dispatcher.queue"),
		CtxTimeout:   viper.GetDuration("context.timeout"),
	}
	if d.Redis != nil && viper.GetBool("lock.enabled") {
		cfg.Locker = d.Redis
		cfg.LockTTL = viper.GetDuration("lock.ttl")
	}
	d.Auction = usecase.New(cfg)

	if d.Ledger != nil {
		d.Ledger.SetResolver(d.Auction)
		d.Auction = d.Ledger.Host(d.Auction)
	}
	return d
}

func notifier(c ctx.Ctx) auction.Notifier {
	botKey := viper.GetString("discord.botKey")
	if botKey == "" {
		return nil
	}
	n, err := discord.New(discord.Config{
		BotKey:    botKey,
		ChannelId: viper.GetString("discord.channelId"),
	})
	if err != nil {
		c.WithField("err", err).Error("discord.New failed, notifications disabled")
		return nil
	}
	return n
}

// viewCache puts an in-process cache in front of redis when redis is
// configured. Views held in the in-process layer of other replicas may lag
// by up to cache.ttl.
func viewCache(r redis.Service) cache.Service {
	layers := []provider.Provider{primitive.NewPrimitive("auctionView", viper.GetInt("cache.sizeMB"))}
	if r != nil {
		layers = append(layers, redisProvider.NewRedis(r))
	}
	return cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.ttl"),
		Pfx:   keys.PfxAuctionView,
		Cache: compound.NewCompound(layers),
	})
}
