package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/bimakw/simple-dex/internal/config"
	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/domain/services"
	"github.com/bimakw/simple-dex/internal/infrastructure/cache"
	"github.com/bimakw/simple-dex/internal/infrastructure/database"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
	"github.com/bimakw/simple-dex/internal/infrastructure/ethereum"
)

// App holds the wired services shared by the API server and the CLI
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	ChainID uint64

	Client   *ethereum.Client
	Registry *entities.ContractRegistry
	Resolver *dex.Resolver
	Dex      *dex.SimpleDexClient
	Cache    cache.Cache
	Journal  *database.Database

	Submitter *services.Submitter
	Sessions  *services.SessionService
	Prices    *services.PriceService
	Accounts  *services.AccountService
	History   *services.HistoryService
}

// New connects to the node and builds every service from cfg
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	client, err := ethereum.NewClient(cfg.RPCURL)
	if err != nil {
		return nil, err
	}

	chainID := client.ChainID().Uint64()
	if cfg.ChainID != 0 && cfg.ChainID != chainID {
		client.Close()
		return nil, fmt.Errorf("node reports chain %d, configured chain is %d", chainID, cfg.ChainID)
	}
	log.Info("connected to node", zap.String("rpc", cfg.RPCURL), zap.Uint64("chain_id", chainID))

	registry, err := LoadRegistry(cfg, chainID, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	resolver := dex.NewResolver(registry, client)

	var (
		sender dex.Sender = dex.ReadOnlySender()
		owner  *common.Address
	)
	if cfg.CanSign() {
		transactor, err := ethereum.NewTransactor(client, cfg.PrivateKey, client.ChainID())
		if err != nil {
			client.Close()
			return nil, err
		}
		from := transactor.From()
		sender, owner = transactor, &from
		log.Info("signing enabled", zap.String("account", from.Hex()))
	} else {
		log.Warn("no private key configured, forms will fail to submit")
	}

	dexClient := dex.NewSimpleDexClient(client, sender, resolver)

	journal, err := database.NewDatabase(cfg.DatabasePath, log)
	if err != nil {
		client.Close()
		return nil, err
	}

	priceCache := newCache(cfg, log)
	submitter := services.NewSubmitter(dexClient, resolver, journal, log, cfg.ConfirmTimeout)

	return &App{
		Config:    cfg,
		Logger:    log,
		ChainID:   chainID,
		Client:    client,
		Registry:  registry,
		Resolver:  resolver,
		Dex:       dexClient,
		Cache:     priceCache,
		Journal:   journal,
		Submitter: submitter,
		Sessions:  services.NewSessionService(submitter, cfg.SessionTTL, log),
		Prices:    services.NewPriceService(dexClient, resolver, priceCache, chainID, cfg.PriceCacheTTL, log),
		Accounts:  services.NewAccountService(dexClient, resolver, owner),
		History:   services.NewHistoryService(journal, cfg.ExplorerURL),
	}, nil
}

// LoadRegistry reads the deployments file for chainID, then applies the
// configured address overrides. A missing deployments file is not an error.
func LoadRegistry(cfg *config.Config, chainID uint64, log *zap.Logger) (*entities.ContractRegistry, error) {
	registry := entities.NewContractRegistry()

	if cfg.DeploymentsFile != "" {
		err := registry.LoadFromFile(cfg.DeploymentsFile, chainID)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Warn("deployments file not found", zap.String("path", cfg.DeploymentsFile))
		case err != nil:
			return nil, err
		}
	}

	overrides := map[entities.ContractName]string{
		entities.ContractTokenA:    cfg.Contracts.TokenA,
		entities.ContractTokenB:    cfg.Contracts.TokenB,
		entities.ContractSimpleDex: cfg.Contracts.SimpleDex,
	}
	for name, addr := range overrides {
		if addr == "" {
			continue
		}
		registry.Register(entities.DeployedContract{Name: name, Address: common.HexToAddress(addr)})
	}

	log.Info("contracts loaded", zap.Int("count", registry.Count()))
	return registry, nil
}

func newCache(cfg *config.Config, log *zap.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info("using in-memory price cache")
		return cache.NewInMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("failed to connect to redis, using in-memory price cache", zap.Error(err))
		return cache.NewInMemoryCache()
	}

	log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	return redisCache
}

// Close releases the node connection, the price cache and the journal
func (a *App) Close() {
	if closer, ok := a.Cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.Logger.Warn("failed to close cache", zap.Error(err))
		}
	}
	if err := a.Journal.Close(); err != nil {
		a.Logger.Warn("failed to close journal", zap.Error(err))
	}
	a.Client.Close()
	_ = a.Logger.Sync()
}

// RunSweeper expires idle sessions until ctx is done
func (a *App) RunSweeper(ctx context.Context) {
	a.Sessions.Run(ctx, max(a.Config.SessionTTL/2, time.Second))
}
