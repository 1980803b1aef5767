package services

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/avast/retry-go"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/infrastructure/cache"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
)

// DefaultPriceCacheTTL keeps pool prices briefly so page loads do not hammer the node
const DefaultPriceCacheTTL = 10 * time.Second

type PriceService struct {
	reader   dex.ContractReader
	resolver dex.ContractResolver
	cache    cache.Cache
	cacheTTL time.Duration
	chainID  uint64
	log      *zap.Logger

	group      singleflight.Group
	retryDelay time.Duration
	retryTimes uint
}

func NewPriceService(reader dex.ContractReader, resolver dex.ContractResolver, c cache.Cache, chainID uint64, cacheTTL time.Duration, log *zap.Logger) *PriceService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultPriceCacheTTL
	}
	return &PriceService{
		reader:     reader,
		resolver:   resolver,
		cache:      c,
		cacheTTL:   cacheTTL,
		chainID:    chainID,
		log:        log.Named("prices"),
		retryDelay: 200 * time.Millisecond,
		retryTimes: 3,
	}
}

// GetPrices fetches both pool prices concurrently. A price that cannot be
// read is reported unresolved rather than failing the board.
func (s *PriceService) GetPrices(ctx context.Context) entities.PriceBoard {
	board := entities.PriceBoard{
		PriceOfA: entities.UnquotedPrice(entities.TokenA),
		PriceOfB: entities.UnquotedPrice(entities.TokenB),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		board.PriceOfA = s.GetPrice(gctx, entities.TokenA)
		return nil
	})
	g.Go(func() error {
		board.PriceOfB = s.GetPrice(gctx, entities.TokenB)
		return nil
	})
	_ = g.Wait()

	return board
}

// GetPrice returns getPrice(token) expressed in the other token
func (s *PriceService) GetPrice(ctx context.Context, token entities.TokenSymbol) entities.PriceQuote {
	quote := entities.UnquotedPrice(token)

	contract, err := s.resolver.Resolve(ctx, token.ContractName())
	if err != nil {
		s.log.Debug("token not resolved", zap.String("token", string(token)), zap.Error(err))
		return quote
	}

	price, err := s.fetch(ctx, contract.Address)
	if err != nil {
		s.log.Warn("failed to read price", zap.String("token", string(token)), zap.Error(err))
		return quote
	}

	quote.Price = price
	quote.Resolved = true
	return quote
}

func (s *PriceService) fetch(ctx context.Context, token common.Address) (*big.Int, error) {
	key := cache.PriceCacheKey(s.chainID, token.Hex())

	if s.cache != nil {
		if cached, err := s.cache.GetPrice(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		var price *big.Int
		err := retry.Do(
			func() error {
				p, err := s.reader.GetPrice(ctx, token)
				if err != nil {
					return err
				}
				price = p
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(s.retryTimes),
			retry.Delay(s.retryDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(isTransient),
		)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.SetPrice(ctx, key, price, s.cacheTTL); err != nil {
				s.log.Debug("failed to cache price", zap.String("key", key), zap.Error(err))
			}
		}
		return price, nil
	})
	if err != nil {
		return nil, err
	}

	return new(big.Int).Set(v.(*big.Int)), nil
}

// isTransient reports whether a read is worth retrying
func isTransient(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, entities.ErrContractNotResolved):
		return false
	default:
		return true
	}
}
