package wallet

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"funplay.com/server/game"
	"funplay.com/server/util"
)

var cacheLogger = log.With().Str("logger_name", "wallet::cache").Logger()

const balanceTTL = 5 * time.Minute

// redisClient is the slice of the redis API the cache uses; taking an
// interface lets tests stub the client with canned command results.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedWallet fronts a wallet with a redis balance cache. Reads are
// served from redis when present; every mutation invalidates the cached
// balance so the next read comes from the database. Redis being down
// degrades to passthrough, never to a stale answer being trusted over
// the database.
type CachedWallet struct {
	inner    game.Wallet
	rdclient redisClient
}

func NewRedisCachedWallet(inner game.Wallet, redisURL string, redisPW string, redisDB int) *CachedWallet {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &CachedWallet{
		inner:    inner,
		rdclient: rdclient,
	}
}

func newCachedWallet(inner game.Wallet, rdclient redisClient) *CachedWallet {
	return &CachedWallet{inner: inner, rdclient: rdclient}
}

func balanceKey(playerID string) string {
	return "wallet:balance:" + playerID
}

func (c *CachedWallet) GetBalance(playerID string) (int64, error) {
	key := balanceKey(playerID)
	cached, err := c.rdclient.Get(context.Background(), key).Result()
	if err == nil {
		if balance, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return balance, nil
		}
		cacheLogger.Warn().Str("playerID", playerID).Str("value", cached).Msg("Discarding unparsable cached balance")
		c.rdclient.Del(context.Background(), key)
	} else if err != redis.Nil {
		cacheLogger.Warn().Str("playerID", playerID).Msgf("Redis read failed, falling through: %s", err)
	}

	util.Metrics.WalletCacheMiss()
	balance, err := c.inner.GetBalance(playerID)
	if err != nil {
		return 0, err
	}
	c.storeBalance(playerID, balance)
	return balance, nil
}

func (c *CachedWallet) GetOrCreatePlayer(playerID string, displayName string) (int64, error) {
	balance, err := c.inner.GetOrCreatePlayer(playerID, displayName)
	if err != nil {
		return 0, err
	}
	c.storeBalance(playerID, balance)
	return balance, nil
}

func (c *CachedWallet) HasSufficientBalance(playerID string, amount int64) (bool, error) {
	balance, err := c.GetBalance(playerID)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

func (c *CachedWallet) DeductBalance(playerID string, amount int64, gameType string, description string) error {
	if err := c.inner.DeductBalance(playerID, amount, gameType, description); err != nil {
		return err
	}
	c.invalidate(playerID)
	return nil
}

func (c *CachedWallet) AddBalance(playerID string, amount int64, gameType string, description string) error {
	if err := c.inner.AddBalance(playerID, amount, gameType, description); err != nil {
		return err
	}
	c.invalidate(playerID)
	return nil
}

func (c *CachedWallet) storeBalance(playerID string, balance int64) {
	err := c.rdclient.Set(context.Background(), balanceKey(playerID), strconv.FormatInt(balance, 10), balanceTTL).Err()
	if err != nil {
		cacheLogger.Warn().Str("playerID", playerID).Msgf("Redis write failed: %s", err)
	}
}

func (c *CachedWallet) invalidate(playerID string) {
	err := c.rdclient.Del(context.Background(), balanceKey(playerID)).Err()
	if err != nil {
		// The TTL bounds how long the stale value can live.
		cacheLogger.Warn().Str("playerID", playerID).Msgf("Redis invalidation failed: %s", err)
	}
}
