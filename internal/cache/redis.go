package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/utils"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// generationTTL is far longer than any read holding a generation.
const generationTTL = 24 * time.Hour

// setIfGeneration writes the entry only while the generation counter still
// holds the value the reader saw before loading the user.
var setIfGeneration = redis.NewScript(`
local cur = redis.call('GET', KEYS[1]) or '0'
if cur ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Redis shares computed averages between API instances. Entries are JSON
// encoded and expire after TTL.
type Redis struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewRedisFromClient(redisdb, cfg.TTL)
}

func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{redisdb: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, email string) (trend.Averages, bool, error) {
	raw, err := c.redisdb.Get(ctx, utils.AveragesCacheKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return trend.Averages{}, false, nil
		}
		return trend.Averages{}, false, err
	}

	var avg trend.Averages
	if err := json.Unmarshal(raw, &avg); err != nil {
		// a corrupt entry is treated as a miss and dropped
		_ = c.redisdb.Del(ctx, utils.AveragesCacheKey(email)).Err()
		return trend.Averages{}, false, nil
	}

	return avg, true, nil
}

func (c *Redis) Generation(ctx context.Context, email string) (uint64, error) {
	gen, err := c.redisdb.Get(ctx, utils.AveragesGenerationKey(email)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Redis) Set(ctx context.Context, avg trend.Averages, gen uint64) error {
	raw, err := json.Marshal(avg)
	if err != nil {
		return err
	}

	keys := []string{utils.AveragesGenerationKey(avg.Email), utils.AveragesCacheKey(avg.Email)}
	return setIfGeneration.Run(ctx, c.redisdb, keys, gen, raw, c.ttl.Milliseconds()).Err()
}

func (c *Redis) Invalidate(ctx context.Context, email string) error {
	genKey := utils.AveragesGenerationKey(email)

	_, err := c.redisdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, utils.AveragesCacheKey(email))
		return nil
	})
	return err
}

// Ping checks redis connectivity
func (c *Redis) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.redisdb.Close()
}
