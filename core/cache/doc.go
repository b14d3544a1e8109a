// Package cache constructs the Redis client used for caching reconciled part
// records.
//
//	client, err := cache.New(ctx, cfg.Redis)
//	if err != nil {
//	    log.Fatal("Redis connection failed", zap.Error(err))
//	}
package cache
