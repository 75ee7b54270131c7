// Package redis connects to Redis with go-redis.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect retries the initial ping with a growing delay and gives up after
// RetryAttempts or ConnectTimeout. Healthcheck returns a probe for the
// readiness endpoint.
package redis
