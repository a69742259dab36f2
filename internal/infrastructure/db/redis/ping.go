package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Pinger reports Redis reachability for readiness checks.
type Pinger struct {
	client redis.Cmdable
}

func NewPinger(client redis.Cmdable) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
