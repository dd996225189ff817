package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/satriojati/go-storefront/internal/redisx"
)

// RedisPersister stores the snapshot as one JSON value under the session's
// well-known cart key. Last write wins across tabs sharing a session.
type RedisPersister struct {
	rdb *redis.Client
	key string
}

func NewRedisPersister(rdb *redis.Client, sessionID string) *RedisPersister {
	return &RedisPersister{
		rdb: rdb,
		key: fmt.Sprintf(redisx.KeyCartSnapshot, sessionID),
	}
}

func (p *RedisPersister) Save(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.rdb.Set(ctx, p.key, b, redisx.TTLCartSnapshot).Err()
}

func (p *RedisPersister) Load(ctx context.Context) (Snapshot, error) {
	b, err := p.rdb.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return snap, nil
}
