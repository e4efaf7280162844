package BlackListRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlackListRepo держит отозванные access-токены (после logout) до их
// собственного истечения: TTL ключа совпадает с exp токена, так что
// Redis чистит список сам.
type BlackListRepo struct {
	Client *redis.Client
}

func NewBlackListRepo(client *redis.Client) *BlackListRepo {
	return &BlackListRepo{
		Client: client,
	}
}

func (r *BlackListRepo) buildKey(token string) string {
	return fmt.Sprintf("revoked:%s", token)
}

// AddToken: уже истёкший токен хранить незачем.
func (r *BlackListRepo) AddToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, r.buildKey(token), "1", ttl).Err()
}

func (r *BlackListRepo) RemoveToken(ctx context.Context, token string) error {
	return r.Client.Del(ctx, r.buildKey(token)).Err()
}

func (r *BlackListRepo) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	_, err := r.Client.Get(ctx, r.buildKey(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
