package answerstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// appendScript pushes the id only when the companion set did not already hold it.
var appendScript = redis.NewScript(`
if redis.call("SADD", KEYS[2], ARGV[1]) == 1 then
	return redis.call("RPUSH", KEYS[1], ARGV[1])
end
return 0
`)

// Redis keeps each level as a list (order) plus a set (membership).
type Redis struct {
	client    *redis.Client
	namespace string
	prefix    string
}

var _ Store = (*Redis)(nil)

// NewRedis wraps a client. An empty prefix defaults to "prepsom".
func NewRedis(client *redis.Client, namespace, prefix string) *Redis {
	if prefix == "" {
		prefix = "prepsom"
	}
	return &Redis{client: client, namespace: namespace, prefix: prefix}
}

func (r *Redis) listKey(levelID string) string {
	return fmt.Sprintf("%s:%s:level:%s:answered", r.prefix, r.namespace, levelID)
}

func (r *Redis) setKey(levelID string) string {
	return r.listKey(levelID) + ":set"
}

func (r *Redis) onboardKey() string {
	return fmt.Sprintf("%s:%s:onboarded", r.prefix, r.namespace)
}

func (r *Redis) Load(ctx context.Context, levelID string) ([]string, error) {
	if levelID == "" {
		return nil, ErrEmptyLevelID
	}
	ids, err := r.client.LRange(ctx, r.listKey(levelID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load answered: %w", err)
	}
	return ids, nil
}

func (r *Redis) Append(ctx context.Context, levelID, questionID string) error {
	if err := checkKeys(levelID, questionID); err != nil {
		return err
	}
	keys := []string{r.listKey(levelID), r.setKey(levelID)}
	if err := appendScript.Run(ctx, r.client, keys, questionID).Err(); err != nil {
		return fmt.Errorf("append answered: %w", err)
	}
	return nil
}

func (r *Redis) FirstLogin(ctx context.Context) (bool, error) {
	n, err := r.client.Exists(ctx, r.onboardKey()).Result()
	if err != nil {
		return false, fmt.Errorf("read onboarding: %w", err)
	}
	return n == 0, nil
}

func (r *Redis) MarkOnboarded(ctx context.Context) error {
	if err := r.client.Set(ctx, r.onboardKey(), "1", 0).Err(); err != nil {
		return fmt.Errorf("mark onboarded: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
