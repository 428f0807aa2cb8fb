package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/ai"
	errx "github.com/kdsmedia/altoshopbot/internal/core/error"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

// RedisChatHistory keeps per-conversation AI chat history in a Redis list with
// a sliding TTL, so an abandoned chat session does not linger forever.
type RedisChatHistory struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisChatHistory(rdb redis.Cmdable, ttl time.Duration) *RedisChatHistory {
	return &RedisChatHistory{rdb: rdb, ttl: ttl}
}

func (r *RedisChatHistory) historyKey(conversationID string) string {
	return fmt.Sprintf("aichat:%s:messages", conversationID)
}

func (r *RedisChatHistory) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		logx.Error().Err(err).Str("conversationID", conversationID).Msg("failed to marshal message")
		return fmt.Errorf("marshal message: %w", err)
	}
	key := r.historyKey(conversationID)

	// append message
	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push message to redis")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on history key")
		}
	}
	return nil
}

func (r *RedisChatHistory) LoadHistory(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	key := r.historyKey(conversationID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*schema.Message{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load chat history from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, s := range rows {
		var m schema.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("conversationID", conversationID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

func (r *RedisChatHistory) ClearHistory(ctx context.Context, conversationID string) error {
	key := r.historyKey(conversationID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete chat history from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ ai.HistoryRepository = (*RedisChatHistory)(nil)
