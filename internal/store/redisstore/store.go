package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyTTL    = 24 * time.Hour
	historyMaxLen = 50
)

// Store caches per-user chat history so a session survives page reloads;
// logout clears it.
type Store struct {
	client *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func historyKey(userID uint64) string {
	return fmt.Sprintf("chat:history:%d", userID)
}

// AppendChatTurn pushes one turn onto the user's history list, capped at
// historyMaxLen entries.
func (s *Store) AppendChatTurn(ctx context.Context, userID uint64, entry string) error {
	key := historyKey(userID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, entry)
	pipe.LTrim(ctx, key, -historyMaxLen, -1)
	pipe.Expire(ctx, key, historyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// ClearChatHistory drops the user's cached history.
func (s *Store) ClearChatHistory(ctx context.Context, userID uint64) error {
	return s.client.Del(ctx, historyKey(userID)).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
