package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisDocumentStore keeps one hash per collection, field = document id.
type RedisDocumentStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisDocumentStore(client *redis.Client, prefix string) *RedisDocumentStore {
	if prefix == "" {
		prefix = "sahayak"
	}
	return &RedisDocumentStore{Client: client, Prefix: prefix}
}

func (s *RedisDocumentStore) key(collection string) string {
	return fmt.Sprintf("%s:%s", s.Prefix, collection)
}

func (s *RedisDocumentStore) LoadCollection(ctx context.Context, collection string) (map[string][]byte, error) {
	fields, err := s.Client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(fields))
	for id, body := range fields {
		out[id] = []byte(body)
	}
	return out, nil
}

// Apply sends the batch as a single MULTI/EXEC.
func (s *RedisDocumentStore) Apply(ctx context.Context, mutations []Mutation) error {
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range mutations {
			if m.IsDelete() {
				pipe.HDel(ctx, s.key(m.Collection), m.ID)
				continue
			}
			pipe.HSet(ctx, s.key(m.Collection), m.ID, m.Body)
		}
		return nil
	})
	return err
}

func (s *RedisDocumentStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
