// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/shelfmark/internal/platform/constants"
)

// RedisCache implements [Cache] for catalog book details.
//
// Book metadata is read far more often than it changes, so detail lookups are
// served cache-aside with a short TTL. Records are stored as JSON under
// [constants.RedisPrefixBookCache] keys.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed book detail cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (cache *RedisCache) key(bookID string) string {
	return constants.RedisPrefixBookCache + bookID
}

/*
GetBook returns the cached book for the given ID.

Description: A miss is (nil, nil), not an error. A corrupt payload is treated
as a miss after evicting the key, so one bad write cannot poison the entry
until TTL expiry.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - *Book: Cached record, or nil on a miss
  - error: Connectivity errors only
*/
func (cache *RedisCache) GetBook(context context.Context, bookID string) (*Book, error) {
	payload, err := cache.client.Get(context, cache.key(bookID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_book_get_failed: %w", err)
	}

	book := &Book{}
	if err := json.Unmarshal(payload, book); err != nil {
		_ = cache.client.Del(context, cache.key(bookID)).Err()
		return nil, nil
	}

	return book, nil
}

/*
SetBook stores the book under its ID for [constants.BookCacheTTL].

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: Marshalling or connectivity errors
*/
func (cache *RedisCache) SetBook(context context.Context, book *Book) error {
	payload, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("redis_book_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, cache.key(book.ID), payload, constants.BookCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_book_set_failed: %w", err)
	}

	return nil
}

/*
InvalidateBook drops the cached record after a metadata update.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - error: Connectivity errors
*/
func (cache *RedisCache) InvalidateBook(context context.Context, bookID string) error {
	if err := cache.client.Del(context, cache.key(bookID)).Err(); err != nil {
		return fmt.Errorf("redis_book_invalidate_failed: %w", err)
	}

	return nil
}
