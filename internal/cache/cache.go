// Package cache memoizes retrieval results between identical queries.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// GetJSON decodes the value at key into dst. It reports false on a miss.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RetrievalKey builds the key for one source's results. The query is
// normalized before hashing so that case and spacing do not fragment entries.
func RetrievalKey(source string, maxResults int, query string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha1.Sum([]byte(norm))
	return fmt.Sprintf("retrieval:%s:%d:%s", source, maxResults, hex.EncodeToString(sum[:]))
}
