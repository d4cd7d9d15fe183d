package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EmbeddingKey generates a cache key for the embedding of text under model.
// Vectors from different models are never interchangeable.
func EmbeddingKey(model, text string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + text))
	return "politikcred:emb:v1:" + hex.EncodeToString(hash[:])
}
