package cache

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// VectorCache stores embedding vectors in a byte cache
type VectorCache struct {
	cache Cache
	model string
	ttl   time.Duration
}

// NewVectorCache caches vectors for one embedding model
func NewVectorCache(c Cache, model string, ttl time.Duration) *VectorCache {
	return &VectorCache{cache: c, model: model, ttl: ttl}
}

// Get returns the cached vector for text
func (v *VectorCache) Get(text string) ([]float64, bool) {
	data, ok := v.cache.Get(EmbeddingKey(v.model, text))
	if !ok {
		return nil, false
	}
	vec, err := DecodeVector(data)
	if err != nil {
		return nil, false
	}
	return vec, true
}

// Set caches the vector for text
func (v *VectorCache) Set(text string, vec []float64) error {
	return v.cache.Set(EmbeddingKey(v.model, text), EncodeVector(vec), v.ttl)
}

// EncodeVector packs a vector as little-endian float64s
func EncodeVector(vec []float64) []byte {
	buf := make([]byte, len(vec)*8)
	for i, x := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	return buf
}

// DecodeVector unpacks EncodeVector output
func DecodeVector(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("invalid vector length %d", len(data))
	}
	vec := make([]float64, len(data)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return vec, nil
}
