package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/politikcred/internal/cache"
	"github.com/ppiankov/politikcred/internal/llm"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/similarity"
	"github.com/ppiankov/politikcred/internal/store"
	log "github.com/sirupsen/logrus"
)

// BuildEngine wires the configured embedding provider behind the monthly
// quota, the rate limiter and the vector cache, with keyword fallback.
// Without a provider the engine runs on keywords alone and the quota is nil.
// limiter may be nil.
func BuildEngine(ctx context.Context, cfg *model.Config, st store.Store, limiter llm.Waiter) (*similarity.Engine, *llm.Quota, error) {
	fallback := similarity.NewKeywordStrategy()

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.Embedding))
	if err != nil {
		return nil, nil, fmt.Errorf("embedding provider: %w", err)
	}
	if provider == nil {
		log.Debug("No embedding provider configured, using keyword similarity")
		return similarity.NewEngine(nil, fallback), nil, nil
	}

	quota := llm.NewQuota(cfg.Embedding.MonthlyQuota)
	month, used, err := st.LoadQuota(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load embedding quota: %w", err)
	}
	quota.Restore(month, used)

	guarded := llm.NewQuotaProvider(provider, quota, limiter, cfg.Embedding.BaseURL)

	var vectors *cache.VectorCache
	if cfg.Cache.Enabled {
		vectors = cache.NewVectorCache(
			cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL),
			cfg.Embedding.Model,
			cfg.Cache.DiskTTL,
		)
	}

	log.WithFields(log.Fields{
		"provider":  provider.Name(),
		"model":     cfg.Embedding.Model,
		"remaining": quota.Remaining(),
	}).Debug("Embedding similarity enabled")

	return similarity.NewEngine(similarity.NewEmbeddingStrategy(guarded, vectors), fallback), quota, nil
}
