// Package similarity scores how closely an action's text matches a promise.
package similarity

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ppiankov/politikcred/internal/metrics"
	"github.com/ppiankov/politikcred/internal/model"
	log "github.com/sirupsen/logrus"
)

// Strategy computes a similarity in [0,1] between a promise and a candidate
// action text
type Strategy interface {
	Name() model.Method
	Similarity(ctx context.Context, promise, candidate string) (float64, error)
}

// Availability is implemented by strategies that depend on an external service
type Availability interface {
	IsAvailable(ctx context.Context) bool
}

// Engine prefers a primary strategy and falls back to a local one. The
// first primary failure switches the engine to the fallback for the rest
// of its life; the primary is not retried.
type Engine struct {
	primary  Strategy
	fallback Strategy
	degraded atomic.Bool
}

// NewEngine creates an engine. primary may be nil, in which case the
// fallback is used from the start.
func NewEngine(primary Strategy, fallback Strategy) *Engine {
	e := &Engine{primary: primary, fallback: fallback}
	if primary == nil {
		e.degraded.Store(true)
	}
	return e
}

// Prepare checks primary availability before a batch. An unavailable
// primary degrades the engine without making a similarity call.
func (e *Engine) Prepare(ctx context.Context) {
	if e.degraded.Load() {
		return
	}
	if a, ok := e.primary.(Availability); ok && !a.IsAvailable(ctx) {
		e.Degrade("provider unavailable")
	}
}

// Degrade switches to the fallback strategy. Only the first call logs.
func (e *Engine) Degrade(reason string) {
	if !e.degraded.CompareAndSwap(false, true) {
		return
	}
	provider := string(e.primary.Name())
	if p, ok := e.primary.(interface{ Provider() string }); ok {
		provider = p.Provider()
	}
	metrics.DegradationsTotal.WithLabelValues(provider).Inc()
	log.WithFields(log.Fields{
		"provider": provider,
		"reason":   reason,
		"fallback": e.fallback.Name(),
	}).Warn("similarity degraded to fallback strategy")
}

// Degraded reports whether the fallback is in use
func (e *Engine) Degraded() bool {
	return e.degraded.Load()
}

// Method returns the strategy currently in use
func (e *Engine) Method() model.Method {
	if e.degraded.Load() {
		return e.fallback.Name()
	}
	return e.primary.Name()
}

// Similarity scores a pair and reports which strategy produced the score.
// Primary errors are absorbed by degrading; the result is always in [0,1].
func (e *Engine) Similarity(ctx context.Context, promise, candidate string) (float64, model.Method) {
	if !e.degraded.Load() {
		start := time.Now()
		score, err := e.primary.Similarity(ctx, promise, candidate)
		if err == nil {
			method := e.primary.Name()
			observe(method, start)
			return model.Clamp01(score), method
		}
		e.Degrade(err.Error())
	}

	start := time.Now()
	score, err := e.fallback.Similarity(ctx, promise, candidate)
	method := e.fallback.Name()
	observe(method, start)
	if err != nil {
		log.WithError(err).Debug("fallback similarity failed")
		return 0, method
	}
	return model.Clamp01(score), method
}

func observe(method model.Method, start time.Time) {
	metrics.SimilarityTotal.WithLabelValues(string(method)).Inc()
	metrics.SimilarityLatency.WithLabelValues(string(method)).Observe(time.Since(start).Seconds())
}
