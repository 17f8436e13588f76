package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/port"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyEntry[T any] struct {
	Status      IdempotencyStatus `json:"status"`
	PayloadHash string            `json:"payload_hash"`
	Result      *T                `json:"result,omitempty"`
}

const (
	CodeIdempotencyKeyReused  = "IDEMPOTENCY_KEY_REUSED"
	CodeIdempotencyInProgress = "IDEMPOTENCY_IN_PROGRESS"

	maxClaimAttempts = 2
)

var errIdempotencyReleased = errors.New("idempotency key released")

// IdempotencyService lets a client retry a write with the same key and receive the first
// result instead of repeating the side effects. Keys live under "idempotency:<scope>:".
type IdempotencyService[T any] struct {
	scope        string
	cache        port.CachePort[IdempotencyEntry[T]]
	ttl          time.Duration
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewIdempotencyService[T any](
	scope string,
	cache port.CachePort[IdempotencyEntry[T]],
	ttl time.Duration,
	pollInterval time.Duration,
	pollTimeout time.Duration,
) *IdempotencyService[T] {
	return &IdempotencyService[T]{
		scope:        scope,
		cache:        cache,
		ttl:          ttl,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

func (s *IdempotencyService[T]) cacheKey(key string) string {
	return fmt.Sprintf("idempotency:%s:%s", s.scope, key)
}

// Claim reserves key for the caller. It returns (nil, nil) when the caller owns the key and
// must run the operation, or the stored result when an earlier request already completed.
// A key released by a failed holder is claimed again, at most maxClaimAttempts times.
func (s *IdempotencyService[T]) Claim(ctx context.Context, key, payloadHash string) (*T, error) {
	for attempt := 1; ; attempt++ {
		claimed, err := s.cache.SetNX(ctx, s.cacheKey(key), &IdempotencyEntry[T]{
			Status:      IdempotencyProcessing,
			PayloadHash: payloadHash,
		}, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("idempotency claim failed: %w", err)
		}
		if claimed {
			return nil, nil
		}

		result, err := s.waitForCompletion(ctx, key, payloadHash)
		if !errors.Is(err, errIdempotencyReleased) {
			return result, err
		}
		if attempt == maxClaimAttempts {
			return nil, serviceerrors.NewConflictError("previous request failed, retry with the same key").
				WithCode(CodeIdempotencyInProgress)
		}
		logger.Debug(ctx, "idempotency: key released by previous holder, reclaiming", map[string]any{
			"scope":           s.scope,
			"idempotency_key": key,
			"attempt":         attempt,
		})
	}
}

func (s *IdempotencyService[T]) Complete(ctx context.Context, key, payloadHash string, result *T) {
	err := s.cache.Set(ctx, s.cacheKey(key), &IdempotencyEntry[T]{
		Status:      IdempotencyCompleted,
		PayloadHash: payloadHash,
		Result:      result,
	}, s.ttl)
	if err != nil {
		logger.Error(ctx, "idempotency: complete failed", err, map[string]any{
			"scope":           s.scope,
			"idempotency_key": key,
			"payload_hash":    payloadHash,
		})
	}
}

func (s *IdempotencyService[T]) Release(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, s.cacheKey(key)); err != nil {
		logger.Error(ctx, "idempotency: release failed", err, map[string]any{
			"scope":           s.scope,
			"idempotency_key": key,
		})
	}
}

func (s *IdempotencyService[T]) checkEntry(ctx context.Context, key, payloadHash string) (*T, error) {
	entry, err := s.cache.Get(ctx, s.cacheKey(key))
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if entry == nil {
		return nil, errIdempotencyReleased
	}
	if entry.PayloadHash != payloadHash {
		return nil, serviceerrors.NewUnprocessableEntityError("idempotency key already used with a different payload").
			WithCode(CodeIdempotencyKeyReused)
	}
	if entry.Status == IdempotencyCompleted {
		return entry.Result, nil
	}
	return nil, nil
}

func (s *IdempotencyService[T]) waitForCompletion(ctx context.Context, key, payloadHash string) (*T, error) {
	result, err := s.checkEntry(ctx, key, payloadHash)
	if result != nil || err != nil {
		return result, err
	}

	timeout := time.After(s.pollTimeout)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting on idempotency key: %w", ctx.Err())
		case <-timeout:
			return nil, serviceerrors.NewConflictError("idempotency key still being processed, timed out").
				WithCode(CodeIdempotencyInProgress)
		case <-ticker.C:
			result, err := s.checkEntry(ctx, key, payloadHash)
			if result != nil || err != nil {
				return result, err
			}
		}
	}
}
