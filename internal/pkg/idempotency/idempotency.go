// Package idempotency deduplicates client retries of non-idempotent requests
// using a redis key per client-supplied idempotency key.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInProgress means another request with the same key is still running.
	ErrInProgress = errors.New("idempotency: request in progress")
	// ErrCompleted means a request with the same key already succeeded.
	ErrCompleted = errors.New("idempotency: request already completed")
	// ErrUnknownState means the stored value is not one this package writes.
	ErrUnknownState = errors.New("idempotency: unknown state")
)

// State is the value stored under a key.
type State string

const (
	StateFree       State = ""
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Idempotency guards fn so it runs at most once per key while the key lives.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

type Option func(*options)

type options struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an unfinished run holds the key.
func WithLockDuration(d time.Duration) Option {
	return func(o *options) { o.lockDuration = d }
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *options) { o.stateTTL = d }
}

// Tracker stores key state in redis.
type Tracker struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, prefix string) *Tracker {
	if prefix == "" {
		prefix = "idempotency:"
	}
	return &Tracker{client: client, prefix: prefix}
}

// Acquire claims key for lockDuration. It returns StateFree when the claim
// succeeded, otherwise the state held by the current owner.
func (t *Tracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	k := t.prefix + key

	ok, err := t.client.SetNX(ctx, k, string(StateInProgress), lockDuration).Result()
	if err != nil {
		return StateFree, err
	}
	if ok {
		return StateFree, nil
	}

	val, err := t.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; one more try
		return t.retryAcquire(ctx, k, lockDuration)
	}
	if err != nil {
		return StateFree, err
	}

	switch State(val) {
	case StateInProgress, StateCompleted:
		return State(val), nil
	default:
		return StateFree, ErrUnknownState
	}
}

func (t *Tracker) retryAcquire(ctx context.Context, k string, lockDuration time.Duration) (State, error) {
	ok, err := t.client.SetNX(ctx, k, string(StateInProgress), lockDuration).Result()
	if err != nil {
		return StateFree, err
	}
	if !ok {
		return StateInProgress, nil
	}
	return StateFree, nil
}

// Complete marks key as done for ttl.
func (t *Tracker) Complete(ctx context.Context, key string, ttl time.Duration) error {
	return t.client.Set(ctx, t.prefix+key, string(StateCompleted), ttl).Err()
}

// Release forgets key so the client may retry.
func (t *Tracker) Release(ctx context.Context, key string) error {
	return t.client.Del(ctx, t.prefix+key).Err()
}

// Exec runs fn under key. A failed fn releases the key and its error is
// returned unchanged.
func (t *Tracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := options{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := t.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrInProgress
	case StateCompleted:
		return ErrCompleted
	}

	if err := fn(ctx); err != nil {
		if relErr := t.Release(ctx, key); relErr != nil {
			return errors.Join(err, relErr)
		}
		return err
	}

	return t.Complete(ctx, key, o.stateTTL)
}
