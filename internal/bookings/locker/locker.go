// Package locker serializes booking creation per vehicle so the availability
// check and the insert that follows it cannot interleave.
package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/internal/bookings/repository"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/google/uuid"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"

	defaultRetryInterval = 25 * time.Millisecond
	releaseTimeout       = 5 * time.Second
)

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func()

type Locker interface {
	// Lock blocks until key is held, ctx is done, or the configured wait elapses.
	Lock(ctx context.Context, key string) (Unlock, error)
}

func withWait(ctx context.Context, wait time.Duration) (context.Context, context.CancelFunc) {
	if wait <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, wait)
}

func timeoutError(key string, err error) error {
	return fmt.Errorf("%w: %s: %w", bookingserrors.ErrLockTimeout, key, err)
}

// ────────────────────────────────────────────────
// In-memory keyed mutex
// ────────────────────────────────────────────────

type MemoryLocker struct {
	wait  time.Duration
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{wait: wait, locks: make(map[string]*keyLock)}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	ctx, cancel := withWait(ctx, l.wait)
	defer cancel()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, kl)
		return nil, timeoutError(key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			l.unref(key, kl)
		})
	}, nil
}

// unref drops the entry once nobody holds or waits for it.
func (l *MemoryLocker) unref(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// ────────────────────────────────────────────────
// Mongo advisory lock
// ────────────────────────────────────────────────

type MongoLocker struct {
	repo  repository.VehicleLockRepository
	ttl   time.Duration
	wait  time.Duration
	retry time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func NewMongoLocker(repo repository.VehicleLockRepository, ttl, wait time.Duration, log *logger.Logger) *MongoLocker {
	return &MongoLocker{
		repo:  repo,
		ttl:   ttl,
		wait:  wait,
		retry: defaultRetryInterval,
		log:   log,
		now:   time.Now,
	}
}

// Lock polls until the lock document can be inserted. A crashed holder's
// lock stops blocking once its TTL passes.
func (l *MongoLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	id := "vehicle:" + key
	owner := uuid.NewString()

	waitCtx, cancel := withWait(ctx, l.wait)
	defer cancel()

	for {
		err := l.repo.Acquire(waitCtx, &model.VehicleLock{
			ID:        id,
			Owner:     owner,
			ExpiresAt: l.now().Add(l.ttl),
		})
		if err == nil {
			break
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			if waitCtx.Err() != nil {
				return nil, timeoutError(key, waitCtx.Err())
			}
			return nil, err
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-waitCtx.Done():
			timer.Stop()
			return nil, timeoutError(key, waitCtx.Err())
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()
			if err := l.repo.Release(releaseCtx, id, owner); err != nil {
				l.log.Warn("Failed to release vehicle lock", "lock_id", id, "error", err)
			}
		})
	}, nil
}
