package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	domainRepo "github.com/sangkips/selfcheckout-kiosk/internal/domain/repository"
)

// Sessions are not persisted, so neither are the keys guarding their payments.
type idempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

// NewIdempotencyRepository creates a new in-memory idempotency repository
func NewIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &idempotencyRepository{keys: make(map[string]entity.IdempotencyKey)}
}

func idempotencyMapKey(key, endpoint string) string {
	return endpoint + "|" + key
}

func (r *idempotencyRepository) GetByKey(_ context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ikey, ok := r.keys[idempotencyMapKey(key, endpoint)]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	r.keys[idempotencyMapKey(ikey.Key, ikey.Endpoint)] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for k, ikey := range r.keys {
		if ikey.IsExpired() {
			delete(r.keys, k)
			removed++
		}
	}
	return removed, nil
}
