package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisGuard claims idem:checkout:{token} with SETNX. A second claim of the
// same token within the TTL is a duplicate submission.
type RedisGuard struct{ Redis *redis.Client }

func (g *RedisGuard) Acquire(ctx context.Context, token string) error {
	if token == "" {
		return apperr.Invalid("token", "form kedaluwarsa, muat ulang halaman")
	}
	ok, err := redisx.Claim(ctx, g.Redis, fmt.Sprintf(redisx.KeyIdemCheckout, token), redisx.TTLIdempotency)
	if err != nil {
		return fmt.Errorf("checkout guard: %w", err)
	}
	if !ok {
		return apperr.ErrDuplicateSubmission
	}
	return nil
}

// MemoryGuard is the single-process variant used with the memory cart backend.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func (g *MemoryGuard) Acquire(_ context.Context, token string) error {
	if token == "" {
		return apperr.Invalid("token", "form kedaluwarsa, muat ulang halaman")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen == nil {
		g.seen = map[string]struct{}{}
	}
	if _, dup := g.seen[token]; dup {
		return apperr.ErrDuplicateSubmission
	}
	g.seen[token] = struct{}{}
	return nil
}
