package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
)

const magicLinkKeyPrefix = "smartclean:magic-link:"

// TokenRepository stores one-time magic-link nonces in Redis. Each nonce maps to the account it
// was issued for and disappears on first use or expiry.
type TokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewTokenRepository constructs a Redis-backed token store.
func NewTokenRepository(client *redis.Client, logger *zap.Logger) *TokenRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenRepository{client: client, logger: logger}
}

// Save records a nonce for accountID until ttl elapses.
func (r *TokenRepository) Save(ctx context.Context, nonce, accountID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, magicLinkKeyPrefix+nonce, accountID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set magic link %s: %w", nonce, err)
	}
	return nil
}

// Consume atomically reads and deletes a nonce. Unknown or spent nonces return ErrCacheMiss.
func (r *TokenRepository) Consume(ctx context.Context, nonce string) (string, error) {
	accountID, err := r.client.GetDel(ctx, magicLinkKeyPrefix+nonce).Result()
	if err != nil {
		if err == redis.Nil {
			return "", appErrors.ErrCacheMiss
		}
		return "", fmt.Errorf("redis getdel magic link %s: %w", nonce, err)
	}
	return accountID, nil
}

// Close releases the underlying Redis connection.
func (r *TokenRepository) Close() error {
	return r.client.Close()
}

type memoryToken struct {
	accountID string
	expiresAt time.Time
}

// MemoryTokenRepository is the single-process token store used when Redis is disabled.
type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	now    func() time.Time
}

// NewMemoryTokenRepository constructs an empty in-memory token store.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]memoryToken), now: time.Now}
}

// Save records a nonce for accountID until ttl elapses. Expired entries are swept on write.
func (r *MemoryTokenRepository) Save(ctx context.Context, nonce, accountID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for key, tok := range r.tokens {
		if !now.Before(tok.expiresAt) {
			delete(r.tokens, key)
		}
	}
	r.tokens[nonce] = memoryToken{accountID: accountID, expiresAt: now.Add(ttl)}
	return nil
}

// Consume reads and deletes a nonce. Unknown, spent or expired nonces return ErrCacheMiss.
func (r *MemoryTokenRepository) Consume(ctx context.Context, nonce string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[nonce]
	if !ok {
		return "", appErrors.ErrCacheMiss
	}
	delete(r.tokens, nonce)
	if !r.now().Before(tok.expiresAt) {
		return "", appErrors.ErrCacheMiss
	}
	return tok.accountID, nil
}

// Close is a no-op.
func (r *MemoryTokenRepository) Close() error {
	return nil
}
