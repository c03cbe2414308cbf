package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Blacklist remembers logged-out session tokens until they expire. Only an
// HMAC of each token is stored.
type Blacklist interface {
	Add(ctx context.Context, rawToken string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, rawToken string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

/* ---------- postgres (gorm) ---------- */

type GormBlacklist struct {
	DB     *gorm.DB
	Secret string
}

func NewGormBlacklist(db *gorm.DB, secret string) *GormBlacklist {
	return &GormBlacklist{DB: db, Secret: secret}
}

func (b *GormBlacklist) Add(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	err := b.DB.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token, expired_at, created_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (token) DO UPDATE
		SET expired_at = EXCLUDED.expired_at,
		    deleted_at = NULL
	`, hmacHex(rawToken, b.Secret), expiresAt).Error
	return errors.Wrap(err, "blacklist add")
}

func (b *GormBlacklist) IsBlacklisted(ctx context.Context, rawToken string) (bool, error) {
	if strings.TrimSpace(rawToken) == "" {
		return false, nil
	}
	var exists bool
	err := b.DB.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1
		  FROM token_blacklist
		  WHERE token = ?
		    AND deleted_at IS NULL
		    AND expired_at > NOW()
		)
	`, hmacHex(rawToken, b.Secret)).Scan(&exists).Error
	return exists, errors.Wrap(err, "blacklist lookup")
}

func (b *GormBlacklist) PurgeExpired(ctx context.Context) (int64, error) {
	res := b.DB.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at <= NOW()`)
	return res.RowsAffected, errors.Wrap(res.Error, "blacklist purge")
}

/* ---------- redis ---------- */

// RedisBlacklist lets key expiry do the purging.
type RedisBlacklist struct {
	Client *redis.Client
	Secret string
	Prefix string
}

func NewRedisBlacklist(client *redis.Client, secret string) *RedisBlacklist {
	return &RedisBlacklist{Client: client, Secret: secret, Prefix: "blacklist:"}
}

func (b *RedisBlacklist) Add(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	err := b.Client.Set(ctx, b.Prefix+hmacHex(rawToken, b.Secret), expiresAt.Unix(), ttl).Err()
	return errors.Wrap(err, "blacklist add")
}

func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, rawToken string) (bool, error) {
	if strings.TrimSpace(rawToken) == "" {
		return false, nil
	}
	n, err := b.Client.Exists(ctx, b.Prefix+hmacHex(rawToken, b.Secret)).Result()
	if err != nil {
		return false, errors.Wrap(err, "blacklist lookup")
	}
	return n > 0, nil
}

func (b *RedisBlacklist) PurgeExpired(context.Context) (int64, error) { return 0, nil }

/* ---------- in process ---------- */

type MemoryBlacklist struct {
	mu     sync.Mutex
	secret string
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryBlacklist(secret string) *MemoryBlacklist {
	return &MemoryBlacklist{secret: secret, tokens: map[string]time.Time{}, now: time.Now}
}

func (b *MemoryBlacklist) Add(_ context.Context, rawToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[hmacHex(rawToken, b.secret)] = expiresAt
	return nil
}

func (b *MemoryBlacklist) IsBlacklisted(_ context.Context, rawToken string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.tokens[hmacHex(rawToken, b.secret)]
	return ok && exp.After(b.now()), nil
}

func (b *MemoryBlacklist) PurgeExpired(context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int64
	now := b.now()
	for k, exp := range b.tokens {
		if !exp.After(now) {
			delete(b.tokens, k)
			n++
		}
	}
	return n, nil
}
