package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix   = "qrauth:token:"
	sessionKeyPrefix = "qrauth:session:"
)

// consumeScript runs the whole check-and-set server side, so concurrent
// consumers of the same token serialize inside Redis. It returns a status
// plus the token document as it was before consumption.
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
  return {'not_found', ''}
end
local tok = cjson.decode(raw)
if tok.consumed then
  return {'used', ''}
end
if tonumber(ARGV[1]) > tok.expires_at_ms then
  return {'expired', ''}
end
tok.consumed = true
local ttl = redis.call('PTTL', KEYS[1])
if ttl > 0 then
  redis.call('SET', KEYS[1], cjson.encode(tok), 'PX', ttl)
else
  redis.call('SET', KEYS[1], cjson.encode(tok))
end
return {'ok', raw}
`)

// tokenDoc is the Redis representation of an auth token. The extra millisecond
// expiry field exists for the Lua comparison; cjson cannot parse RFC 3339.
type tokenDoc struct {
	model.AuthToken
	ExpiresAtMs int64 `json:"expires_at_ms"`
}

// RedisTokenRepository implements the token and session repositories on
// Redis. Entries expire with key-level TTLs, and token consumption runs as a
// Lua script for atomicity.
type RedisTokenRepository struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisTokenRepository creates a new Redis-based token repository
func NewRedisTokenRepository(client *redis.Client, log logger.Logger) *RedisTokenRepository {
	return &RedisTokenRepository{
		client: client,
		logger: log.WithComponent("redis_token_repo"),
	}
}

// CreateToken stores the token as JSON with a TTL matching its lifetime.
func (r *RedisTokenRepository) CreateToken(ctx context.Context, token *model.AuthToken) error {
	doc := tokenDoc{
		AuthToken:   *token,
		ExpiresAtMs: token.ExpiresAt.UnixMilli(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}

	// Key TTL comes from the token's own lifetime, keeping store behavior a
	// pure function of the record. Reads re-check expiry against the given
	// clock, so a longer key life never widens access.
	ttl := token.ExpiresAt.Sub(token.IssuedAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := r.client.Set(ctx, tokenKeyPrefix+token.ID, data, ttl).Err(); err != nil {
		r.logger.Error("failed to store token in redis: ", err)
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// ConsumeToken executes the consumption script and maps its status to the
// domain errors. A key Redis already expired reads as not-found, which is
// intentionally indistinguishable from a token that never existed.
func (r *RedisTokenRepository) ConsumeToken(ctx context.Context, tokenID string, now time.Time) (*model.AuthToken, error) {
	res, err := consumeScript.Run(ctx, r.client,
		[]string{tokenKeyPrefix + tokenID},
		now.UnixMilli(),
	).Result()
	if err != nil {
		r.logger.Error("consume script failed: ", err)
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	reply, ok := res.([]interface{})
	if !ok || len(reply) != 2 {
		return nil, fmt.Errorf("%w: unexpected script reply", model.ErrStoreUnavailable)
	}

	status, _ := reply[0].(string)
	switch status {
	case "ok":
	case "not_found":
		return nil, model.ErrTokenNotFound
	case "used":
		return nil, model.ErrTokenAlreadyUsed
	case "expired":
		return nil, model.ErrTokenExpired
	default:
		return nil, fmt.Errorf("%w: unexpected script status %q", model.ErrStoreUnavailable, status)
	}

	raw, _ := reply[1].(string)
	var doc tokenDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	token := doc.AuthToken
	token.Consumed = true
	return &token, nil
}

// CreateSession stores the session as JSON with a TTL matching its lifetime.
func (r *RedisTokenRepository) CreateSession(ctx context.Context, session *model.WebSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	ttl := session.ExpiresAt.Sub(session.CreatedAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		r.logger.Error("failed to store session in redis: ", err)
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// GetSessionByID returns the session or model.ErrSessionNotFound.
func (r *RedisTokenRepository) GetSessionByID(ctx context.Context, sessionID string) (*model.WebSession, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	var session model.WebSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session. Absent sessions are a no-op.
func (r *RedisTokenRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// Interface guards
var (
	_ repository.TokenRepository   = (*RedisTokenRepository)(nil)
	_ repository.SessionRepository = (*RedisTokenRepository)(nil)
)
