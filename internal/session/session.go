package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is per-client opaque key-value state surviving across requests.
// The cart, the checkout customer-info snapshot and the login all live here.
type Store interface {
	Get(ctx context.Context, sessionID, field string) (string, bool, error)
	Set(ctx context.Context, sessionID, field, value string) error
	Delete(ctx context.Context, sessionID string, fields ...string) error

	Flash(ctx context.Context, sessionID, level, message string) error
	Flashes(ctx context.Context, sessionID string) ([]FlashMessage, error)
}

// FlashMessage is a one-shot user-facing notice, drained on the next page
// view after a redirect.
type FlashMessage struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// FieldUserID holds the authenticated user id once login succeeds.
const FieldUserID = "user_id"

// Manager is the Redis-backed Store. Each session is a hash under one key
// with a sliding TTL; flashes are a sibling list.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	return &Manager{client: client, ttl: ttl}
}

func (m *Manager) Get(ctx context.Context, sessionID, field string) (string, bool, error) {
	v, err := m.client.HGet(ctx, m.key(sessionID), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session field %q: %w", field, err)
	}
	return v, true, nil
}

func (m *Manager) Set(ctx context.Context, sessionID, field, value string) error {
	pipe := m.client.Pipeline()
	pipe.HSet(ctx, m.key(sessionID), field, value)
	pipe.Expire(ctx, m.key(sessionID), m.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write session field %q: %w", field, err)
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, sessionID string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := m.client.HDel(ctx, m.key(sessionID), fields...).Err(); err != nil {
		return fmt.Errorf("failed to delete session fields: %w", err)
	}
	return nil
}

func (m *Manager) Flash(ctx context.Context, sessionID, level, message string) error {
	payload, err := json.Marshal(FlashMessage{Level: level, Message: message})
	if err != nil {
		return err
	}

	pipe := m.client.Pipeline()
	pipe.RPush(ctx, m.flashKey(sessionID), payload)
	pipe.Expire(ctx, m.flashKey(sessionID), m.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push flash: %w", err)
	}
	return nil
}

// Flashes drains and returns all pending flash messages.
func (m *Manager) Flashes(ctx context.Context, sessionID string) ([]FlashMessage, error) {
	pipe := m.client.TxPipeline()
	lrange := pipe.LRange(ctx, m.flashKey(sessionID), 0, -1)
	pipe.Del(ctx, m.flashKey(sessionID))

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to drain flashes: %w", err)
	}

	raw := lrange.Val()
	out := make([]FlashMessage, 0, len(raw))
	for _, r := range raw {
		var fm FlashMessage
		if err := json.Unmarshal([]byte(r), &fm); err != nil {
			continue
		}
		out = append(out, fm)
	}
	return out, nil
}

func (m *Manager) key(sessionID string) string {
	return "session:" + sessionID
}

func (m *Manager) flashKey(sessionID string) string {
	return "session:" + sessionID + ":flash"
}
